// Package slug derives URL-friendly identifiers from product names.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Portuguese product names carry accents that must land as plain ASCII.
var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// Generate turns a display name into a slug:
//
//	"Pão de Queijo"  -> "pao-de-queijo"
//	"Café com Leite" -> "cafe-com-leite"
//	"Hello   World!" -> "hello-world"
func Generate(name string) string {
	s := accentReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
