package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple name", "Espresso", "espresso"},
		{"spaces become hyphens", "Cafe com Leite", "cafe-com-leite"},
		{"portuguese accents", "Pão de Queijo", "pao-de-queijo"},
		{"cedilla and acute", "Café Açaí", "cafe-acai"},
		{"punctuation stripped", "Hello   World!", "hello-world"},
		{"leading and trailing noise", "  --Mocha--  ", "mocha"},
		{"numbers kept", "Combo 2 Cafés", "combo-2-cafes"},
		{"empty input", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.in))
		})
	}
}
