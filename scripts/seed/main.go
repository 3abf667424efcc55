// Package main implements a standalone seed script that populates a running
// orderd instance with the storefront's coffee catalog and a handful of demo
// orders. Products are created through the HTTP API so slug generation and
// validation run exactly as they do in production.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// --------------------------------------------------------------------------
// HTTP helpers
// --------------------------------------------------------------------------

func httpPost(url, token string, body any) (map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("POST %s returned %d: %s", url, resp.StatusCode, string(respBody))
	}

	var parsed map[string]any
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return parsed, nil
}

// --------------------------------------------------------------------------
// Seed data
// --------------------------------------------------------------------------

type product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	InStock     bool   `json:"in_stock"`
}

// Prices are integer centavos.
var catalog = []product{
	{"Espresso", "Dose curta e intensa", 600, "bebidas", true},
	{"Espresso Duplo", "Dose dupla para dias longos", 900, "bebidas", true},
	{"Latte", "Espresso com leite vaporizado", 1100, "bebidas", true},
	{"Cappuccino", "Com espuma de leite e canela", 1200, "bebidas", true},
	{"Mocha", "Espresso, chocolate e leite", 1400, "bebidas", true},
	{"Café Coado", "Método tradicional, coado na hora", 800, "bebidas", true},
	{"Chá de Hibisco", "Infusão gelada ou quente", 700, "bebidas", true},
	{"Pão de Queijo", "Assado na casa, porção com três", 500, "salgados", true},
	{"Misto Quente", "Pão de forma, queijo e presunto", 1000, "salgados", true},
	{"Bolo de Cenoura", "Com cobertura de brigadeiro", 900, "doces", true},
	{"Brownie", "Chocolate meio amargo com nozes", 1100, "doces", false},
}

type orderItem struct {
	ID         string `json:"id"`
	Nome       string `json:"nome"`
	Quantidade int    `json:"quantidade"`
	Preco      int64  `json:"preco"`
}

type order struct {
	Cliente string      `json:"cliente"`
	Email   string      `json:"email"`
	Itens   []orderItem `json:"itens"`
}

// --------------------------------------------------------------------------
// Main
// --------------------------------------------------------------------------

func main() {
	orderdURL := getEnv("ORDERD_URL", "http://localhost:8001")
	staffToken := getEnv("STAFF_TOKEN", "")
	if staffToken == "" {
		log.Fatal("STAFF_TOKEN is required: product creation is staff-only")
	}

	log.Printf("seeding %d products into %s", len(catalog), orderdURL)

	ids := make(map[string]string, len(catalog))
	for _, p := range catalog {
		resp, err := httpPost(orderdURL+"/produtos", staffToken, p)
		if err != nil {
			log.Printf("skip %q: %v", p.Name, err)
			continue
		}
		data, _ := resp["data"].(map[string]any)
		id, _ := data["id"].(string)
		ids[p.Name] = id
		log.Printf("created %q (%s)", p.Name, id)
	}

	demoOrders := []order{
		{
			Cliente: "Maria Silva",
			Email:   "maria@example.com",
			Itens: []orderItem{
				{ID: ids["Espresso"], Nome: "Espresso", Quantidade: 2, Preco: 600},
				{ID: ids["Latte"], Nome: "Latte", Quantidade: 1, Preco: 1100},
			},
		},
		{
			Cliente: "João Souza",
			Email:   "joao@example.com",
			Itens: []orderItem{
				{ID: ids["Pão de Queijo"], Nome: "Pão de Queijo", Quantidade: 3, Preco: 500},
				{ID: ids["Café Coado"], Nome: "Café Coado", Quantidade: 1, Preco: 800},
			},
		},
	}

	for _, o := range demoOrders {
		resp, err := httpPost(orderdURL+"/pedidos", "", o)
		if err != nil {
			log.Printf("skip order for %q: %v", o.Cliente, err)
			continue
		}
		data, _ := resp["data"].(map[string]any)
		log.Printf("created order %v for %q", data["id"], o.Cliente)
	}

	log.Println("seed complete")
}
