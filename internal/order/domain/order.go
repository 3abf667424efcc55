package domain

import "time"

// Order status constants. The wire values are the Portuguese labels the
// storefront has always displayed, kept verbatim in the API and the database.
const (
	StatusPendente    = "PENDENTE"
	StatusProcessando = "PROCESSANDO"
	StatusEnviado     = "ENVIADO"
	StatusCancelado   = "CANCELADO"
)

// Order represents a submitted customer order. The JSON shape follows the
// /pedidos REST contract: customer fields and timestamps use Portuguese names.
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"cliente"`
	CustomerEmail string      `json:"email"`
	Status        string      `json:"status"`
	Items         []OrderItem `json:"itens"`
	TotalAmount   int64       `json:"total"`
	CreatedAt     time.Time   `json:"data_criacao"`
	UpdatedAt     time.Time   `json:"data_atualizacao"`
}

// ValidStatuses returns all valid order statuses.
func ValidStatuses() []string {
	return []string{
		StatusPendente,
		StatusProcessando,
		StatusEnviado,
		StatusCancelado,
	}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// AllowedTransitions defines which status transitions are valid. Every status
// may move to every other status: ENVIADO and CANCELADO are practical end
// states by convention only, and staff routinely reopen canceled orders.
func AllowedTransitions() map[string][]string {
	all := ValidStatuses()
	transitions := make(map[string][]string, len(all))
	for _, s := range all {
		transitions[s] = all
	}
	return transitions
}

// CanTransitionTo checks if the order can transition to the target status.
func (o *Order) CanTransitionTo(target string) bool {
	allowed, ok := AllowedTransitions()[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}
