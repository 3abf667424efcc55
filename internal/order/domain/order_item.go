package domain

// OrderItem is a line item snapshot taken at checkout time. Product name and
// price are copied so historical orders stay stable when the catalog changes.
// On the wire "id" is the product ID; the line's own key never leaves the
// database.
type OrderItem struct {
	LineID    string `json:"-"`
	OrderID   string `json:"-"`
	ProductID string `json:"id"`
	Name      string `json:"nome"`
	Price     int64  `json:"preco"`
	Quantity  int    `json:"quantidade"`
}

// LineTotal returns the total price for this line item in centavos.
func (i *OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
