package response

import "github.com/jo-france/reservation-api/internal/domain"

// PaymentResponse is rendered after a successful confirm; the final
// key is the buyer's e-ticket.
type PaymentResponse struct {
	OrderID     uint   `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
	FinalKey    string `json:"final_key"`
}

// OrderPage is one admin page of orders plus the look-ahead flag.
type OrderPage struct {
	Orders  []domain.OrderLine `json:"orders"`
	Page    int                `json:"page"`
	HasNext bool               `json:"has_next"`
}

// UserPage is one admin page of users plus the look-ahead flag.
type UserPage struct {
	Users   []domain.User `json:"users"`
	Page    int           `json:"page"`
	HasNext bool          `json:"has_next"`
}
