package domain

import "time"

// PaymentSuccess is the only payment status the simulated gateway
// produces.
const PaymentSuccess = "success"

// Payment finalizes exactly one order. Key2 is the per-payment secret;
// FinalKey is derived from the owner's Key1 and Key2 and shown to the
// buyer as their e-ticket.
type Payment struct {
	ID          uint      `json:"id"`
	OrderID     uint      `json:"order_id"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	Key2        string    `json:"-"`
	FinalKey    string    `json:"final_key"`
	CreatedAt   time.Time `json:"created_at"`
}
