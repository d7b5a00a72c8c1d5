package domain

import "time"

type OrderStatus string

const (
	OrderDraft    OrderStatus = "draft"
	OrderPaid     OrderStatus = "paid"
	OrderCanceled OrderStatus = "canceled"
)

// Order is one cart entry. Quantity counts packs of the referenced
// offer, never individual tickets. Only Status changes after creation.
type Order struct {
	ID        uint        `json:"id"`
	UserID    uint        `json:"user_id"`
	OfferID   uint        `json:"offer_id"`
	Quantity  int         `json:"quantity"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (o *Order) IsDraft() bool {
	return o.Status == OrderDraft
}

// Cancel moves a draft to canceled. It reports whether the transition
// happened; paid orders are final.
func (o *Order) Cancel() bool {
	if o.Status != OrderDraft {
		return false
	}
	o.Status = OrderCanceled
	return true
}

// MarkPaid moves a draft to paid. It reports whether the transition
// happened; confirming twice must not re-enter the paid state.
func (o *Order) MarkPaid() bool {
	if o.Status != OrderDraft {
		return false
	}
	o.Status = OrderPaid
	return true
}

// OrderLine is an order joined with the attributes needed to render it:
// offer name/capacity/price, the owner's email (admin listings) and the
// final key (paid orders).
type OrderLine struct {
	Order
	OfferName string  `json:"offer_name"`
	NbrTicket int     `json:"nbr_ticket"`
	Prix      float64 `json:"prix"`
	UserEmail string  `json:"user_email,omitempty"`
	FinalKey  string  `json:"final_key,omitempty"`
}

// Total is the displayed line total in euros (price times packs).
func (l OrderLine) Total() float64 {
	qty := l.Quantity
	if qty < 1 {
		qty = 1
	}
	return l.Prix * float64(qty)
}
