package domain

import "time"

// Offer is a fixed ticket pack: NbrTicket persons admitted per unit of
// order quantity, priced in euros.
type Offer struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	NbrTicket int       `json:"nbr_ticket"`
	Prix      float64   `json:"prix"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OfferStats aggregates paid orders per offer for the admin dashboard.
type OfferStats struct {
	OfferID       uint    `json:"offer_id"`
	Name          string  `json:"name"`
	NbrTicket     int     `json:"nbr_ticket"`
	Prix          float64 `json:"prix"`
	TotalPacks    int     `json:"total_packs"`
	TotalPersons  int     `json:"total_persons"`
	TotalTurnover float64 `json:"total_turnover"`
}
