package response

import "github.com/jo-france/reservation-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// SelectionResponse carries the opaque token an anonymous visitor
// presents back at login to recover the offer they picked.
type SelectionResponse struct {
	SelectionToken string `json:"selection_token"`
}
