package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateOfferRequest struct {
	Name      string  `json:"name"`
	NbrTicket int     `json:"nbr_ticket"`
	Prix      float64 `json:"prix"`
}

func (req *CreateOfferRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.NbrTicket, validation.Required, validation.Min(1)),
		validation.Field(&req.Prix, validation.Min(0.0)),
	)
}
