package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// AddToCartRequest creates the user's draft order. Quantity counts
// packs; omitted or zero means the offer's capacity default.
type AddToCartRequest struct {
	OfferID  uint `json:"offer_id"`
	Quantity int  `json:"quantity"`
}

func (req *AddToCartRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.OfferID, validation.Required),
		validation.Field(&req.Quantity, validation.Min(0)),
	)
}
