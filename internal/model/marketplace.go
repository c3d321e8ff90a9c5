package model

type FulfillListingRequest struct {
	ListingID string `json:"listing_id"`
}

type FulfillListingResponse struct{}
