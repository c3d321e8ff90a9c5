package entity

import "database/sql"

// Listing is a marketplace allowlist sale. Fulfillment must happen at most
// once per listing; it is bracketed by a RecordLock on the listing id.
type Listing struct {
	Base

	SellerID string
	Price    float64

	IsSold  bool
	BuyerID sql.NullString
}
