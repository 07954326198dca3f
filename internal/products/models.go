package products

import "time"

// Product is one watched catalog item. Identity is the vendor product id
// (UPC). Price fields are the only columns the pipeline mutates after
// creation; everything else is set once when the product is first seen.
type Product struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Brand                string        `json:"brand"`
	Category             string        `json:"category"`
	ImageURL             string        `json:"image_url"`
	ProductURL           string        `json:"product_url"`
	RegularPrice         *float64      `json:"regular_price,omitempty"` // nullable
	PromoPrice           *float64      `json:"promo_price,omitempty"`   // nullable
	Fulfillment          Fulfillment   `json:"fulfillment"`
	StockLevel           string        `json:"stock_level"`
	Size                 string        `json:"size"`
	SoldBy               string        `json:"sold_by"`
	Location             ShelfLocation `json:"location"`
	Dimensions           Dimensions    `json:"dimensions"`
	TemperatureSensitive bool          `json:"temperature_sensitive"`
	CreatedAt            time.Time     `json:"created_at"`
}

type Fulfillment struct {
	Curbside   bool `json:"curbside"`
	Delivery   bool `json:"delivery"`
	InStore    bool `json:"in_store"`
	ShipToHome bool `json:"ship_to_home"`
}

type ShelfLocation struct {
	Aisle string `json:"aisle"`
	Shelf string `json:"shelf"`
	Bay   string `json:"bay"`
	Side  string `json:"side"`
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// ProductSummary is the trimmed shape returned by the listing endpoint.
type ProductSummary struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Brand                string   `json:"brand"`
	Category             string   `json:"category"`
	RegularPrice         *float64 `json:"regular_price"`
	PromoPrice           *float64 `json:"promo_price"`
	StockLevel           string   `json:"stock_level"`
	TemperatureSensitive bool     `json:"temperature_sensitive"`
}

// PriceHistory is one append-only snapshot of a product's prices at poll
// time. Rows are never edited after the fact.
type PriceHistory struct {
	ID           int64     `json:"id"`
	ProductID    string    `json:"product_id"`
	RecordedAt   time.Time `json:"timestamp"`
	PromoPrice   *float64  `json:"promo_price"`
	RegularPrice *float64  `json:"regular_price"`
}

// PollResult describes the outcome of one pipeline run.
type PollResult struct {
	Alert    bool     `json:"alert"`
	OldPrice *float64 `json:"old_price,omitempty"`
	NewPrice *float64 `json:"new_price,omitempty"`
}
