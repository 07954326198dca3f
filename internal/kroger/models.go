package kroger

import (
	"bytes"
	"strconv"
)

// Product is one raw record from GET /v1/products. Arrays stay arrays
// here; picking the authoritative first element is the mapper's job.
type Product struct {
	ProductID       string          `json:"productId"`
	UPC             string          `json:"upc,omitempty"`
	Description     string          `json:"description,omitempty"`
	Brand           string          `json:"brand,omitempty"`
	Categories      []string        `json:"categories,omitempty"`
	ProductPageURI  string          `json:"productPageURI,omitempty"`
	Items           []Item          `json:"items,omitempty"`
	AisleLocations  []AisleLocation `json:"aisleLocations,omitempty"`
	Images          []Image         `json:"images,omitempty"`
	ItemInformation ItemInformation `json:"itemInformation,omitempty"`
	Temperature     Temperature     `json:"temperature,omitempty"`
}

type Item struct {
	ItemID      string      `json:"itemId,omitempty"`
	Price       Price       `json:"price,omitempty"`
	Fulfillment Fulfillment `json:"fulfillment,omitempty"`
	Inventory   Inventory   `json:"inventory,omitempty"`
	Size        string      `json:"size,omitempty"`
	SoldBy      string      `json:"soldBy,omitempty"`
}

// Price carries pointers because the vendor omits promo (and sometimes
// regular) entirely for unpriced items.
type Price struct {
	Regular *float64 `json:"regular,omitempty"`
	Promo   *float64 `json:"promo,omitempty"`
}

type Fulfillment struct {
	Curbside   bool `json:"curbside"`
	Delivery   bool `json:"delivery"`
	InStore    bool `json:"inStore"`
	ShipToHome bool `json:"shipToHome"`
}

type Inventory struct {
	StockLevel string `json:"stockLevel,omitempty"`
}

type AisleLocation struct {
	Number      string `json:"number,omitempty"`
	ShelfNumber string `json:"shelfNumber,omitempty"`
	BayNumber   string `json:"bayNumber,omitempty"`
	Side        string `json:"side,omitempty"`
}

type Image struct {
	Perspective string      `json:"perspective,omitempty"`
	Sizes       []ImageSize `json:"sizes,omitempty"`
}

type ImageSize struct {
	Size string `json:"size,omitempty"`
	URL  string `json:"url,omitempty"`
}

type ItemInformation struct {
	Width  Measurement `json:"width,omitempty"`
	Height Measurement `json:"height,omitempty"`
	Depth  Measurement `json:"depth,omitempty"`
}

type Temperature struct {
	Indicator     string `json:"indicator,omitempty"`
	HeatSensitive bool   `json:"heatSensitive,omitempty"`
}

// Measurement tolerates dimensions arriving as JSON numbers or numeric
// strings; anything else decodes as zero.
type Measurement float64

func (m *Measurement) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*m = 0
		return nil
	}
	*m = Measurement(f)
	return nil
}

// Location is one store from GET /v1/locations.
type Location struct {
	LocationID string  `json:"locationId"`
	Name       string  `json:"name,omitempty"`
	Chain      string  `json:"chain,omitempty"`
	Address    Address `json:"address,omitempty"`
}

type Address struct {
	AddressLine1 string `json:"addressLine1,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zipCode,omitempty"`
}

// dataEnvelope is the {"data": ...} wrapper the vendor wraps every
// collection response in.
type dataEnvelope[T any] struct {
	Data []T `json:"data"`
}
