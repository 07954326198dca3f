package products

import "github.com/zenday/pricewatch/internal/kroger"

// vendorSiteURL prefixes productPageURI fragments to form canonical
// product links.
const vendorSiteURL = "https://www.kroger.com"

// MapProduct normalizes one raw vendor record into the internal product
// shape. The first element of each vendor array (items, aisleLocations,
// images, categories) is authoritative; an empty array yields zero-value
// defaults instead of an error. Pure function: no I/O, deterministic.
func MapProduct(raw kroger.Product) Product {
	var item kroger.Item
	if len(raw.Items) > 0 {
		item = raw.Items[0]
	}

	var aisle kroger.AisleLocation
	if len(raw.AisleLocations) > 0 {
		aisle = raw.AisleLocations[0]
	}

	var imageURL string
	if len(raw.Images) > 0 && len(raw.Images[0].Sizes) > 0 {
		imageURL = raw.Images[0].Sizes[0].URL
	}

	var category string
	if len(raw.Categories) > 0 {
		category = raw.Categories[0]
	}

	return Product{
		ID:           raw.ProductID,
		Name:         raw.Description,
		Brand:        raw.Brand,
		Category:     category,
		ImageURL:     imageURL,
		ProductURL:   vendorSiteURL + raw.ProductPageURI,
		RegularPrice: cloneFloat(item.Price.Regular),
		PromoPrice:   cloneFloat(item.Price.Promo),
		Fulfillment: Fulfillment{
			Curbside:   item.Fulfillment.Curbside,
			Delivery:   item.Fulfillment.Delivery,
			InStore:    item.Fulfillment.InStore,
			ShipToHome: item.Fulfillment.ShipToHome,
		},
		StockLevel: item.Inventory.StockLevel,
		Size:       item.Size,
		SoldBy:     item.SoldBy,
		Location: ShelfLocation{
			Aisle: aisle.Number,
			Shelf: aisle.ShelfNumber,
			Bay:   aisle.BayNumber,
			Side:  aisle.Side,
		},
		Dimensions: Dimensions{
			Width:  float64(raw.ItemInformation.Width),
			Height: float64(raw.ItemInformation.Height),
			Depth:  float64(raw.ItemInformation.Depth),
		},
		TemperatureSensitive: raw.Temperature.HeatSensitive,
	}
}

// cloneFloat copies an optional price so mapped products never share
// memory with the raw payload.
func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
