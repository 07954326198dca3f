package products

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenday/pricewatch/internal/kroger"
)

func rawMilk() kroger.Product {
	regular := 5.0
	promo := 4.5
	return kroger.Product{
		ProductID:      "P1",
		Description:    "Milk",
		Brand:          "Best Farms",
		Categories:     []string{"Dairy", "Beverages"},
		ProductPageURI: "/p/milk/0001111041700",
		Items: []kroger.Item{
			{
				Price:       kroger.Price{Regular: &regular, Promo: &promo},
				Fulfillment: kroger.Fulfillment{Curbside: true, InStore: true},
				Inventory:   kroger.Inventory{StockLevel: "HIGH"},
				Size:        "1 gal",
				SoldBy:      "UNIT",
			},
			{Size: "ignored second item"},
		},
		AisleLocations: []kroger.AisleLocation{
			{Number: "12", ShelfNumber: "3", BayNumber: "2", Side: "L"},
			{Number: "99"},
		},
		Images: []kroger.Image{
			{Sizes: []kroger.ImageSize{{Size: "large", URL: "https://cdn.example/milk-large.jpg"}, {Size: "small", URL: "https://cdn.example/milk-small.jpg"}}},
		},
		ItemInformation: kroger.ItemInformation{Width: 6.5, Height: 10, Depth: 6.5},
		Temperature:     kroger.Temperature{HeatSensitive: true},
	}
}

func TestMapProduct(t *testing.T) {
	p := MapProduct(rawMilk())

	assert.Equal(t, "P1", p.ID)
	assert.Equal(t, "Milk", p.Name)
	assert.Equal(t, "Best Farms", p.Brand)
	assert.Equal(t, "Dairy", p.Category, "first category wins")
	assert.Equal(t, "https://www.kroger.com/p/milk/0001111041700", p.ProductURL)
	assert.Equal(t, "https://cdn.example/milk-large.jpg", p.ImageURL, "first size of first image")

	require.NotNil(t, p.RegularPrice)
	require.NotNil(t, p.PromoPrice)
	assert.Equal(t, 5.0, *p.RegularPrice)
	assert.Equal(t, 4.5, *p.PromoPrice)

	assert.Equal(t, "HIGH", p.StockLevel)
	assert.Equal(t, "1 gal", p.Size)
	assert.Equal(t, "UNIT", p.SoldBy)
	assert.Equal(t, ShelfLocation{Aisle: "12", Shelf: "3", Bay: "2", Side: "L"}, p.Location)
	assert.Equal(t, Dimensions{Width: 6.5, Height: 10, Depth: 6.5}, p.Dimensions)
	assert.True(t, p.Fulfillment.Curbside)
	assert.True(t, p.TemperatureSensitive)
}

func TestMapProductEmptyArrays(t *testing.T) {
	raw := kroger.Product{ProductID: "P2", Description: "Ghost item"}

	var p Product
	assert.NotPanics(t, func() { p = MapProduct(raw) })

	assert.Equal(t, "P2", p.ID)
	assert.Nil(t, p.RegularPrice)
	assert.Nil(t, p.PromoPrice)
	assert.Empty(t, p.Category)
	assert.Empty(t, p.ImageURL)
	assert.Empty(t, p.StockLevel)
	assert.Equal(t, ShelfLocation{}, p.Location)
	assert.Equal(t, Dimensions{}, p.Dimensions)
	assert.False(t, p.TemperatureSensitive)
}

func TestMapProductDeterministic(t *testing.T) {
	raw := rawMilk()

	first, err := json.Marshal(MapProduct(raw))
	require.NoError(t, err)
	second, err := json.Marshal(MapProduct(raw))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMapProductDoesNotAliasRawPrices(t *testing.T) {
	raw := rawMilk()
	p := MapProduct(raw)

	*raw.Items[0].Price.Promo = 99.0
	assert.Equal(t, 4.5, *p.PromoPrice)
}
