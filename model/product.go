package models

import "time"

// Product is a catalog entry as stored by the API and shown by the storefront.
type Product struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	Price                   float64   `json:"price"`
	SetPrice                *float64  `json:"set_price,omitempty"`
	Image                   string    `json:"image"`
	Images                  []string  `json:"images,omitempty"`
	Brand                   string    `json:"brand"`
	Category                string    `json:"category"`
	RoomType                string    `json:"room_type"`
	ProductRating           float64   `json:"product_rating"`
	PrimaryMaterial         string    `json:"primary_material"`
	DimensionsCM            string    `json:"dimensions_cm"`
	DimensionsInches        string    `json:"dimensions_inches"`
	Weight                  string    `json:"weight"`
	Assembly                string    `json:"assembly"`
	Storage                 string    `json:"storage"`
	Warranty                string    `json:"warranty"`
	Description             string    `json:"description"`
	RecommendedMattressSize string    `json:"recommended_mattress_size,omitempty"`
	SeatingHeight           *float64  `json:"seating_height,omitempty"`
	HasSetOption            bool      `json:"has_set_option"`
	Stock                   int       `json:"stock"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// ProductInput is the writable part of a product (create and update payloads).
type ProductInput struct {
	Name                    string   `json:"name"`
	Price                   float64  `json:"price"`
	SetPrice                *float64 `json:"set_price,omitempty"`
	Image                   string   `json:"image"`
	Images                  []string `json:"images,omitempty"`
	Brand                   string   `json:"brand"`
	Category                string   `json:"category"`
	RoomType                string   `json:"room_type"`
	ProductRating           float64  `json:"product_rating"`
	PrimaryMaterial         string   `json:"primary_material"`
	DimensionsCM            string   `json:"dimensions_cm"`
	DimensionsInches        string   `json:"dimensions_inches"`
	Weight                  string   `json:"weight"`
	Assembly                string   `json:"assembly"`
	Storage                 string   `json:"storage"`
	Warranty                string   `json:"warranty"`
	Description             string   `json:"description"`
	RecommendedMattressSize string   `json:"recommended_mattress_size,omitempty"`
	SeatingHeight           *float64 `json:"seating_height,omitempty"`
	HasSetOption            bool     `json:"has_set_option"`
	Stock                   int      `json:"stock"`
}

// Apply copies the input fields onto p, leaving id and timestamps alone.
func (in ProductInput) Apply(p *Product) {
	p.Name = in.Name
	p.Price = in.Price
	p.SetPrice = in.SetPrice
	p.Image = in.Image
	p.Images = in.Images
	p.Brand = in.Brand
	p.Category = in.Category
	p.RoomType = in.RoomType
	p.ProductRating = in.ProductRating
	p.PrimaryMaterial = in.PrimaryMaterial
	p.DimensionsCM = in.DimensionsCM
	p.DimensionsInches = in.DimensionsInches
	p.Weight = in.Weight
	p.Assembly = in.Assembly
	p.Storage = in.Storage
	p.Warranty = in.Warranty
	p.Description = in.Description
	p.RecommendedMattressSize = in.RecommendedMattressSize
	p.SeatingHeight = in.SeatingHeight
	p.HasSetOption = in.HasSetOption
	p.Stock = in.Stock
}

// Input returns the writable fields of p.
func (p Product) Input() ProductInput {
	return ProductInput{
		Name:                    p.Name,
		Price:                   p.Price,
		SetPrice:                p.SetPrice,
		Image:                   p.Image,
		Images:                  p.Images,
		Brand:                   p.Brand,
		Category:                p.Category,
		RoomType:                p.RoomType,
		ProductRating:           p.ProductRating,
		PrimaryMaterial:         p.PrimaryMaterial,
		DimensionsCM:            p.DimensionsCM,
		DimensionsInches:        p.DimensionsInches,
		Weight:                  p.Weight,
		Assembly:                p.Assembly,
		Storage:                 p.Storage,
		Warranty:                p.Warranty,
		Description:             p.Description,
		RecommendedMattressSize: p.RecommendedMattressSize,
		SeatingHeight:           p.SeatingHeight,
		HasSetOption:            p.HasSetOption,
		Stock:                   p.Stock,
	}
}
