package server

import "github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/product"

// productPayload is the create/update body shared by the vendor and
// admin catalog endpoints.
type productPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	Status      string `json:"status"`
}

func (r productPayload) toProduct() *product.Product {
	return &product.Product{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
		Stock:       r.Stock,
		Status:      r.Status,
	}
}

// apply copies the payload onto an existing product. The slug is minted
// at creation and never changes afterwards.
func (r productPayload) apply(p *product.Product) {
	p.Name = r.Name
	p.Description = r.Description
	p.Category = r.Category
	p.ImageURL = r.ImageURL
	p.Price = r.Price
	p.Stock = r.Stock
	if r.Status != "" {
		p.Status = r.Status
	}
}
