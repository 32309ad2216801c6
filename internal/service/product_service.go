package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/product"
)

// ProductService is the catalog plus the inventory ledger.
type ProductService struct {
	repo product.Repository
}

// NewProductService creates the catalog service.
func NewProductService(repo product.Repository) *ProductService {
	return &ProductService{repo: repo}
}

// GetByID loads one product.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetBySlug loads one product by its url slug.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPublic returns sellable products, optionally narrowed by
// category and name keyword and sorted by price.
func (s *ProductService) ListPublic(ctx context.Context, category, keyword, sort string) ([]*product.Product, error) {
	return s.repo.List(ctx, product.ListFilter{
		Category:   category,
		Keyword:    keyword,
		ActiveOnly: true,
		Sort:       sort,
	})
}

// GetPublic resolves a catalog detail reference, which may be a slug
// or a numeric id. Only active products are visible here.
func (s *ProductService) GetPublic(ctx context.Context, ref string) (*product.Product, error) {
	var (
		p   *product.Product
		err error
	)
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		p, err = s.GetByID(ctx, id)
	} else {
		p, err = s.GetBySlug(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	if p.Status != product.StatusActive {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// ListAll returns every product for the back office.
func (s *ProductService) ListAll(ctx context.Context) ([]*product.Product, error) {
	return s.repo.List(ctx, product.ListFilter{})
}

// ListByVendor returns a vendor's own products.
func (s *ProductService) ListByVendor(ctx context.Context, vendorID int64) ([]*product.Product, error) {
	return s.repo.List(ctx, product.ListFilter{VendorID: vendorID})
}

// Create stores a new product, deriving a slug when absent.
func (s *ProductService) Create(ctx context.Context, p *product.Product) error {
	if p.Name == "" || p.Price <= 0 {
		return ErrInvalidProduct
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if p.Status == "" {
		p.Status = product.StatusDraft
	}
	return s.repo.Create(ctx, p)
}

// Update stores product changes.
func (s *ProductService) Update(ctx context.Context, p *product.Product) error {
	return s.repo.Update(ctx, p)
}

// Delete removes a product from the catalog. Historical order lines
// keep their snapshots and are unaffected.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Decrement takes qty out of stock, conditionally. ErrInsufficientStock
// is a per-line warning for callers applying a settled order, never an
// order-blocking failure.
func (s *ProductService) Decrement(ctx context.Context, productID, qty int64) error {
	applied, err := s.repo.DecrementStock(ctx, productID, qty)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if !applied {
		// Either the row is missing or stock < qty; look once to tell.
		if _, gerr := s.repo.GetByID(ctx, productID); gerr != nil {
			if errors.Is(gerr, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return gerr
		}
		return ErrInsufficientStock
	}
	return nil
}

// Slugify lowercases and dashes a product name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
