package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/review"
)

// ReviewService stores product reviews and keeps the catalog rating
// aggregates in step.
type ReviewService struct {
	reviews  review.Repository
	products productRatings
}

// productRatings is the slice of the product store reviews touch.
type productRatings interface {
	AddRating(ctx context.Context, id int64, deltaSum int64, deltaCount int64) error
}

// NewReviewService creates the review service.
func NewReviewService(reviews review.Repository, products productRatings) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

// Upsert creates the caller's review of a product or replaces their
// previous one. The product aggregate moves by the delta either way.
func (s *ReviewService) Upsert(ctx context.Context, userID, productID int64, rating int, title, body string) (*review.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	existing, err := s.reviews.Get(ctx, userID, productID)
	switch {
	case err == nil:
		oldRating := existing.Rating
		existing.Rating = rating
		existing.Title = title
		existing.Body = body
		if err := s.reviews.Update(ctx, existing); err != nil {
			return nil, err
		}
		if err := s.products.AddRating(ctx, productID, int64(rating-oldRating), 0); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		r := &review.Review{
			UserID:    userID,
			ProductID: productID,
			Rating:    rating,
			Title:     title,
			Body:      body,
		}
		if err := s.reviews.Create(ctx, r); err != nil {
			return nil, err
		}
		if err := s.products.AddRating(ctx, productID, int64(rating), 1); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, err
	}
}

// ListByProduct returns a product's reviews, newest first.
func (s *ReviewService) ListByProduct(ctx context.Context, productID int64) ([]*review.Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}

// Delete removes the caller's review and backs its score out of the
// aggregate.
func (s *ReviewService) Delete(ctx context.Context, userID, productID int64) error {
	existing, err := s.reviews.Get(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := s.reviews.Delete(ctx, existing.ID); err != nil {
		return err
	}
	return s.products.AddRating(ctx, productID, int64(-existing.Rating), -1)
}
