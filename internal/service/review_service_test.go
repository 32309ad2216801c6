package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/review"
)

type fakeReviewRepo struct {
	reviews []*review.Review
	nextID  int64
}

func (f *fakeReviewRepo) Get(_ context.Context, userID, productID int64) (*review.Review, error) {
	for _, r := range f.reviews {
		if r.UserID == userID && r.ProductID == productID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReviewRepo) ListByProduct(_ context.Context, productID int64) ([]*review.Review, error) {
	var out []*review.Review
	for _, r := range f.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) Create(_ context.Context, r *review.Review) error {
	f.nextID++
	r.ID = f.nextID
	f.reviews = append(f.reviews, r)
	return nil
}

func (f *fakeReviewRepo) Update(_ context.Context, r *review.Review) error {
	for i, ex := range f.reviews {
		if ex.ID == r.ID {
			f.reviews[i] = r
		}
	}
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id int64) error {
	kept := f.reviews[:0]
	for _, r := range f.reviews {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.reviews = kept
	return nil
}

func TestReviewUpsertNewAndEdit(t *testing.T) {
	p := activeProduct(1, 1000, 5)
	products := newFakeProductRepo(p)
	svc := NewReviewService(&fakeReviewRepo{}, products)

	r, err := svc.Upsert(context.Background(), 7, 1, 4, "Good", "Works well")
	require.NoError(t, err)
	assert.Equal(t, 4, r.Rating)
	assert.Equal(t, int64(4), p.RatingSum)
	assert.Equal(t, int64(1), p.RatingCount)

	// Editing replaces the score; the count stays put.
	r2, err := svc.Upsert(context.Background(), 7, 1, 2, "Meh", "Changed my mind")
	require.NoError(t, err)
	assert.Equal(t, r.ID, r2.ID)
	assert.Equal(t, int64(2), p.RatingSum)
	assert.Equal(t, int64(1), p.RatingCount)
}

func TestReviewOnePerUserPerProduct(t *testing.T) {
	repo := &fakeReviewRepo{}
	products := newFakeProductRepo(activeProduct(1, 1000, 5))
	svc := NewReviewService(repo, products)

	_, err := svc.Upsert(context.Background(), 7, 1, 5, "", "")
	require.NoError(t, err)
	_, err = svc.Upsert(context.Background(), 7, 1, 3, "", "")
	require.NoError(t, err)

	list, err := svc.ListByProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// A second user gets their own row.
	_, err = svc.Upsert(context.Background(), 8, 1, 5, "", "")
	require.NoError(t, err)
	list, _ = svc.ListByProduct(context.Background(), 1)
	assert.Len(t, list, 2)
}

func TestReviewRatingBounds(t *testing.T) {
	svc := NewReviewService(&fakeReviewRepo{}, newFakeProductRepo(activeProduct(1, 1000, 5)))

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.Upsert(context.Background(), 7, 1, rating, "", "")
		assert.ErrorIs(t, err, ErrInvalidRating, rating)
	}
}

func TestReviewDeleteBacksOutAggregate(t *testing.T) {
	p := activeProduct(1, 1000, 5)
	products := newFakeProductRepo(p)
	svc := NewReviewService(&fakeReviewRepo{}, products)

	_, err := svc.Upsert(context.Background(), 7, 1, 4, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 7, 1))
	assert.Equal(t, int64(0), p.RatingSum)
	assert.Equal(t, int64(0), p.RatingCount)

	// Deleting a review that never existed succeeds.
	require.NoError(t, svc.Delete(context.Background(), 7, 1))
}
