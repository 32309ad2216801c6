package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/cart"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/coupon"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/order"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/product"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/review"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/user"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/vendor"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/wishlist"
)

// Open connects to postgres and migrates the schema. The returned
// handle is built once in main and passed to the repositories; nothing
// in this package keeps global state.
func Open(cfg *config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&user.User{},
		&vendor.Vendor{},
		&product.Product{},
		&cart.Line{},
		&wishlist.Item{},
		&coupon.Coupon{},
		&review.Review{},
		&order.Order{},
		&order.Line{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}
