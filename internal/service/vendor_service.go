package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/user"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/vendor"
	"github.com/SahilSagvekar/vedessa-sub001/internal/mailer"
)

// VendorService handles seller applications and the admin decision flow.
type VendorService struct {
	vendors vendor.Repository
	users   user.Repository
	mail    mailer.Mailer
}

// NewVendorService creates the vendor service.
func NewVendorService(vendors vendor.Repository, users user.Repository, mail mailer.Mailer) *VendorService {
	return &VendorService{vendors: vendors, users: users, mail: mail}
}

// Apply files a vendor application for the user. A user has at most one
// application, whatever its status.
func (s *VendorService) Apply(ctx context.Context, userID int64, storeName, about string) (*vendor.Vendor, error) {
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return nil, ErrInvalidVendor
	}
	v := &vendor.Vendor{
		UserID:    userID,
		StoreName: storeName,
		About:     about,
		Status:    vendor.StatusPending,
	}
	if err := s.vendors.Create(ctx, v); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrVendorExists
		}
		return nil, err
	}
	return v, nil
}

// GetByUser returns the user's vendor record.
func (s *VendorService) GetByUser(ctx context.Context, userID int64) (*vendor.Vendor, error) {
	v, err := s.vendors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return v, nil
}

// RequireApproved loads the user's vendor record and rejects anything
// but an approved one. Product management goes through this gate.
func (s *VendorService) RequireApproved(ctx context.Context, userID int64) (*vendor.Vendor, error) {
	v, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if v.Status != vendor.StatusApproved {
		return nil, ErrVendorNotApproved
	}
	return v, nil
}

// List returns vendors, optionally filtered by status.
func (s *VendorService) List(ctx context.Context, status string) ([]*vendor.Vendor, error) {
	return s.vendors.List(ctx, status)
}

// Approve marks an application approved, promotes the user to the
// vendor role and mails the decision.
func (s *VendorService) Approve(ctx context.Context, id int64) (*vendor.Vendor, error) {
	return s.decide(ctx, id, vendor.StatusApproved)
}

// Reject marks an application rejected and mails the decision.
func (s *VendorService) Reject(ctx context.Context, id int64) (*vendor.Vendor, error) {
	return s.decide(ctx, id, vendor.StatusRejected)
}

func (s *VendorService) decide(ctx context.Context, id int64, status string) (*vendor.Vendor, error) {
	v, err := s.vendors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	v.Status = status
	if err := s.vendors.Update(ctx, v); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, v.UserID)
	if err != nil {
		zap.L().Warn("vendor decision: user lookup failed",
			zap.Int64("vendor_id", v.ID), zap.Int64("user_id", v.UserID), zap.Error(err))
		return v, nil
	}
	if status == vendor.StatusApproved && u.Role == user.RoleCustomer {
		u.Role = user.RoleVendor
		if err := s.users.Update(ctx, u); err != nil {
			zap.L().Warn("vendor decision: role update failed",
				zap.Int64("user_id", u.ID), zap.Error(err))
		}
	}
	s.mail.SendVendorDecision(u.Email, v.StoreName, status)
	return v, nil
}
