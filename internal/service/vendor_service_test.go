package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/order"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/user"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/vendor"
)

type fakeVendorRepo struct {
	vendors []*vendor.Vendor
	nextID  int64
}

func (f *fakeVendorRepo) GetByID(_ context.Context, id int64) (*vendor.Vendor, error) {
	for _, v := range f.vendors {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVendorRepo) GetByUserID(_ context.Context, userID int64) (*vendor.Vendor, error) {
	for _, v := range f.vendors {
		if v.UserID == userID {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVendorRepo) List(_ context.Context, status string) ([]*vendor.Vendor, error) {
	var out []*vendor.Vendor
	for _, v := range f.vendors {
		if status == "" || v.Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVendorRepo) Create(_ context.Context, v *vendor.Vendor) error {
	for _, ex := range f.vendors {
		if ex.UserID == v.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	v.ID = f.nextID
	f.vendors = append(f.vendors, v)
	return nil
}

func (f *fakeVendorRepo) Update(_ context.Context, v *vendor.Vendor) error {
	for i, ex := range f.vendors {
		if ex.ID == v.ID {
			f.vendors[i] = v
		}
	}
	return nil
}

type fakeMailer struct {
	receipts  []string
	decisions []string
}

func (f *fakeMailer) SendOrderReceipt(to string, _ *order.Order) {
	f.receipts = append(f.receipts, to)
}

func (f *fakeMailer) SendVendorDecision(to, _, status string) {
	f.decisions = append(f.decisions, to+":"+status)
}

func newVendorFixture(t *testing.T) (*VendorService, *fakeUserRepo, *fakeMailer) {
	t.Helper()
	users := newFakeUserRepo()
	mail := &fakeMailer{}
	svc := NewVendorService(&fakeVendorRepo{}, users, mail)
	return svc, users, mail
}

func TestVendorApplyOncePerUser(t *testing.T) {
	svc, _, _ := newVendorFixture(t)

	v, err := svc.Apply(context.Background(), 7, "Vedessa Naturals", "herbs")
	require.NoError(t, err)
	assert.Equal(t, vendor.StatusPending, v.Status)

	_, err = svc.Apply(context.Background(), 7, "Second Store", "")
	assert.ErrorIs(t, err, ErrVendorExists)

	_, err = svc.Apply(context.Background(), 8, "   ", "")
	assert.ErrorIs(t, err, ErrInvalidVendor)
}

func TestVendorApproveFlow(t *testing.T) {
	svc, users, mail := newVendorFixture(t)
	u := &user.User{Email: "seller@example.com", Name: "S", Password: "x", Role: user.RoleCustomer}
	require.NoError(t, users.Create(context.Background(), u))

	v, err := svc.Apply(context.Background(), u.ID, "Vedessa Naturals", "")
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, vendor.StatusApproved, approved.Status)

	// Role promoted, decision mailed.
	got, _ := users.GetByID(context.Background(), u.ID)
	assert.Equal(t, user.RoleVendor, got.Role)
	assert.Equal(t, []string{"seller@example.com:approved"}, mail.decisions)

	// The approval gate opens.
	_, err = svc.RequireApproved(context.Background(), u.ID)
	assert.NoError(t, err)
}

func TestVendorRejectFlow(t *testing.T) {
	svc, users, mail := newVendorFixture(t)
	u := &user.User{Email: "seller@example.com", Name: "S", Password: "x", Role: user.RoleCustomer}
	require.NoError(t, users.Create(context.Background(), u))

	v, err := svc.Apply(context.Background(), u.ID, "Vedessa Naturals", "")
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, vendor.StatusRejected, rejected.Status)

	// Role untouched, decision mailed, gate stays shut.
	got, _ := users.GetByID(context.Background(), u.ID)
	assert.Equal(t, user.RoleCustomer, got.Role)
	assert.Equal(t, []string{"seller@example.com:rejected"}, mail.decisions)

	_, err = svc.RequireApproved(context.Background(), u.ID)
	assert.ErrorIs(t, err, ErrVendorNotApproved)
}

func TestRequireApprovedWithoutApplication(t *testing.T) {
	svc, _, _ := newVendorFixture(t)

	_, err := svc.RequireApproved(context.Background(), 42)
	assert.ErrorIs(t, err, ErrVendorNotFound)
}

func TestVendorDecisionUnknownID(t *testing.T) {
	svc, _, _ := newVendorFixture(t)

	_, err := svc.Approve(context.Background(), 99)
	assert.ErrorIs(t, err, ErrVendorNotFound)
}
