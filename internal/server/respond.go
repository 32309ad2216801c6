package server

import (
	"errors"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/SahilSagvekar/vedessa-sub001/internal/service"
)

// Every response carries the same envelope: success, then either data
// or a message.

func ok(ctx iris.Context, data interface{}) {
	_ = ctx.JSON(iris.Map{"success": true, "data": data})
}

func fail(ctx iris.Context, status int, msg string) {
	ctx.StopWithJSON(status, iris.Map{"success": false, "message": msg})
}

// failErr maps domain sentinels onto status codes. Anything unmapped is
// an internal error and surfaces opaque.
func failErr(ctx iris.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == 500 {
		zap.L().Error("request failed", zap.String("path", ctx.Path()), zap.Error(err))
		msg = "internal error"
	}
	fail(ctx, status, msg)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrTotalMismatch),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidLine),
		errors.Is(err, service.ErrQuantityTooLow),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidCoupon),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidVendor),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidSignature):
		return 400
	case errors.Is(err, service.ErrInvalidCredentials):
		return 401
	case errors.Is(err, service.ErrNotOrderOwner),
		errors.Is(err, service.ErrNotProductOwner),
		errors.Is(err, service.ErrVendorNotApproved):
		return 403
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCouponNotFound),
		errors.Is(err, service.ErrVendorNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return 404
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrVendorExists),
		errors.Is(err, service.ErrSettlementInProgress):
		return 409
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrCouponInactive),
		errors.Is(err, service.ErrCouponExpired),
		errors.Is(err, service.ErrCouponExhausted),
		errors.Is(err, service.ErrCouponMinOrder):
		return 422
	case errors.Is(err, service.ErrGatewayUnavailable):
		return 502
	default:
		return 500
	}
}
