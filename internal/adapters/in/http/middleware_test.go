package http

import (
	"errors"
	nethttp "net/http"
	"testing"

	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestStatusForError_CoversTheFailureTaxonomy(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"authentication", errs.NewAuthenticationError("bad token"), nethttp.StatusUnauthorized},
		{"authorization", errs.NewAuthorizationError("courier", "createOrder"), nethttp.StatusForbidden},
		{"not found", errs.NewObjectNotFoundError("orderID", "o-1"), nethttp.StatusNotFound},
		{"conflict", errs.NewConflictError("order", "status changed"), nethttp.StatusConflict},
		{"invalid transition", errs.NewInvalidTransitionError("order", "PENDING", "DELIVERED"), nethttp.StatusUnprocessableEntity},
		{"invalid value", errs.NewValueIsInvalidError("tipCents"), nethttp.StatusBadRequest},
		{"required value", errs.NewValueIsRequiredError("lineItems"), nethttp.StatusBadRequest},
		{"external service", errs.NewExternalServiceError("payment-provider", errors.New("timeout")), nethttp.StatusBadGateway},
		{"unclassified", errors.New("disk on fire"), nethttp.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusForError(tc.err))
		})
	}
}
