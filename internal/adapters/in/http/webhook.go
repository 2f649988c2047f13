package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// SignatureHeader carries the provider's HMAC-SHA256 of the raw request
// body, hex encoded.
const SignatureHeader = "X-Payment-Signature"

// PaymentWebhookRequest is the provider's callback payload.
type PaymentWebhookRequest struct {
	EventID string `json:"eventId"`
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// PaymentWebhook handles POST /webhooks/payment. The signature is checked
// over the raw body before anything is parsed; a bad signature changes no
// state.
func (s *Server) PaymentWebhook(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	if !verifySignature(s.webhookSecret, body, ctx.Request().Header.Get(SignatureHeader)) {
		return respondError(ctx, errs.NewAuthenticationError("invalid webhook signature"))
	}

	var req PaymentWebhookRequest
	if err = json.Unmarshal(body, &req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	outcome, err := paymentOutcome(req.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewReconcilePaymentCommand(orderID, outcome, req.EventID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.handlers.ReconcilePayment.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func verifySignature(secret, body []byte, signature string) bool {
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(provided, mac.Sum(nil))
}

func paymentOutcome(status string) (order.PaymentStatus, error) {
	switch status {
	case "succeeded":
		return order.PaymentPaid, nil
	case "failed":
		return order.PaymentFailed, nil
	default:
		return order.PaymentUnknown, errs.NewValueIsInvalidError("status")
	}
}
