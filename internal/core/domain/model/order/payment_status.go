package order

import "orderflow/internal/pkg/errs"

// PaymentStatus tracks the payment provider's view of the order, recorded
// next to the lifecycle status. It only moves through PaymentReconciler.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentFailed
	PaymentRefunded
)

func paymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown:  "UNKNOWN",
		PaymentPending:  "PENDING",
		PaymentPaid:     "PAID",
		PaymentFailed:   "FAILED",
		PaymentRefunded: "REFUNDED",
	}
}

// PaymentStatusFromString parses the persisted wire form.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, str := range paymentStatusStrings() {
		if str == s && status != PaymentUnknown {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidError("payment status " + s)
}

// String returns the persisted wire form.
func (s PaymentStatus) String() string {
	if str, ok := paymentStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate rejects PaymentUnknown and out-of-range values.
func (s PaymentStatus) Validate() error {
	if s <= PaymentUnknown || s > PaymentRefunded {
		return errs.NewValueIsInvalidError("payment status")
	}
	return nil
}
