package domain

type CheckoutStep string

const (
	StepShipping CheckoutStep = "SHIPPING"
	StepPayment  CheckoutStep = "PAYMENT"
	StepBilling  CheckoutStep = "BILLING"
)

// IsTerminal reports whether order submission is permitted from this step.
func (s CheckoutStep) IsTerminal() bool {
	return s == StepBilling
}

// String representation (for logging)
func (s CheckoutStep) String() string {
	return string(s)
}

// CanTransitionTo defines the strictly forward, linear step order.
// No transition ever returns to an earlier step.
func CanTransitionTo(from, to CheckoutStep) bool {
	switch from {
	case StepShipping:
		return to == StepPayment
	case StepPayment:
		return to == StepBilling
	default:
		return false
	}
}
