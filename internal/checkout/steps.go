package checkout

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fjod/storefront/internal/domain"
)

var (
	ErrTermsNotAccepted = errors.New("terms and conditions must be accepted before placing the order")
	ErrNotSubmittable   = errors.New("checkout steps are not complete, order submission is not permitted")
)

// ValidationError carries the single human-readable message surfaced
// when a step gate rejects an address. It is local and non-fatal: the
// controller simply does not advance.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// StepController gates the linear checkout flow
// shipping -> payment -> billing. Transitions only ever move forward;
// re-entering an earlier UI section never rolls the stored step back.
type StepController struct {
	mu             sync.Mutex
	step           domain.CheckoutStep
	shippingAddr   domain.Address
	billingAddr    domain.Address
	sameAsShipping bool
}

func NewStepController() *StepController {
	return &StepController{
		step:           domain.StepShipping,
		sameAsShipping: true,
	}
}

// Reset returns the controller to the start of the flow, clearing
// both stored addresses.
func (s *StepController) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = domain.StepShipping
	s.shippingAddr = domain.Address{}
	s.billingAddr = domain.Address{}
	s.sameAsShipping = true
}

func (s *StepController) Step() domain.CheckoutStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// SubmitShipping validates the shipping address and advances
// shipping -> payment. On validation failure the step is unchanged.
// Re-submitting from a later step only updates the stored address.
func (s *StepController) SubmitShipping(addr domain.Address) error {
	if err := validateAddress("shipping", addr); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.shippingAddr = addr
	if domain.CanTransitionTo(s.step, domain.StepPayment) {
		s.step = domain.StepPayment
	}
	return nil
}

// SubmitBilling advances payment -> billing. Reusing the shipping
// address is always valid; a distinct billing address goes through
// the same required-field gate as shipping.
func (s *StepController) SubmitBilling(sameAsShipping bool, addr domain.Address) error {
	s.mu.Lock()
	step := s.step
	s.mu.Unlock()

	if step == domain.StepShipping {
		return &ValidationError{Message: "shipping details must be completed first"}
	}

	if !sameAsShipping {
		if err := validateAddress("billing", addr); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sameAsShipping = sameAsShipping
	if !sameAsShipping {
		s.billingAddr = addr
	}
	if domain.CanTransitionTo(s.step, domain.StepBilling) {
		s.step = domain.StepBilling
	}
	return nil
}

// EnsureSubmittable reports whether order submission is permitted:
// the controller must sit at its terminal step and the terms flag
// must be set.
func (s *StepController) EnsureSubmittable(termsAccepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.step.IsTerminal() {
		return ErrNotSubmittable
	}
	if !termsAccepted {
		return ErrTermsNotAccepted
	}
	return nil
}

func (s *StepController) ShippingAddress() domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shippingAddr
}

// BillingAddress resolves to the shipping address while the
// same-as-shipping toggle is on.
func (s *StepController) BillingAddress() domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sameAsShipping {
		return s.shippingAddr
	}
	return s.billingAddr
}

func validateAddress(section string, addr domain.Address) error {
	err := validate.Struct(addr)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{
			Message: fmt.Sprintf("%s address is missing required field %s", section, fieldErrs[0].Field()),
		}
	}
	return &ValidationError{Message: fmt.Sprintf("%s address is invalid", section)}
}
