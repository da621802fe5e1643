package handlers

import (
	"shopbackend/internal/models"
)

// isAcceptedPaymentStatus gates the Pending -> paid transition. The payment
// provider signal is trusted but must be exactly the accepted token; any
// other value leaves the session untouched.
func isAcceptedPaymentStatus(status string) bool {
	return status == models.PaymentStatusPaid
}

// classifyPayFailure explains why the atomic pay update matched nothing.
func classifyPayFailure(session models.CheckoutSession) error {
	if session.IsFinalized {
		return checkoutFinalizedError{}
	}
	if session.IsPaid {
		return checkoutAlreadyPaidError{}
	}
	return nil
}

// classifyFinalizeFailure explains why the atomic finalize check-and-set
// matched nothing: the session is either not yet paid or already consumed.
func classifyFinalizeFailure(session models.CheckoutSession) error {
	if session.IsFinalized {
		return checkoutFinalizedError{}
	}
	if !session.IsPaid {
		return checkoutNotPaidError{}
	}
	return nil
}

type checkoutNotFoundError struct{}

func (e checkoutNotFoundError) Error() string {
	return "checkout not found"
}

type checkoutNotPaidError struct{}

func (e checkoutNotPaidError) Error() string {
	return "checkout is not paid"
}

type checkoutFinalizedError struct{}

func (e checkoutFinalizedError) Error() string {
	return "checkout already finalized"
}

type checkoutAlreadyPaidError struct{}

func (e checkoutAlreadyPaidError) Error() string {
	return "checkout already paid"
}
