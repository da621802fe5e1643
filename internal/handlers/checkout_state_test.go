package handlers

import (
	"errors"
	"testing"

	"shopbackend/internal/models"
)

func TestAcceptedPaymentStatus(t *testing.T) {
	if !isAcceptedPaymentStatus("paid") {
		t.Fatal(`expected "paid" to be accepted`)
	}
	for _, status := range []string{"", "Paid", "PAID", "pending", "failed", "refunded"} {
		if isAcceptedPaymentStatus(status) {
			t.Fatalf("expected %q to be rejected", status)
		}
	}
}

func TestClassifyFinalizeFailure(t *testing.T) {
	tests := []struct {
		name        string
		isPaid      bool
		isFinalized bool
		want        error
	}{
		{"unpaid", false, false, checkoutNotPaidError{}},
		{"already finalized", true, true, checkoutFinalizedError{}},
		{"finalized wins over unpaid", false, true, checkoutFinalizedError{}},
		{"paid and open", true, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := models.CheckoutSession{IsPaid: tt.isPaid, IsFinalized: tt.isFinalized}
			got := classifyFinalizeFailure(session)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected no failure, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClassifyPayFailure(t *testing.T) {
	if err := classifyPayFailure(models.CheckoutSession{IsPaid: true}); !errors.Is(err, checkoutAlreadyPaidError{}) {
		t.Fatalf("expected already-paid failure, got %v", err)
	}
	if err := classifyPayFailure(models.CheckoutSession{IsPaid: true, IsFinalized: true}); !errors.Is(err, checkoutFinalizedError{}) {
		t.Fatalf("expected finalized failure, got %v", err)
	}
	if err := classifyPayFailure(models.CheckoutSession{}); err != nil {
		t.Fatalf("expected no failure for open session, got %v", err)
	}
}
