package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func paidSession() CheckoutSession {
	paidAt := time.Now().Add(-time.Minute)
	return CheckoutSession{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Items: []CheckoutItem{
			{ProductID: primitive.NewObjectID(), Name: "Shirt", Price: 10, Size: "M", Color: "Blue", Quantity: 1},
		},
		ShippingAddress: ShippingAddress{Address: "Main St 1", City: "Berlin", PostalCode: "10115", Country: "DE"},
		PaymentMethod:   "PayPal",
		TotalPrice:      10,
		PaymentStatus:   PaymentStatusPaid,
		IsPaid:          true,
		PaidAt:          &paidAt,
	}
}

func TestOrderFromCheckoutCopiesSnapshot(t *testing.T) {
	session := paidSession()
	now := time.Now()

	order := OrderFromCheckout(session, now)

	if order.UserID != session.UserID {
		t.Fatalf("expected order owner %s, got %s", session.UserID.Hex(), order.UserID.Hex())
	}
	if len(order.Items) != 1 || order.Items[0].Name != "Shirt" || order.Items[0].Quantity != 1 {
		t.Fatalf("expected items copied from session, got %+v", order.Items)
	}
	if order.TotalPrice != session.TotalPrice {
		t.Fatalf("expected total %v copied, got %v", session.TotalPrice, order.TotalPrice)
	}
	if !order.IsPaid || order.PaidAt != session.PaidAt {
		t.Fatal("expected paid state carried over from session")
	}
	if order.IsDelivered || order.DeliveredAt != nil {
		t.Fatal("expected new order to start undelivered")
	}
	if order.Status != OrderStatusProcessing {
		t.Fatalf("expected default status %q, got %q", OrderStatusProcessing, order.Status)
	}
	if !order.CreatedAt.Equal(now) {
		t.Fatalf("expected createdAt %v, got %v", now, order.CreatedAt)
	}
}

func TestOrderFromCheckoutItemsAreIndependent(t *testing.T) {
	session := paidSession()
	order := OrderFromCheckout(session, time.Now())

	session.Items[0].Quantity = 99
	session.Items[0].Name = "changed"

	if order.Items[0].Quantity != 1 || order.Items[0].Name != "Shirt" {
		t.Fatalf("expected order items to be an independent copy, got %+v", order.Items[0])
	}
}
