package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartTotalSumsPriceTimesQuantity(t *testing.T) {
	lines := []CartLine{
		{ProductID: primitive.NewObjectID(), Price: 10, Quantity: 3},
		{ProductID: primitive.NewObjectID(), Price: 2.5, Quantity: 2},
	}
	if got := CartTotal(lines); got != 35 {
		t.Fatalf("expected total 35, got %v", got)
	}
}

func TestCartTotalEmptyIsZero(t *testing.T) {
	if got := CartTotal(nil); got != 0 {
		t.Fatalf("expected zero total for empty cart, got %v", got)
	}
}

func TestLineKeyMatchesOnProductSizeColor(t *testing.T) {
	productID := primitive.NewObjectID()
	line := CartLine{ProductID: productID, Size: "M", Color: "Red"}

	if !(LineKey{ProductID: productID, Size: "M", Color: "Red"}).Matches(line) {
		t.Fatal("expected key to match identical product/size/color")
	}
	if (LineKey{ProductID: productID, Size: "L", Color: "Red"}).Matches(line) {
		t.Fatal("expected key with different size not to match")
	}
	if (LineKey{ProductID: primitive.NewObjectID(), Size: "M", Color: "Red"}).Matches(line) {
		t.Fatal("expected key with different product not to match")
	}
}

func TestResolveCartOwnerPrefersUser(t *testing.T) {
	userID := primitive.NewObjectID()

	owner, err := ResolveCartOwner(userID.Hex(), "guest_abc")
	if err != nil {
		t.Fatalf("ResolveCartOwner returned error: %v", err)
	}
	if owner.UserID == nil || *owner.UserID != userID {
		t.Fatalf("expected user owner %s, got %+v", userID.Hex(), owner)
	}
	if owner.GuestID != "" {
		t.Fatalf("expected guest id to be dropped when userId is set, got %q", owner.GuestID)
	}
}

func TestResolveCartOwnerGuestOnly(t *testing.T) {
	owner, err := ResolveCartOwner("", "guest_abc")
	if err != nil {
		t.Fatalf("ResolveCartOwner returned error: %v", err)
	}
	if owner.UserID != nil || owner.GuestID != "guest_abc" {
		t.Fatalf("expected guest owner, got %+v", owner)
	}
}

func TestResolveCartOwnerRejectsNeither(t *testing.T) {
	if _, err := ResolveCartOwner("", ""); err != ErrNoCartOwner {
		t.Fatalf("expected ErrNoCartOwner, got %v", err)
	}
}

func TestResolveCartOwnerRejectsBadUserID(t *testing.T) {
	if _, err := ResolveCartOwner("not-an-object-id", ""); err == nil {
		t.Fatal("expected error for malformed userId")
	}
}

func TestCartOwnerFilter(t *testing.T) {
	userID := primitive.NewObjectID()

	filter := UserOwner(userID).Filter()
	if filter["userId"] != userID {
		t.Fatalf("expected userId filter, got %v", filter)
	}

	filter = GuestOwner("guest_abc").Filter()
	if filter["guestId"] != "guest_abc" {
		t.Fatalf("expected guestId filter, got %v", filter)
	}
}
