package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is a single product entry in a cart. Name, price and image are
// snapshots taken from the product document at add-time and are never
// re-fetched, so cart totals stay stable when the catalog changes.
type CartLine struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Price     float64            `bson:"price" json:"price"`
	Size      string             `bson:"size" json:"size"`
	Color     string             `bson:"color" json:"color"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// LineKey identifies a cart line. Two lines are the same line iff product,
// size and color all match; add, update, remove and merge all use this key.
type LineKey struct {
	ProductID primitive.ObjectID
	Size      string
	Color     string
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

func (k LineKey) Matches(l CartLine) bool {
	return l.ProductID == k.ProductID && l.Size == k.Size && l.Color == k.Color
}

// Cart is owned by exactly one of userId / guestId.
type Cart struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID     *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	GuestID    string              `bson:"guestId,omitempty" json:"guestId,omitempty"`
	Lines      []CartLine          `bson:"products" json:"products"`
	TotalPrice float64             `bson:"totalPrice" json:"totalPrice"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// CartTotal is the single source of truth for a cart's total price. It is
// recomputed over the full line set after every structural mutation instead
// of being maintained incrementally.
func CartTotal(lines []CartLine) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// CartOwner is the tagged owner variant: a registered user or a guest token,
// never both, never neither.
type CartOwner struct {
	UserID  *primitive.ObjectID
	GuestID string
}

var ErrNoCartOwner = errors.New("either userId or guestId is required")

// ResolveCartOwner builds an owner from the raw request values. The user id
// wins when both are present, matching the original lookup order.
func ResolveCartOwner(userID, guestID string) (CartOwner, error) {
	userID = strings.TrimSpace(userID)
	guestID = strings.TrimSpace(guestID)

	if userID != "" {
		id, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return CartOwner{}, errors.New("invalid userId")
		}
		return UserOwner(id), nil
	}
	if guestID != "" {
		return GuestOwner(guestID), nil
	}
	return CartOwner{}, ErrNoCartOwner
}

func UserOwner(id primitive.ObjectID) CartOwner {
	return CartOwner{UserID: &id}
}

func GuestOwner(token string) CartOwner {
	return CartOwner{GuestID: token}
}

// Filter returns the Mongo filter that selects this owner's cart.
func (o CartOwner) Filter() bson.M {
	if o.UserID != nil {
		return bson.M{"userId": *o.UserID}
	}
	return bson.M{"guestId": o.GuestID}
}

// Apply stamps the owner onto a cart document.
func (o CartOwner) Apply(cart *Cart) {
	cart.UserID = o.UserID
	cart.GuestID = o.GuestID
}
