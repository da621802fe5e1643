package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment status values accepted on a checkout session.
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "paid"
)

// CheckoutItem mirrors CartLine; it is the immutable copy captured when the
// session is created. Later cart mutations never touch it.
type CheckoutItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Price     float64            `bson:"price" json:"price"`
	Size      string             `bson:"size" json:"size"`
	Color     string             `bson:"color" json:"color"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// ShippingAddress is an opaque structured value carried from checkout into
// the order.
type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// CheckoutSession is the point-in-time purchase snapshot between cart and
// order. It moves strictly forward: Pending -> paid -> finalized, and is
// kept after finalization as an audit trail.
type CheckoutSession struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []CheckoutItem     `bson:"checkoutItems" json:"checkoutItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaymentDetails  bson.M             `bson:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsFinalized     bool               `bson:"isFinalized" json:"isFinalized"`
	FinalizedAt     *time.Time         `bson:"finalizedAt,omitempty" json:"finalizedAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
