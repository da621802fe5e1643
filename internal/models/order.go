package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status labels. Status is free-form on update, but "Delivered" has
// the side effect of setting isDelivered/deliveredAt.
const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// OrderItem is copied verbatim from the finalizing checkout session.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Price     float64            `bson:"price" json:"price"`
	Size      string             `bson:"size" json:"size"`
	Color     string             `bson:"color" json:"color"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Order is the finalized, immutable record of a purchase. Only the
// administrative status fields change after creation.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsDelivered     bool               `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	PaymentDetails  bson.M             `bson:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// OrderFromCheckout copies a paid session into a new order. The copy is
// deliberate: mutating the session afterwards must never reach the order.
func OrderFromCheckout(session CheckoutSession, now time.Time) Order {
	items := make([]OrderItem, 0, len(session.Items))
	for _, item := range session.Items {
		items = append(items, OrderItem(item))
	}

	return Order{
		UserID:          session.UserID,
		Items:           items,
		ShippingAddress: session.ShippingAddress,
		PaymentMethod:   session.PaymentMethod,
		TotalPrice:      session.TotalPrice,
		IsPaid:          true,
		PaidAt:          session.PaidAt,
		IsDelivered:     false,
		PaymentStatus:   PaymentStatusPaid,
		PaymentDetails:  session.PaymentDetails,
		Status:          OrderStatusProcessing,
		CreatedAt:       now,
	}
}
