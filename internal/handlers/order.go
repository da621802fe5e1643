package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopbackend/internal/models"
)

// GetMyOrders handles GET /orders/my-orders: the caller's order history,
// newest first.
func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/my-orders"
		defer handlePanic(c, route)

		userID, ok := callerUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// GetOrder handles GET /orders/:id with the owner's name and email
// projected onto the response.
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "order not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, orderWithOwner(order, lookupOrderOwner(ctx, db, order.UserID)))
	}
}

// lookupOrderOwner fetches the owning user's contact fields. A missing user
// document degrades to a nil projection rather than failing the order read.
func lookupOrderOwner(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) *models.User {
	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil
	}
	return &user
}

// orderWithOwner shapes the order response the way clients expect it: the
// full order document plus a small owner object.
func orderWithOwner(order models.Order, user *models.User) gin.H {
	response := gin.H{
		"id":              order.ID.Hex(),
		"userId":          order.UserID.Hex(),
		"orderItems":      order.Items,
		"shippingAddress": order.ShippingAddress,
		"paymentMethod":   order.PaymentMethod,
		"totalPrice":      order.TotalPrice,
		"isPaid":          order.IsPaid,
		"paidAt":          order.PaidAt,
		"isDelivered":     order.IsDelivered,
		"deliveredAt":     order.DeliveredAt,
		"paymentStatus":   order.PaymentStatus,
		"paymentDetails":  order.PaymentDetails,
		"status":          order.Status,
		"createdAt":       order.CreatedAt,
	}
	if user != nil {
		response["user"] = gin.H{
			"name":  user.Name,
			"email": user.Email,
		}
	}
	return response
}
