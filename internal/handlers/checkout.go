package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopbackend/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type checkoutItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity" binding:"required"`
}

type createCheckoutRequest struct {
	CheckoutItems   []checkoutItemRequest  `json:"checkoutItems" binding:"required"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	TotalPrice      float64                `json:"totalPrice"`
}

type payCheckoutRequest struct {
	PaymentStatus  string                 `json:"paymentStatus" binding:"required"`
	PaymentDetails map[string]interface{} `json:"paymentDetails"`
}

/* =========================
   CREATE CHECKOUT
========================= */

// CreateCheckout handles POST /checkout. The items, address, payment method
// and total are captured as an immutable snapshot; later cart mutations do
// not reach an open session.
func CreateCheckout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		userID, ok := callerUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if len(req.CheckoutItems) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no items in checkout")
			return
		}

		items := make([]models.CheckoutItem, 0, len(req.CheckoutItems))
		for _, item := range req.CheckoutItems {
			productID, err := primitive.ObjectIDFromHex(item.ProductID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid productId")
				return
			}
			if item.Quantity <= 0 {
				respondWithError(c, http.StatusBadRequest, route, "quantity must be greater than zero")
				return
			}
			items = append(items, models.CheckoutItem{
				ProductID: productID,
				Name:      item.Name,
				Image:     item.Image,
				Price:     item.Price,
				Size:      item.Size,
				Color:     item.Color,
				Quantity:  item.Quantity,
			})
		}

		checkout := models.CheckoutSession{
			UserID:          userID,
			Items:           items,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			TotalPrice:      req.TotalPrice,
			PaymentStatus:   models.PaymentStatusPending,
			IsPaid:          false,
			IsFinalized:     false,
			CreatedAt:       time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("checkout_sessions").InsertOne(ctx, checkout)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			checkout.ID = id
		}

		log.Printf("[%s] checkout created for user: %s", route, userID.Hex())
		c.JSON(http.StatusCreated, checkout)
	}
}

/* =========================
   PAY CHECKOUT
========================= */

// PayCheckout handles PUT /checkout/:id/pay. The update is conditioned on
// isPaid=false so the Pending -> paid transition fires exactly once.
func PayCheckout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /checkout/:id/pay"
		defer handlePanic(c, route)

		checkoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req payCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !isAcceptedPaymentStatus(req.PaymentStatus) {
			respondWithError(c, http.StatusBadRequest, route, "invalid payment status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		var checkout models.CheckoutSession
		err = db.Collection("checkout_sessions").FindOneAndUpdate(
			ctx,
			bson.M{"_id": checkoutID, "isPaid": false},
			bson.M{"$set": bson.M{
				"isPaid":         true,
				"paymentStatus":  models.PaymentStatusPaid,
				"paymentDetails": req.PaymentDetails,
				"paidAt":         now,
			}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&checkout)
		if err == mongo.ErrNoDocuments {
			respondCheckoutConflict(c, db, ctx, route, checkoutID, classifyPayFailure)
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] checkout paid: %s", route, checkoutID.Hex())
		c.JSON(http.StatusOK, checkout)
	}
}

/* =========================
   FINALIZE CHECKOUT
========================= */

// FinalizeCheckout handles POST /checkout/:id/finalize: the one-time
// conversion of a paid session into an order. The check-and-set on
// isFinalized, the order insert and the cart cleanup form one transaction,
// so a concurrent caller loses cleanly and no second order can exist.
func FinalizeCheckout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/:id/finalize"
		defer handlePanic(c, route)

		checkoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var order models.Order
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			now := time.Now()

			var checkout models.CheckoutSession
			err := db.Collection("checkout_sessions").FindOneAndUpdate(
				sessCtx,
				bson.M{"_id": checkoutID, "isPaid": true, "isFinalized": false},
				bson.M{"$set": bson.M{
					"isFinalized": true,
					"finalizedAt": now,
				}},
				options.FindOneAndUpdate().SetReturnDocument(options.Before),
			).Decode(&checkout)
			if err == mongo.ErrNoDocuments {
				return nil, finalizeFailureFor(sessCtx, db, checkoutID)
			}
			if err != nil {
				return nil, err
			}

			order = models.OrderFromCheckout(checkout, now)
			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}

			// The user's current cart is cleaned up by ownership, not by
			// cart identity: whatever cart the user holds now is consumed.
			if _, err := db.Collection("carts").DeleteOne(sessCtx, bson.M{"userId": checkout.UserID}); err != nil {
				return nil, err
			}
			return nil, nil
		})
		if err != nil {
			var notFoundErr checkoutNotFoundError
			if errors.As(err, &notFoundErr) {
				respondWithError(c, http.StatusNotFound, route, "checkout not found")
				return
			}
			var finalizedErr checkoutFinalizedError
			if errors.As(err, &finalizedErr) {
				respondWithError(c, http.StatusBadRequest, route, "checkout already finalized")
				return
			}
			var notPaidErr checkoutNotPaidError
			if errors.As(err, &notPaidErr) {
				respondWithError(c, http.StatusBadRequest, route, "checkout is not paid")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] checkout finalized: %s order: %s", route, checkoutID.Hex(), order.ID.Hex())
		c.JSON(http.StatusCreated, order)
	}
}

// finalizeFailureFor re-reads the session to report why the conditional
// finalize update matched nothing.
func finalizeFailureFor(ctx context.Context, db *mongo.Database, checkoutID primitive.ObjectID) error {
	var checkout models.CheckoutSession
	err := db.Collection("checkout_sessions").FindOne(ctx, bson.M{"_id": checkoutID}).Decode(&checkout)
	if err == mongo.ErrNoDocuments {
		return checkoutNotFoundError{}
	}
	if err != nil {
		return err
	}
	if failure := classifyFinalizeFailure(checkout); failure != nil {
		return failure
	}
	// The precondition held on re-read; the racing writer must have lost
	// between the two reads. Report the conservative state error.
	return checkoutFinalizedError{}
}

// respondCheckoutConflict re-reads the session and maps the conflicting
// state to a response.
func respondCheckoutConflict(
	c *gin.Context,
	db *mongo.Database,
	ctx context.Context,
	route string,
	checkoutID primitive.ObjectID,
	classify func(models.CheckoutSession) error,
) {
	var checkout models.CheckoutSession
	err := db.Collection("checkout_sessions").FindOne(ctx, bson.M{"_id": checkoutID}).Decode(&checkout)
	if err == mongo.ErrNoDocuments {
		respondWithError(c, http.StatusNotFound, route, "checkout not found")
		return
	}
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return
	}

	failure := classify(checkout)
	var finalizedErr checkoutFinalizedError
	if errors.As(failure, &finalizedErr) {
		respondWithError(c, http.StatusBadRequest, route, "checkout already finalized")
		return
	}
	var paidErr checkoutAlreadyPaidError
	if errors.As(failure, &paidErr) {
		respondWithError(c, http.StatusBadRequest, route, "checkout already paid")
		return
	}
	var notPaidErr checkoutNotPaidError
	if errors.As(failure, &notPaidErr) {
		respondWithError(c, http.StatusBadRequest, route, "checkout is not paid")
		return
	}
	respondWithError(c, http.StatusConflict, route, "checkout state changed, retry")
}
