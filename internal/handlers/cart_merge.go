package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"shopbackend/internal/models"
)

type mergeCartRequest struct {
	GuestID string `json:"guestId" binding:"required"`
}

// MergeCarts handles POST /cart/merge, called once when a guest logs in.
// Both cart reads, the merged write and the guest-cart delete run in one
// transaction, so a guest-side add racing the merge serializes against it
// instead of being silently dropped.
func MergeCarts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/merge"
		defer handlePanic(c, route)

		userID, ok := callerUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req mergeCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		guestID := strings.TrimSpace(req.GuestID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var result models.Cart
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			carts := db.Collection("carts")

			var guestCart models.Cart
			guestErr := carts.FindOne(sessCtx, models.GuestOwner(guestID).Filter()).Decode(&guestCart)
			if guestErr != nil && guestErr != mongo.ErrNoDocuments {
				return nil, guestErr
			}

			var userCart models.Cart
			userErr := carts.FindOne(sessCtx, models.UserOwner(userID).Filter()).Decode(&userCart)
			if userErr != nil && userErr != mongo.ErrNoDocuments {
				return nil, userErr
			}

			if guestErr == mongo.ErrNoDocuments {
				// Nothing to merge; an earlier merge may have consumed the
				// guest cart already.
				if userErr == nil {
					result = userCart
					return nil, nil
				}
				return nil, guestCartNotFoundError{}
			}

			if len(guestCart.Lines) == 0 {
				return nil, guestCartEmptyError{}
			}

			if userErr == nil {
				userCart.Lines = mergeCartLines(userCart.Lines, guestCart.Lines)
				userCart.TotalPrice = models.CartTotal(userCart.Lines)
				userCart.UpdatedAt = time.Now()

				if _, err := carts.UpdateByID(sessCtx, userCart.ID, bson.M{
					"$set": bson.M{
						"products":   userCart.Lines,
						"totalPrice": userCart.TotalPrice,
						"updatedAt":  userCart.UpdatedAt,
					},
				}); err != nil {
					return nil, err
				}
				if _, err := carts.DeleteOne(sessCtx, bson.M{"_id": guestCart.ID}); err != nil {
					return nil, err
				}

				result = userCart
				return nil, nil
			}

			// No user cart: re-own the guest cart in place. Quantities do
			// not change, only the owner key does.
			if _, err := carts.UpdateByID(sessCtx, guestCart.ID, bson.M{
				"$set":   bson.M{"userId": userID, "updatedAt": time.Now()},
				"$unset": bson.M{"guestId": ""},
			}); err != nil {
				return nil, err
			}

			guestCart.UserID = &userID
			guestCart.GuestID = ""
			result = guestCart
			return nil, nil
		})
		if err != nil {
			var notFoundErr guestCartNotFoundError
			if errors.As(err, &notFoundErr) {
				respondWithError(c, http.StatusNotFound, route, "guest cart not found")
				return
			}
			var emptyErr guestCartEmptyError
			if errors.As(err, &emptyErr) {
				respondWithError(c, http.StatusBadRequest, route, "guest cart is empty")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] cart merged for user: %s", route, userID.Hex())
		c.JSON(http.StatusOK, result)
	}
}

type guestCartNotFoundError struct{}

func (e guestCartNotFoundError) Error() string {
	return "guest cart not found"
}

type guestCartEmptyError struct{}

func (e guestCartEmptyError) Error() string {
	return "guest cart is empty"
}
