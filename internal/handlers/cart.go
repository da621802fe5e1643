package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shopbackend/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

// cartLineRequest is the shared body of the cart mutation routes; the
// original API sends the same shape for add, update and remove.
type cartLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	GuestID   string `json:"guestId"`
	UserID    string `json:"userId"`
}

/* =========================
   ADD TO CART
========================= */

// AddToCart handles POST /cart. It snapshots the product onto the line,
// increments a matching line or appends a new one, and creates the cart on
// first use. The whole sequence runs in one transaction so two concurrent
// adds on the same owner cannot lose an update.
func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart"
		defer handlePanic(c, route)

		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Quantity <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must be greater than zero")
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		owner, err := models.ResolveCartOwner(req.UserID, req.GuestID)
		if errors.Is(err, models.ErrNoCartOwner) {
			// First anonymous add: mint a fresh guest token.
			owner = models.GuestOwner("guest_" + uuid.NewString())
		} else if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
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

		var cart models.Cart
		created := false
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			var product models.Product
			err := db.Collection("products").FindOne(sessCtx, bson.M{"_id": productID}).Decode(&product)
			if err == mongo.ErrNoDocuments {
				return nil, productNotFoundError{ProductID: productID}
			}
			if err != nil {
				return nil, err
			}

			line := models.CartLine{
				ProductID: productID,
				Name:      product.Name,
				Image:     product.FirstImageURL(),
				Price:     product.Price,
				Size:      req.Size,
				Color:     req.Color,
				Quantity:  req.Quantity,
			}

			err = db.Collection("carts").FindOne(sessCtx, owner.Filter()).Decode(&cart)
			if err == mongo.ErrNoDocuments {
				now := time.Now()
				cart = models.Cart{
					Lines:      []models.CartLine{line},
					TotalPrice: models.CartTotal([]models.CartLine{line}),
					CreatedAt:  now,
					UpdatedAt:  now,
				}
				owner.Apply(&cart)

				res, err := db.Collection("carts").InsertOne(sessCtx, cart)
				if err != nil {
					return nil, err
				}
				if id, ok := res.InsertedID.(primitive.ObjectID); ok {
					cart.ID = id
				}
				created = true
				return nil, nil
			}
			if err != nil {
				return nil, err
			}

			cart.Lines = addLine(cart.Lines, line)
			cart.TotalPrice = models.CartTotal(cart.Lines)
			cart.UpdatedAt = time.Now()

			_, err = db.Collection("carts").UpdateByID(sessCtx, cart.ID, bson.M{
				"$set": bson.M{
					"products":   cart.Lines,
					"totalPrice": cart.TotalPrice,
					"updatedAt":  cart.UpdatedAt,
				},
			})
			return nil, err
		})
		if err != nil {
			respondCartError(c, route, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
			log.Printf("[%s] cart created for owner", route)
		}
		c.JSON(status, cart)
	}
}

/* =========================
   UPDATE / REMOVE LINE
========================= */

// UpdateCartItem handles PUT /cart. A positive quantity replaces the line's
// quantity; zero or negative removes the line.
func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart"
		defer handlePanic(c, route)

		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		mutateCartLines(c, db, route, req, func(lines []models.CartLine, key models.LineKey) ([]models.CartLine, bool) {
			return setLineQuantity(lines, key, req.Quantity)
		})
	}
}

// RemoveCartItem handles DELETE /cart.
func RemoveCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		mutateCartLines(c, db, route, req, removeLine)
	}
}

// mutateCartLines applies a line mutation to an existing cart inside a
// transaction and persists the recomputed total.
func mutateCartLines(
	c *gin.Context,
	db *mongo.Database,
	route string,
	req cartLineRequest,
	mutate func([]models.CartLine, models.LineKey) ([]models.CartLine, bool),
) {
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid productId")
		return
	}
	key := models.LineKey{ProductID: productID, Size: req.Size, Color: req.Color}

	owner, err := models.ResolveCartOwner(req.UserID, req.GuestID)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, err.Error())
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

	var cart models.Cart
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		err := db.Collection("carts").FindOne(sessCtx, owner.Filter()).Decode(&cart)
		if err == mongo.ErrNoDocuments {
			return nil, cartNotFoundError{}
		}
		if err != nil {
			return nil, err
		}

		lines, found := mutate(cart.Lines, key)
		if !found {
			return nil, lineNotFoundError{Key: key}
		}

		cart.Lines = lines
		cart.TotalPrice = models.CartTotal(lines)
		cart.UpdatedAt = time.Now()

		_, err = db.Collection("carts").UpdateByID(sessCtx, cart.ID, bson.M{
			"$set": bson.M{
				"products":   cart.Lines,
				"totalPrice": cart.TotalPrice,
				"updatedAt":  cart.UpdatedAt,
			},
		})
		return nil, err
	})
	if err != nil {
		respondCartError(c, route, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

/* =========================
   GET CART
========================= */

// GetCart handles GET /cart?userId=..&guestId=..
func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		owner, err := models.ResolveCartOwner(c.Query("userId"), c.Query("guestId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		if err := db.Collection("carts").FindOne(ctx, owner.Filter()).Decode(&cart); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "cart not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, cart)
	}
}

/* =========================
   ERRORS
========================= */

func respondCartError(c *gin.Context, route string, err error) {
	var productErr productNotFoundError
	if errors.As(err, &productErr) {
		respondWithError(c, http.StatusNotFound, route, "product not found")
		return
	}
	var cartErr cartNotFoundError
	if errors.As(err, &cartErr) {
		respondWithError(c, http.StatusNotFound, route, "cart not found")
		return
	}
	var lineErr lineNotFoundError
	if errors.As(err, &lineErr) {
		respondWithError(c, http.StatusNotFound, route, "product not found in cart")
		return
	}
	respondWithError(c, http.StatusInternalServerError, route, "db error")
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

type cartNotFoundError struct{}

func (e cartNotFoundError) Error() string {
	return "cart not found"
}

type lineNotFoundError struct {
	Key models.LineKey
}

func (e lineNotFoundError) Error() string {
	return "product not found in cart"
}
