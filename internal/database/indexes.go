package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCartIndexes enforces one cart per owner key. The partial filters
// keep the unique constraints from colliding on carts that carry only the
// other key.
func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("carts").Indexes()

	userIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().
			SetName("userId_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"userId": bson.M{"$exists": true},
			}),
	}
	guestIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "guestId", Value: 1}},
		Options: options.Index().
			SetName("guestId_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"guestId": bson.M{"$exists": true},
			}),
	}

	log.Println("EnsureCartIndexes: creating owner key indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{userIndex, guestIndex})
	if err != nil {
		log.Println("EnsureCartIndexes: owner index error:", err)
		return err
	}
	log.Println("EnsureCartIndexes: owner key indexes created")
	return nil
}

func EnsureCheckoutIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("checkout_sessions").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}

	log.Println("EnsureCheckoutIndexes: creating userId_index index")
	_, err := indexes.CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureCheckoutIndexes: userId index error:", err)
		return err
	}
	log.Println("EnsureCheckoutIndexes: userId_index index created")
	return nil
}

// EnsureOrderIndexes backs the newest-first listings: per-user history and
// the admin view both sort on createdAt.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("userId_createdAt_index"),
	}
	createdAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_index"),
	}

	log.Println("EnsureOrderIndexes: creating order indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{userIDIndex, createdAtIndex})
	if err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: order indexes created")
	return nil
}
