package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the minimal account document this service reads. Accounts are
// created and authenticated elsewhere; orders only project name and email
// from here.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
