package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductImage is a single catalog image reference.
type ProductImage struct {
	URL     string `bson:"url" json:"url"`
	AltText string `bson:"altText,omitempty" json:"altText,omitempty"`
}

// Product is the read-only catalog document. The cart only ever reads it to
// snapshot name, price and the first image at add-time.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Sizes       StringList         `bson:"sizes" json:"sizes"`
	Colors      StringList         `bson:"colors" json:"colors"`
	Images      []ProductImage     `bson:"images" json:"images"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// FirstImageURL is the image snapshotted onto cart lines.
func (p Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
