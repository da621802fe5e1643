package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopbackend/internal/models"
)

func TestMergeCartLinesAddsQuantitiesOnMatch(t *testing.T) {
	p1 := primitive.NewObjectID()

	userLines := []models.CartLine{line(p1, "M", "Red", 10, 3)}
	guestLines := []models.CartLine{line(p1, "M", "Red", 10, 2)}

	merged := mergeCartLines(userLines, guestLines)

	require.Len(t, merged, 1)
	assert.Equal(t, 5, merged[0].Quantity)
	assert.Equal(t, 50.0, models.CartTotal(merged))
}

func TestMergeCartLinesAppendsUnmatchedGuestLines(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	userLines := []models.CartLine{line(p1, "M", "Red", 10, 3)}
	guestLines := []models.CartLine{line(p2, "S", "Black", 4, 1)}

	merged := mergeCartLines(userLines, guestLines)

	require.Len(t, merged, 2)
	assert.Equal(t, 34.0, models.CartTotal(merged), "total must cover both lines")
}

func TestMergeCartLinesVariantsStaySeparate(t *testing.T) {
	p1 := primitive.NewObjectID()

	userLines := []models.CartLine{line(p1, "M", "Red", 10, 1)}
	guestLines := []models.CartLine{
		line(p1, "L", "Red", 10, 1),
		line(p1, "M", "Blue", 10, 1),
	}

	merged := mergeCartLines(userLines, guestLines)

	require.Len(t, merged, 3, "same product with different size/color is a different line")
	for _, l := range merged {
		assert.Equal(t, 1, l.Quantity)
	}
}

func TestMergeCartLinesPreservesGuestSnapshot(t *testing.T) {
	guest := line(primitive.NewObjectID(), "M", "Red", 12.5, 2)
	guest.Name = "Guest Shirt"
	guest.Image = "/img/shirt.jpg"

	merged := mergeCartLines(nil, []models.CartLine{guest})

	require.Len(t, merged, 1)
	assert.Equal(t, "Guest Shirt", merged[0].Name)
	assert.Equal(t, "/img/shirt.jpg", merged[0].Image)
	assert.Equal(t, 12.5, merged[0].Price)
}

func TestMergeCartLinesIntoEmptyUserCartKeepsQuantities(t *testing.T) {
	guestLines := []models.CartLine{
		line(primitive.NewObjectID(), "M", "Red", 10, 2),
		line(primitive.NewObjectID(), "L", "Blue", 20, 1),
	}

	merged := mergeCartLines([]models.CartLine{}, guestLines)

	require.Len(t, merged, 2)
	assert.Equal(t, guestLines, merged, "merging into an empty cart must not change any quantity")
}
