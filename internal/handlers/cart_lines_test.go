package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopbackend/internal/models"
)

func line(productID primitive.ObjectID, size, color string, price float64, quantity int) models.CartLine {
	return models.CartLine{
		ProductID: productID,
		Size:      size,
		Color:     color,
		Price:     price,
		Quantity:  quantity,
	}
}

func TestAddLineIncrementsMatchingLine(t *testing.T) {
	productID := primitive.NewObjectID()
	lines := []models.CartLine{line(productID, "M", "Red", 10, 2)}

	lines = addLine(lines, line(productID, "M", "Red", 10, 3))

	if len(lines) != 1 {
		t.Fatalf("expected 1 line after matching add, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}
}

func TestAddLineAppendsOnDifferentVariant(t *testing.T) {
	productID := primitive.NewObjectID()
	lines := []models.CartLine{line(productID, "M", "Red", 10, 2)}

	lines = addLine(lines, line(productID, "L", "Red", 10, 1))

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines for different size, got %d", len(lines))
	}
	if total := models.CartTotal(lines); total != 30 {
		t.Fatalf("expected total 30, got %v", total)
	}
}

func TestSetLineQuantityReplacesQuantity(t *testing.T) {
	productID := primitive.NewObjectID()
	lines := []models.CartLine{line(productID, "M", "Red", 10, 2)}

	lines, found := setLineQuantity(lines, models.LineKey{ProductID: productID, Size: "M", Color: "Red"}, 7)
	if !found {
		t.Fatal("expected line to be found")
	}
	if lines[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", lines[0].Quantity)
	}
}

func TestSetLineQuantityFloorRemovesLine(t *testing.T) {
	productID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	lines := []models.CartLine{
		line(productID, "M", "Red", 10, 2),
		line(other, "S", "Black", 5, 1),
	}

	for _, quantity := range []int{0, -3} {
		result, found := setLineQuantity(append([]models.CartLine{}, lines...), models.LineKey{ProductID: productID, Size: "M", Color: "Red"}, quantity)
		if !found {
			t.Fatalf("expected line to be found for quantity %d", quantity)
		}
		if len(result) != 1 || result[0].ProductID != other {
			t.Fatalf("expected line removed for quantity %d, got %+v", quantity, result)
		}
		if total := models.CartTotal(result); total != 5 {
			t.Fatalf("expected total to exclude removed line, got %v", total)
		}
	}
}

func TestSetLineQuantityMissingLine(t *testing.T) {
	lines := []models.CartLine{line(primitive.NewObjectID(), "M", "Red", 10, 2)}

	_, found := setLineQuantity(lines, models.LineKey{ProductID: primitive.NewObjectID(), Size: "M", Color: "Red"}, 1)
	if found {
		t.Fatal("expected no match for unknown product")
	}
}

func TestRemoveLine(t *testing.T) {
	productID := primitive.NewObjectID()
	lines := []models.CartLine{line(productID, "M", "Red", 10, 2)}

	result, found := removeLine(lines, models.LineKey{ProductID: productID, Size: "M", Color: "Red"})
	if !found {
		t.Fatal("expected line to be found")
	}
	if len(result) != 0 {
		t.Fatalf("expected empty cart, got %+v", result)
	}

	if _, found := removeLine(result, models.LineKey{ProductID: productID, Size: "M", Color: "Red"}); found {
		t.Fatal("expected removal of missing line to report not found")
	}
}
