package handlers

import (
	"shopbackend/internal/models"
)

// Pure cart-line arithmetic. Handlers run these inside a transaction so the
// read-match-write sequence stays atomic per cart; the functions themselves
// never touch storage.

func findLineIndex(lines []models.CartLine, key models.LineKey) int {
	for i, line := range lines {
		if key.Matches(line) {
			return i
		}
	}
	return -1
}

// addLine increments a matching line's quantity or appends the new line.
func addLine(lines []models.CartLine, line models.CartLine) []models.CartLine {
	if i := findLineIndex(lines, line.Key()); i > -1 {
		lines[i].Quantity += line.Quantity
		return lines
	}
	return append(lines, line)
}

// setLineQuantity replaces a line's quantity, removing the line when the
// requested quantity is zero or negative. The second return value reports
// whether a matching line existed.
func setLineQuantity(lines []models.CartLine, key models.LineKey, quantity int) ([]models.CartLine, bool) {
	i := findLineIndex(lines, key)
	if i == -1 {
		return lines, false
	}
	if quantity > 0 {
		lines[i].Quantity = quantity
		return lines, true
	}
	return append(lines[:i], lines[i+1:]...), true
}

func removeLine(lines []models.CartLine, key models.LineKey) ([]models.CartLine, bool) {
	i := findLineIndex(lines, key)
	if i == -1 {
		return lines, false
	}
	return append(lines[:i], lines[i+1:]...), true
}

// mergeCartLines folds guest lines into the user's lines: quantities add up
// on a key match, unmatched guest lines carry their snapshot over untouched.
func mergeCartLines(userLines, guestLines []models.CartLine) []models.CartLine {
	merged := userLines
	for _, guestLine := range guestLines {
		merged = addLine(merged, guestLine)
	}
	return merged
}
