package models

import (
	"strconv"
	"strings"
)

// DefaultCategoryID is the category a guest lands in when the form does not
// carry a usable closeness value ("acquaintance").
const DefaultCategoryID = 4

// Guest represents an invited entry on the list. A group guest stands for
// GroupSize attendees sharing one invitation.
type Guest struct {
	ID         int64
	Name       string
	IsGroup    bool
	GroupSize  int
	CategoryID int
	Phone      string
}

// GuestRow is a guest joined with its category phrase, as listed and exported.
type GuestRow struct {
	ID         int64
	Name       string
	IsGroup    bool
	GroupSize  int
	CategoryID int
	Phrase     string
	Phone      string
}

// NewGuestRequest is the decoded add-guest form.
type NewGuestRequest struct {
	Name       string `validate:"required"`
	IsGroup    bool
	GroupSize  int `validate:"gte=1"`
	CategoryID int
	Phone      string `validate:"omitempty,number,min=8,max=15"`
}

// Guest builds the row to insert. GroupSize collapses to 1 for single guests.
func (r NewGuestRequest) Guest() Guest {
	size := r.GroupSize
	if !r.IsGroup {
		size = 1
	}
	return Guest{
		Name:       r.Name,
		IsGroup:    r.IsGroup,
		GroupSize:  size,
		CategoryID: r.CategoryID,
		Phone:      r.Phone,
	}
}

// ResolveCategory applies the lenient default-category policy: a missing or
// unparseable value becomes DefaultCategoryID. Parsed ids are returned as is and
// left to the store's foreign key.
func ResolveCategory(raw string) int {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultCategoryID
	}
	return id
}

// ParseFlag reads a checkbox-ish form value.
func ParseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// ParseGroupSize returns 1 for a missing or unparseable size.
func ParseGroupSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
