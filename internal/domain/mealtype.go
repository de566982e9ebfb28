package domain

import "strings"

// MealType partitions the menu and the cart context.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// Valid reports whether t is one of the known meal types.
func (t MealType) Valid() bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// Label returns the display form with the first letter capitalized.
func (t MealType) Label() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseMealType normalizes a raw value into a MealType.
func ParseMealType(s string) (MealType, bool) {
	t := MealType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}
