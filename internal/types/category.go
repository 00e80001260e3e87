// Package types implements special types for the Wanderplan backend.
package types

// Category is the kind of spend an expense or budget allocation belongs to.
type Category string

const (
	CategoryFlights        Category = "flights"
	CategoryAccommodations Category = "accommodations"
	CategoryTransportation Category = "transportation"
	CategoryFood           Category = "food"
	CategoryActivities     Category = "activities"
	CategoryShopping       Category = "shopping"
	CategoryOther          Category = "other"
)

// Categories returns all valid categories.
func Categories() []Category {
	return []Category{
		CategoryFlights,
		CategoryAccommodations,
		CategoryTransportation,
		CategoryFood,
		CategoryActivities,
		CategoryShopping,
		CategoryOther,
	}
}

// Valid reports whether the category is one of the fixed enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryFlights, CategoryAccommodations, CategoryTransportation,
		CategoryFood, CategoryActivities, CategoryShopping, CategoryOther:
		return true
	}

	return false
}

func (c Category) String() string {
	return string(c)
}
