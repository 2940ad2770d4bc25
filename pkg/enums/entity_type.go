package enums

import "fmt"

// EntityType identifies which catalog entity a review or trending
// counter refers to.
type EntityType string

const (
	EntityTypeMall    EntityType = "mall"
	EntityTypeStore   EntityType = "store"
	EntityTypeProduct EntityType = "product"
)

var validEntityTypes = []EntityType{
	EntityTypeMall,
	EntityTypeStore,
	EntityTypeProduct,
}

// String implements fmt.Stringer.
func (e EntityType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EntityType.
func (e EntityType) IsValid() bool {
	for _, candidate := range validEntityTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntityType converts raw input into an EntityType.
func ParseEntityType(value string) (EntityType, error) {
	for _, candidate := range validEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity type %q", value)
}
