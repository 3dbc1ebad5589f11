package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a new 24-character hex object identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ParseID validates the shape of an identifier and returns its canonical
// lowercase form.
func ParseID(s string) (string, bool) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return "", false
	}
	return oid.Hex(), true
}

// IsValidID reports whether s is a structurally valid identifier.
func IsValidID(s string) bool {
	_, ok := ParseID(s)
	return ok
}
