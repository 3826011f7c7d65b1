// Package tuple provides helpers for parsing and formatting the string
// encodings of objects and subjects used throughout the engine:
// "type:id" for objects and "type:id" or "type:id#relation" for subjects.
package tuple

import "strings"

// Wildcard is the reserved subject id denoting "every subject of the
// given subject type".
const Wildcard = "*"

// SplitObject splits "type:id" into its type and id components. If sep
// is absent, the whole string is returned as the id with an empty type.
func SplitObject(object string) (objectType string, objectID string) {
	objectType, objectID, found := strings.Cut(object, ":")
	if !found {
		return "", object
	}

	return objectType, objectID
}

// Object formats an object type and id as "type:id".
func Object(objectType, objectID string) string {
	return objectType + ":" + objectID
}

// SplitObjectRelation splits "type:id#relation" into the object part
// ("type:id") and the relation. If no "#" is present, relation is empty.
func SplitObjectRelation(subject string) (object string, relation string) {
	object, relation, found := strings.Cut(subject, "#")
	if !found {
		return subject, ""
	}

	return object, relation
}

// ObjectRelation formats an object and relation as "object#relation", or
// just "object" when relation is empty.
func ObjectRelation(object, relation string) string {
	if relation == "" {
		return object
	}

	return object + "#" + relation
}

// IsWildcard reports whether subjectID is the reserved wildcard id.
func IsWildcard(subjectID string) bool {
	return subjectID == Wildcard
}
