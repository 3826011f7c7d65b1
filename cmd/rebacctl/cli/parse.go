package cli

import (
	"fmt"
	"strings"

	"github.com/relationkit/rebac/pkg/tuple"
)

// splitColonPair parses a strict "type:id" string, returning an error
// when the colon is missing (unlike tuple.SplitObject, which tolerates
// it for internal rewrites where the caller already knows the shape).
func splitColonPair(s string) (objectType, objectID string, err error) {
	objectType, objectID = tuple.SplitObject(s)
	if objectType == "" || !strings.Contains(s, ":") {
		return "", "", fmt.Errorf("expected \"type:id\", got %q", s)
	}

	return objectType, objectID, nil
}

// splitSubject parses "type:id" or "type:id#relation".
func splitSubject(s string) (subjectType, subjectID, subjectRelation string, err error) {
	object, relation := tuple.SplitObjectRelation(s)

	subjectType, subjectID, err = splitColonPair(object)
	if err != nil {
		return "", "", "", err
	}

	return subjectType, subjectID, relation, nil
}
