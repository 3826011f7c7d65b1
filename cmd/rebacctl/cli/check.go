package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/relationkit/rebac/pkg/rebac"
)

func newCheckCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <object> <relation> <subject>",
		Short: "Ask whether subject has relation on object",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			contextJSON, err := cmd.Flags().GetString("context")
			if err != nil {
				return err
			}

			maxDepth, err := cmd.Flags().GetUint32("max-depth")
			if err != nil {
				return err
			}

			req, err := buildRequest(args[0], args[1], args[2], contextJSON)
			if err != nil {
				return err
			}

			store, err := buildStore(v)
			if err != nil {
				return err
			}

			checker, err := newChecker(store)
			if err != nil {
				return err
			}

			allowed, err := checker.Check(cmd.Context(), req, rebac.Options{MaxDepth: maxDepth})
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}

			cmd.Println(allowed)

			return nil
		},
	}

	cmd.Flags().String("context", "", "JSON object used as the request-time condition context")
	cmd.Flags().Uint32("max-depth", 0, "override the recursion depth cap (0 uses the default)")

	return cmd
}

func buildRequest(object, relation, subject, contextJSON string) (rebac.Request, error) {
	objectType, objectID, err := splitColonPair(object)
	if err != nil {
		return rebac.Request{}, fmt.Errorf("invalid object %q: %w", object, err)
	}

	subjectType, subjectID, subjectRelation, err := splitSubject(subject)
	if err != nil {
		return rebac.Request{}, fmt.Errorf("invalid subject %q: %w", subject, err)
	}

	req := rebac.Request{
		ObjectType:      objectType,
		ObjectID:        objectID,
		Relation:        relation,
		SubjectType:     subjectType,
		SubjectID:       subjectID,
		SubjectRelation: subjectRelation,
	}

	if contextJSON != "" {
		if err := json.Unmarshal([]byte(contextJSON), &req.Context); err != nil {
			return rebac.Request{}, fmt.Errorf("invalid --context JSON: %w", err)
		}
	}

	return req, nil
}
