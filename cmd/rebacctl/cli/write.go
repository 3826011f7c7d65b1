package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/relationkit/rebac/pkg/rebac"
)

func newWriteTupleCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write-tuple <object> <relation> <subject>",
		Short: "Add a relationship tuple, validated against the relation's config",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			condition, err := cmd.Flags().GetString("condition")
			if err != nil {
				return err
			}

			conditionContextJSON, err := cmd.Flags().GetString("condition-context")
			if err != nil {
				return err
			}

			objectType, objectID, err := splitColonPair(args[0])
			if err != nil {
				return err
			}

			subjectType, subjectID, subjectRelation, err := splitSubject(args[2])
			if err != nil {
				return err
			}

			t := rebac.Tuple{
				ObjectType:      objectType,
				ObjectID:        objectID,
				Relation:        args[1],
				SubjectType:     subjectType,
				SubjectID:       subjectID,
				SubjectRelation: subjectRelation,
				ConditionName:   condition,
			}

			if conditionContextJSON != "" {
				if err := json.Unmarshal([]byte(conditionContextJSON), &t.ConditionContext); err != nil {
					return fmt.Errorf("invalid --condition-context JSON: %w", err)
				}
			}

			store, err := buildStore(v)
			if err != nil {
				return err
			}

			writer, err := newWriter(store)
			if err != nil {
				return err
			}

			return writer.AddTuple(cmd.Context(), t)
		},
	}

	cmd.Flags().String("condition", "", "name of a previously written condition definition to attach")
	cmd.Flags().String("condition-context", "", "JSON object stored alongside the tuple as its condition context")

	return cmd
}

func newWriteRelationConfigCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write-relation-config <object-type> <relation>",
		Short: "Upsert the algebra for one object type's relation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configJSON, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			var config rebac.RelationConfig
			if configJSON != "" {
				if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
					return fmt.Errorf("invalid --config JSON: %w", err)
				}
			}

			config.ObjectType = args[0]
			config.Relation = args[1]

			store, err := buildStore(v)
			if err != nil {
				return err
			}

			writer, err := newWriter(store)
			if err != nil {
				return err
			}

			return writer.WriteRelationConfig(cmd.Context(), config)
		},
	}

	cmd.Flags().String("config", "{}", "JSON-encoded rebac.RelationConfig body (object-type and relation are set from the positional args)")

	return cmd
}

func newWriteConditionCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write-condition <name> <expression>",
		Short: "Upsert a named CEL condition expression",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := buildStore(v)
			if err != nil {
				return err
			}

			writer, err := newWriter(store)
			if err != nil {
				return err
			}

			return writer.WriteConditionDefinition(cmd.Context(), rebac.ConditionDefinition{
				Name:       args[0],
				Expression: args[1],
			})
		},
	}

	return cmd
}
