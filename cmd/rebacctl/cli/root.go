package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/relationkit/rebac/internal/conditions"
	"github.com/relationkit/rebac/internal/graph"
	pkgconditions "github.com/relationkit/rebac/pkg/conditions"
	"github.com/relationkit/rebac/pkg/logger"
	"github.com/relationkit/rebac/pkg/rebac"
	"github.com/relationkit/rebac/storage/memory"
	rebacsql "github.com/relationkit/rebac/storage/sql"
)

// NewRootCommand builds the rebacctl command tree: global flags/config
// are bound once into a viper instance shared by every subcommand, and
// each subcommand builds its store from that shared configuration when
// it runs.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "rebacctl",
		Short:         "Operate a relationship-based access control store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			shutdown := setupTracing()
			cmd.SetContext(context.WithValue(cmd.Context(), tracingShutdownKey{}, shutdown))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if shutdown, ok := cmd.Context().Value(tracingShutdownKey{}).(func(context.Context) error); ok {
				return shutdown(cmd.Context())
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("store", "memory", "backend to use: 'memory' (default, not persisted across invocations) or 'sql'")
	flags.String("dsn", "", "data source name for the sql backend")
	flags.String("dialect", "postgres", "sql dialect: 'postgres' or 'mysql'")

	_ = v.BindPFlag("store", flags.Lookup("store"))
	_ = v.BindPFlag("dsn", flags.Lookup("dsn"))
	_ = v.BindPFlag("dialect", flags.Lookup("dialect"))
	v.SetEnvPrefix("REBAC")
	v.AutomaticEnv()

	root.AddCommand(newCheckCommand(v))
	root.AddCommand(newWriteTupleCommand(v))
	root.AddCommand(newWriteRelationConfigCommand(v))
	root.AddCommand(newWriteConditionCommand(v))

	return root
}

// buildStore constructs the configured backend. The memory backend is
// scoped to a single process invocation: it exists so "rebacctl check"
// is runnable without standing up a database, not as a way to persist
// state between separate CLI invocations. The sql backend opens a real
// connection pool per invocation, which is wasteful for a one-shot CLI
// but exercises the same storage/sql.Store a long-lived service would
// embed.
func buildStore(v *viper.Viper) (rebac.Store, error) {
	switch strings.ToLower(v.GetString("store")) {
	case "", "memory":
		return memory.New(), nil
	case "sql":
		dialect, err := parseDialect(v.GetString("dialect"))
		if err != nil {
			return nil, err
		}

		dsn := v.GetString("dsn")
		if dsn == "" {
			return nil, fmt.Errorf("--dsn is required for the sql backend")
		}

		log, err := logger.New()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}

		return rebacsql.New(dialect, dsn, rebacsql.Config{}, log)
	default:
		return nil, fmt.Errorf("unknown store backend %q", v.GetString("store"))
	}
}

// parseDialect maps the --dialect flag value to a storage/sql.Dialect.
func parseDialect(name string) (rebacsql.Dialect, error) {
	switch strings.ToLower(name) {
	case "", "postgres", "postgresql":
		return rebacsql.Postgres, nil
	case "mysql":
		return rebacsql.MySQL, nil
	default:
		return 0, fmt.Errorf("unknown sql dialect %q", name)
	}
}

// newWriter constructs a WriteService for store.
func newWriter(store rebac.Store) (*graph.WriteService, error) {
	log, err := logger.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return graph.NewWriteService(store, log), nil
}

// newChecker constructs a Checker whose logger is tagged with a fresh
// correlation id for this invocation, so a single "rebacctl check" run
// can be traced through logs the way a request id threads through the
// teacher's own server logging.
func newChecker(store rebac.Store) (*graph.Checker, error) {
	compiler, err := conditions.NewCELCompiler()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize condition compiler: %w", err)
	}

	log, err := logger.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log = log.With(zap.String("invocation_id", uuid.NewString()))

	cache := pkgconditions.NewPredicateCache(compiler, 0)
	evaluator := pkgconditions.NewEvaluator(store, cache)

	return graph.NewChecker(store, evaluator, 0, log), nil
}
