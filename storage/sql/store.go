// Package sql is a squirrel-built, database/sql-backed implementation
// of rebac.Store, supporting Postgres (via jackc/pgx) and MySQL (via
// go-sql-driver/mysql). It is grounded on the retrieved Postgres
// storage adapter (other_examples "pkg-storage-postgres-postgres.go"):
// same connect-with-backoff-retry shape, same squirrel statement
// builder, same otel tracing spans per query, adapted from the
// teacher's protobuf tuple/store model to the flat rebac.Tuple model.
package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/relationkit/rebac/pkg/logger"
	"github.com/relationkit/rebac/pkg/rebac"
)

var tracer = otel.Tracer("github.com/relationkit/rebac/storage/sql")

// Store is a SQL-backed rebac.Store.
type Store struct {
	stbl    sq.StatementBuilderType
	db      *sql.DB
	logger  logger.Logger
	dialect Dialect
}

var _ rebac.Store = (*Store)(nil)

// New opens a connection to dsn using dialect's driver, pinging it with
// exponential backoff (mirroring the teacher's postgres.New) before
// returning.
func New(dialect Dialect, dsn string, cfg Config, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNoopLogger()
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", dialect, err)
	}

	if cfg.MaxOpenConns != 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime != 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime != 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = cfg.ConnectTimeout
	if policy.MaxElapsedTime == 0 {
		policy.MaxElapsedTime = time.Minute
	}

	attempt := 1
	err = backoff.Retry(func() error {
		if pingErr := db.PingContext(context.Background()); pingErr != nil {
			log.Info("waiting for database", zap.Int("attempt", attempt))
			attempt++
			return pingErr
		}
		return nil
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}

	return &Store{
		stbl:    sq.StatementBuilder.PlaceholderFormat(dialect.placeholderFormat()).RunWith(db),
		db:      db,
		logger:  log,
		dialect: dialect,
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) FindDirectTuple(ctx context.Context, objectType, objectID, relation, subjectType, subjectID string) (*rebac.Tuple, error) {
	ctx, span := tracer.Start(ctx, "sql.FindDirectTuple")
	defer span.End()

	row := s.stbl.
		Select("object_type", "object_id", "relation", "subject_type", "subject_id", "subject_relation", "condition_name", "condition_context").
		From("tuples").
		Where(sq.Eq{
			"object_type":  objectType,
			"object_id":    objectID,
			"relation":     relation,
			"subject_type": subjectType,
			"subject_id":   subjectID,
		}).
		Where(sq.Or{sq.Eq{"subject_relation": ""}, sq.Eq{"subject_relation": nil}}).
		QueryRowContext(ctx)

	t, err := scanTuple(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Store) FindUsersetTuples(ctx context.Context, objectType, objectID, relation string) ([]rebac.Tuple, error) {
	ctx, span := tracer.Start(ctx, "sql.FindUsersetTuples")
	defer span.End()

	return s.findByRelation(ctx, objectType, objectID, relation, true)
}

func (s *Store) FindTuplesByRelation(ctx context.Context, objectType, objectID, relation string) ([]rebac.Tuple, error) {
	ctx, span := tracer.Start(ctx, "sql.FindTuplesByRelation")
	defer span.End()

	return s.findByRelation(ctx, objectType, objectID, relation, false)
}

func (s *Store) findByRelation(ctx context.Context, objectType, objectID, relation string, usersetOnly bool) ([]rebac.Tuple, error) {
	q := s.stbl.
		Select("object_type", "object_id", "relation", "subject_type", "subject_id", "subject_relation", "condition_name", "condition_context").
		From("tuples").
		Where(sq.Eq{"object_type": objectType, "object_id": objectID, "relation": relation}).
		OrderBy("ulid")

	if usersetOnly {
		q = q.Where(sq.NotEq{"subject_relation": ""})
	}

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query tuples: %w", err)
	}
	defer rows.Close()

	var tuples []rebac.Tuple
	for rows.Next() {
		t, err := scanTuple(rows)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, *t)
	}

	return tuples, rows.Err()
}

func (s *Store) FindRelationConfig(ctx context.Context, objectType, relation string) (*rebac.RelationConfig, error) {
	ctx, span := tracer.Start(ctx, "sql.FindRelationConfig")
	defer span.End()

	var raw []byte
	err := s.stbl.
		Select("config").
		From("relation_configs").
		Where(sq.Eq{"object_type": objectType, "relation": relation}).
		QueryRowContext(ctx).
		Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query relation config: %w", err)
	}

	var config rebac.RelationConfig
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil, &rebac.InvalidStoredDataError{Reason: "relation_configs.config is not valid JSON", Err: err}
	}

	return &config, nil
}

func (s *Store) FindConditionDefinition(ctx context.Context, name string) (*rebac.ConditionDefinition, error) {
	ctx, span := tracer.Start(ctx, "sql.FindConditionDefinition")
	defer span.End()

	var def rebac.ConditionDefinition
	err := s.stbl.
		Select("name", "expression").
		From("condition_definitions").
		Where(sq.Eq{"name": name}).
		QueryRowContext(ctx).
		Scan(&def.Name, &def.Expression)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query condition definition: %w", err)
	}

	return &def, nil
}

func (s *Store) AddTuple(ctx context.Context, t rebac.Tuple) error {
	ctx, span := tracer.Start(ctx, "sql.AddTuple")
	defer span.End()

	condCtx, err := json.Marshal(t.ConditionContext)
	if err != nil {
		return fmt.Errorf("failed to marshal condition context: %w", err)
	}

	id := ulid.Make()

	insert := s.stbl.Insert("tuples").
		Columns("ulid", "object_type", "object_id", "relation", "subject_type", "subject_id", "subject_relation", "condition_name", "condition_context").
		Values(id.String(), t.ObjectType, t.ObjectID, t.Relation, t.SubjectType, t.SubjectID, t.SubjectRelation, t.ConditionName, condCtx)

	if s.dialect == Postgres {
		insert = insert.Suffix("ON CONFLICT (object_type, object_id, relation, subject_type, subject_id, subject_relation) DO NOTHING")
	} else {
		insert = insert.Suffix("ON DUPLICATE KEY UPDATE ulid = ulid")
	}

	_, err = insert.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert tuple: %w", err)
	}

	return nil
}

func (s *Store) WriteRelationConfig(ctx context.Context, c rebac.RelationConfig) error {
	ctx, span := tracer.Start(ctx, "sql.WriteRelationConfig")
	defer span.End()

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal relation config: %w", err)
	}

	insert := s.stbl.Insert("relation_configs").
		Columns("object_type", "relation", "config").
		Values(c.ObjectType, c.Relation, raw)

	if s.dialect == Postgres {
		insert = insert.Suffix("ON CONFLICT (object_type, relation) DO UPDATE SET config = EXCLUDED.config")
	} else {
		insert = insert.Suffix("ON DUPLICATE KEY UPDATE config = VALUES(config)")
	}

	_, err = insert.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert relation config: %w", err)
	}

	return nil
}

func (s *Store) WriteConditionDefinition(ctx context.Context, d rebac.ConditionDefinition) error {
	ctx, span := tracer.Start(ctx, "sql.WriteConditionDefinition")
	defer span.End()

	insert := s.stbl.Insert("condition_definitions").
		Columns("name", "expression").
		Values(d.Name, d.Expression)

	if s.dialect == Postgres {
		insert = insert.Suffix("ON CONFLICT (name) DO UPDATE SET expression = EXCLUDED.expression")
	} else {
		insert = insert.Suffix("ON DUPLICATE KEY UPDATE expression = VALUES(expression)")
	}

	_, err := insert.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert condition definition: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTuple(row scanner) (*rebac.Tuple, error) {
	var t rebac.Tuple
	var subjectRelation, conditionName sql.NullString
	var condCtx []byte

	err := row.Scan(&t.ObjectType, &t.ObjectID, &t.Relation, &t.SubjectType, &t.SubjectID, &subjectRelation, &conditionName, &condCtx)
	if err != nil {
		return nil, err
	}

	// subject_relation/condition_name are nullable columns (spec.md §6);
	// AddTuple always writes the empty string rather than NULL for
	// "absent", but a row inserted by another process may use NULL, so
	// scanning through sql.NullString keeps both forms mapping to "".
	t.SubjectRelation = subjectRelation.String
	t.ConditionName = conditionName.String

	if len(condCtx) > 0 {
		if err := json.Unmarshal(condCtx, &t.ConditionContext); err != nil {
			return nil, &rebac.InvalidStoredDataError{Reason: "tuples.condition_context is not valid JSON", Err: err}
		}
	}

	return &t, nil
}
