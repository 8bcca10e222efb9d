package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-netstat/pkg/validation"
)

// PGConn is the subset of a pgx pool the writer needs.
type PGConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// AnnotationColumns are the COPY columns of the annotations table, in order.
var AnnotationColumns = []string{
	"run_id", "node_id", "degree", "degree_centrality", "eigenvector", "clustering", "communities",
}

// PGWriter bulk-loads node annotations into PostgreSQL.
type PGWriter struct {
	conn  PGConn
	table string
	close func()
}

// NewPGWriter uses an existing connection.
func NewPGWriter(conn PGConn, table string) (*PGWriter, error) {
	if err := validation.ValidateIdentifier(table); err != nil {
		return nil, err
	}
	return &PGWriter{conn: conn, table: table, close: func() {}}, nil
}

// OpenPGWriter connects to dsn, verifies the connection and creates the
// tables if they don't exist.
func OpenPGWriter(ctx context.Context, dsn, table string) (*PGWriter, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	w, err := NewPGWriter(pool, table)
	if err != nil {
		pool.Close()
		return nil, err
	}
	w.close = pool.Close

	if err := w.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return w, nil
}

func (w *PGWriter) Name() string { return "postgres" }

// Close releases the pool when the writer owns one.
func (w *PGWriter) Close() error {
	w.close()
	return nil
}

// ident splits an optionally schema-qualified name.
func (w *PGWriter) ident(suffix string) pgx.Identifier {
	parts := strings.Split(w.table, ".")
	parts[len(parts)-1] += suffix
	return pgx.Identifier(parts)
}

func (w *PGWriter) runsTable() string {
	return w.ident("_runs").Sanitize()
}

// Migrate creates the annotation and run tables.
func (w *PGWriter) Migrate(ctx context.Context) error {
	annotations := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id TEXT NOT NULL,
			node_id BIGINT NOT NULL,
			degree INTEGER NOT NULL,
			degree_centrality DOUBLE PRECISION NOT NULL,
			eigenvector DOUBLE PRECISION NOT NULL,
			clustering DOUBLE PRECISION NOT NULL,
			communities JSONB NOT NULL DEFAULT '{}'::jsonb,
			PRIMARY KEY (run_id, node_id)
		)`, w.ident("").Sanitize())

	runs := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id TEXT PRIMARY KEY,
			generated_at TIMESTAMPTZ NOT NULL,
			report JSONB NOT NULL
		)`, w.runsTable())

	for _, stmt := range []string{annotations, runs} {
		if _, err := w.conn.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// WriteReport upserts the run summary.
func (w *PGWriter) WriteReport(ctx context.Context, r *Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, generated_at, report)
		VALUES ($1, $2, $3)
		ON CONFLICT (run_id) DO UPDATE SET generated_at = EXCLUDED.generated_at, report = EXCLUDED.report`,
		w.runsTable())
	if _, err := w.conn.Exec(ctx, query, r.RunID, r.GeneratedAt, string(data)); err != nil {
		return fmt.Errorf("failed to store report %s: %w", r.RunID, err)
	}
	return nil
}

// WriteAnnotations replaces any rows of the run and copies the new ones in.
// It returns the number of rows copied.
func (w *PGWriter) WriteAnnotations(ctx context.Context, a *Annotations) (int64, error) {
	del := fmt.Sprintf("DELETE FROM %s WHERE run_id = $1", w.ident("").Sanitize())
	if _, err := w.conn.Exec(ctx, del, a.RunID); err != nil {
		return 0, fmt.Errorf("failed to clear run %s: %w", a.RunID, err)
	}

	rows := make([][]any, 0, len(a.Nodes))
	for _, n := range a.Nodes {
		communities, err := json.Marshal(n.Communities)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal communities of node %d: %w", n.NodeID, err)
		}
		rows = append(rows, []any{
			a.RunID, n.NodeID, n.Degree, n.DegreeCentrality, n.Eigenvector, n.Clustering, string(communities),
		})
	}

	copied, err := w.conn.CopyFrom(ctx, w.ident(""), AnnotationColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return copied, fmt.Errorf("failed to copy annotations: %w", err)
	}
	return copied, nil
}
