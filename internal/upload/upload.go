// Package upload hands validated synthetic cases to the downstream Postgres
// store. The handoff is one multi-row insert into synthetic_cases, not a
// streamed write.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/navworks/caseforge/internal/schema"
)

// Store wraps the downstream database connection.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database and verifies the connection.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("upload: connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("upload: ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// LoadDir reads every synthetic case file under dir, in sorted filename
// order, and builds the rows to insert. Labels are assigned positionally
// (Case_1, Case_2, ...) so annotation sessions have stable case references.
func LoadDir(dir, batchID string) ([]schema.CaseRecord, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("upload: read case dir: %w", err)
	}
	var names []string
	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			continue
		}
		names = append(names, d.Name())
	}
	sort.Strings(names)

	records := make([]schema.CaseRecord, 0, len(names))
	for i, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("upload: read %s: %w", name, err)
		}
		var sc schema.SyntheticCase
		if err := json.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("upload: parse %s: %w", name, err)
		}
		records = append(records, schema.CaseRecord{
			BatchID:           batchID,
			Label:             fmt.Sprintf("Case_%d", i+1),
			NarrativeSummary:  sc.NarrativeSummary,
			Format1StateLog:   sc.Format1StateLog,
			Format2Triples:    sc.Format2Triples,
			Format3RLScenario: sc.Format3RLScenario,
		})
	}
	return records, nil
}

// InsertCases writes all records in a single multi-row insert and returns
// the number of rows written.
func (s *Store) InsertCases(ctx context.Context, records []schema.CaseRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	query, args, err := buildInsert(records)
	if err != nil {
		return 0, err
	}
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("upload: insert cases: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// buildInsert renders the multi-row INSERT statement and its arguments. The
// three format arrays are bound as serialized JSON for the jsonb columns.
func buildInsert(records []schema.CaseRecord) (string, []any, error) {
	const cols = 6
	var sb strings.Builder
	sb.WriteString("INSERT INTO synthetic_cases (batch_id, label, narrative_summary, format_1_state_log, format_2_triples, format_3_rl_scenario) VALUES ")

	args := make([]any, 0, len(records)*cols)
	for i, r := range records {
		f1, err := json.Marshal(r.Format1StateLog)
		if err != nil {
			return "", nil, fmt.Errorf("upload: marshal %s state log: %w", r.Label, err)
		}
		f2, err := json.Marshal(r.Format2Triples)
		if err != nil {
			return "", nil, fmt.Errorf("upload: marshal %s triples: %w", r.Label, err)
		}
		f3, err := json.Marshal(r.Format3RLScenario)
		if err != nil {
			return "", nil, fmt.Errorf("upload: marshal %s rl scenario: %w", r.Label, err)
		}

		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * cols
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, r.BatchID, r.Label, r.NarrativeSummary, string(f1), string(f2), string(f3))
	}
	return sb.String(), args, nil
}
