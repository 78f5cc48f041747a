// Package ingest walks a directory of seed case files and upserts each into
// the vector index. Failures are contained per document: a malformed file is
// recorded and skipped, never aborting the batch.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/navworks/caseforge/internal/index"
	"github.com/navworks/caseforge/internal/seedcase"
)

// Report summarizes one ingest run.
type Report struct {
	Count  int      // entries upserted
	Errors []string // one entry per skipped document
}

// Run reads every .json file under dir, builds index entries, and upserts
// them. Running twice on an unchanged corpus leaves the index in the same
// observable state: entries are keyed by case ID and replaced in place.
func Run(ctx context.Context, dir string, ix *index.Index) (Report, error) {
	var report Report

	names, err := seedFiles(dir)
	if err != nil {
		return report, err
	}

	var entries []index.Entry
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		sc, err := seedcase.Parse(data)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		e := buildEntry(name, sc, data)
		if e.Document == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: no searchable content", name))
			continue
		}
		entries = append(entries, e)
	}

	if err := ix.Upsert(ctx, entries); err != nil {
		return report, err
	}
	report.Count = len(entries)
	return report, nil
}

// seedFiles lists the .json files in dir in stable name order.
func seedFiles(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: read seed dir: %w", err)
	}
	var names []string
	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			continue
		}
		names = append(names, d.Name())
	}
	sort.Strings(names)
	return names, nil
}

// buildEntry derives the searchable document string and scalar metadata for
// one seed case. The case ID falls back to the file stem when the header
// omits one.
func buildEntry(filename string, sc *seedcase.SeedCase, raw []byte) index.Entry {
	id := sc.CaseHeader.CaseID
	if id == "" {
		id = strings.TrimSuffix(filename, ".json")
	}

	skilled := "No"
	if sc.ClinicalLogic.SkilledNeedVerified {
		skilled = "Yes"
	}

	return index.Entry{
		ID:       id,
		Document: sc.DocumentString(),
		Metadata: index.Metadata{
			"complexity_score": index.Int(int64(sc.CaseHeader.ComplexityScore)),
			"outcome":          index.String(sc.Outcome()),
			"has_skilled_need": index.String(skilled),
			"primary_friction": index.String(sc.PrimaryFriction()),
		},
		Payload: raw,
	}
}
