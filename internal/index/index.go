// Package index wraps the persistent vector store the pipeline retrieves
// seed cases from. Entries are keyed by case ID, so upserts are idempotent:
// re-ingesting an unchanged corpus leaves the collection in the same state.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	chromem "github.com/philippgille/chromem-go"
)

// ScalarKind tags the type held by a Scalar.
type ScalarKind int

const (
	KindInt ScalarKind = iota
	KindFloat
	KindString
)

// Scalar is a tagged union over the only value types the index accepts as
// metadata: int, float, and string. Nested structures never reach the store;
// constructing a Scalar is the validation.
type Scalar struct {
	Kind ScalarKind
	I    int64
	F    float64
	S    string
}

// Int returns an integer metadata value.
func Int(v int64) Scalar { return Scalar{Kind: KindInt, I: v} }

// Float returns a float metadata value.
func Float(v float64) Scalar { return Scalar{Kind: KindFloat, F: v} }

// String returns a string metadata value.
func String(v string) Scalar { return Scalar{Kind: KindString, S: v} }

// Render serializes the scalar to the store's string representation.
func (s Scalar) Render() string {
	switch s.Kind {
	case KindInt:
		return strconv.FormatInt(s.I, 10)
	case KindFloat:
		return strconv.FormatFloat(s.F, 'g', -1, 64)
	default:
		return s.S
	}
}

// Metadata is the scalar-only metadata record attached to an entry.
type Metadata map[string]Scalar

// Entry is one indexed seed case: the searchable document string, the scalar
// metadata, and the full original payload retained for retrieval.
type Entry struct {
	ID       string
	Document string
	Metadata Metadata
	Payload  []byte
}

// payloadKey is the reserved metadata key carrying the serialized original
// document.
const payloadKey = "raw_json"

// complexityKey is the metadata key the retrieval filter reads.
const complexityKey = "complexity_score"

// Index is a handle on one named collection of the vector store. It is
// opened read-write for the duration of an ingest or retrieval call; the
// store serializes its own writes.
type Index struct {
	col *chromem.Collection
}

// Open opens (or creates) a persistent collection at path. The embedding
// function turns document strings into vectors; pass GeminiEmbedding for
// production use or a deterministic stub in tests.
func Open(path, collection string, embed chromem.EmbeddingFunc) (*Index, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("index: open store at %s: %w", path, err)
	}
	col, err := db.GetOrCreateCollection(collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("index: collection %q: %w", collection, err)
	}
	return &Index{col: col}, nil
}

// OpenMemory opens an in-memory collection. Used by tests; the persistence
// layer is the only difference from Open.
func OpenMemory(collection string, embed chromem.EmbeddingFunc) (*Index, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("index: collection %q: %w", collection, err)
	}
	return &Index{col: col}, nil
}

// Upsert writes entries keyed by case ID, replacing any prior entry with the
// same ID.
func (ix *Index) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("index: entry with empty ID")
		}
		meta := make(map[string]string, len(e.Metadata)+1)
		for k, v := range e.Metadata {
			meta[k] = v.Render()
		}
		meta[payloadKey] = string(e.Payload)
		docs = append(docs, chromem.Document{
			ID:       e.ID,
			Metadata: meta,
			Content:  e.Document,
		})
	}
	if err := ix.col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("index: upsert: %w", err)
	}
	return nil
}

// Count reports the number of entries in the collection.
func (ix *Index) Count() int {
	return ix.col.Count()
}

// Retrieve returns up to n original payloads ordered by descending semantic
// similarity to query, keeping only entries with complexity_score >=
// minComplexity. Fewer than n matches returns however many exist; an empty
// corpus returns nil. Entries whose stored payload no longer deserializes
// are skipped rather than surfaced as errors, so one bad exemplar cannot
// fail a generation attempt.
//
// The store's native metadata filter is equality-only, so the >= predicate
// is applied here after querying the full collection. Seed corpora are
// small; the over-fetch is cheap.
func (ix *Index) Retrieve(ctx context.Context, query string, minComplexity, n int) ([]json.RawMessage, error) {
	if n <= 0 {
		return nil, nil
	}
	total := ix.col.Count()
	if total == 0 {
		return nil, nil
	}

	results, err := ix.col.Query(ctx, query, total, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("index: query: %w", err)
	}

	var payloads []json.RawMessage
	for _, r := range results {
		score, err := strconv.Atoi(r.Metadata[complexityKey])
		if err != nil || score < minComplexity {
			continue
		}
		raw := r.Metadata[payloadKey]
		if raw == "" || !json.Valid([]byte(raw)) {
			continue
		}
		payloads = append(payloads, json.RawMessage(raw))
		if len(payloads) == n {
			break
		}
	}
	return payloads, nil
}
