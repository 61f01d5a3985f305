package query

import (
	"slices"
	"sort"
	"sync"
)

type TraceEventKind string

const (
	TraceEventSearchedDocumentIDs TraceEventKind = "searched_document_ids"
	TraceEventDegradedSearch      TraceEventKind = "degraded_search"
	TraceEventQueriedEntityIDs    TraceEventKind = "queried_entity_ids"
)

// TraceEvent is an extensible event envelope for query tracing.
// Additive changes to this struct are backward compatible for implementers.
type TraceEvent struct {
	Kind TraceEventKind

	DocumentIDs []int64
	EntityIDs   []string
	Error       string
}

// Tracer is a sink for query tracing events.
//
// Implementers can forward events to logs, telemetry, or custom
// post-processing pipelines. It lets callers tell "empty because nothing
// matched" apart from "empty because a search was skipped after a failure".
type Tracer interface {
	Record(event TraceEvent)
}

func RecordSearchedDocumentIDs(t Tracer, ids ...int64) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventSearchedDocumentIDs, DocumentIDs: ids})
}

func RecordDegradedSearch(t Tracer, documentID int64, err error) {
	if t == nil {
		return
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	t.Record(TraceEvent{Kind: TraceEventDegradedSearch, DocumentIDs: []int64{documentID}, Error: msg})
}

func RecordQueriedEntityIDs(t Tracer, ids ...string) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventQueriedEntityIDs, EntityIDs: ids})
}

// QueryTrace collects which documents were searched, which were skipped
// after a failed search, and which entities fed the graph context of one
// query run.
//
// QueryTrace is safe for concurrent use.
type QueryTrace struct {
	mu sync.Mutex

	searchedDocumentIDs map[int64]struct{}
	degradedDocumentIDs map[int64]struct{}
	queriedEntityIDs    map[string]struct{}
}

type QueryTraceSnapshot struct {
	SearchedDocumentIDs []int64
	DegradedDocumentIDs []int64
	QueriedEntityIDs    []string
}

func NewQueryTrace() *QueryTrace {
	return &QueryTrace{
		searchedDocumentIDs: make(map[int64]struct{}),
		degradedDocumentIDs: make(map[int64]struct{}),
		queriedEntityIDs:    make(map[string]struct{}),
	}
}

func (t *QueryTrace) Record(event TraceEvent) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch event.Kind {
	case TraceEventSearchedDocumentIDs:
		for _, id := range event.DocumentIDs {
			if id == 0 {
				continue
			}
			t.searchedDocumentIDs[id] = struct{}{}
		}
	case TraceEventDegradedSearch:
		for _, id := range event.DocumentIDs {
			if id == 0 {
				continue
			}
			t.degradedDocumentIDs[id] = struct{}{}
		}
	case TraceEventQueriedEntityIDs:
		for _, id := range event.EntityIDs {
			if id == "" {
				continue
			}
			t.queriedEntityIDs[id] = struct{}{}
		}
	default:
		return
	}
}

func (t *QueryTrace) Snapshot() QueryTraceSnapshot {
	if t == nil {
		return QueryTraceSnapshot{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := QueryTraceSnapshot{
		SearchedDocumentIDs: make([]int64, 0, len(t.searchedDocumentIDs)),
		DegradedDocumentIDs: make([]int64, 0, len(t.degradedDocumentIDs)),
		QueriedEntityIDs:    make([]string, 0, len(t.queriedEntityIDs)),
	}

	for id := range t.searchedDocumentIDs {
		s.SearchedDocumentIDs = append(s.SearchedDocumentIDs, id)
	}
	for id := range t.degradedDocumentIDs {
		s.DegradedDocumentIDs = append(s.DegradedDocumentIDs, id)
	}
	for id := range t.queriedEntityIDs {
		s.QueriedEntityIDs = append(s.QueriedEntityIDs, id)
	}

	slices.Sort(s.SearchedDocumentIDs)
	slices.Sort(s.DegradedDocumentIDs)
	sort.Strings(s.QueriedEntityIDs)

	return s
}
