package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dalemusser/terragon/internal/app/store/docstore"
	"go.mongodb.org/mongo-driver/bson"
)

// MemCollection is an in-memory docstore.Client with the same revision rules
// as the Mongo-backed collection. Errors can be injected per operation.
type MemCollection[T any, PT interface {
	*T
	docstore.Document
}] struct {
	mu   sync.Mutex
	name string
	docs map[string]T

	getErr    error
	findErr   error
	upsertErr error
	probeErr  error
	upserts   int
}

// NewMemCollection returns an empty in-memory collection.
func NewMemCollection[T any, PT interface {
	*T
	docstore.Document
}](name string) *MemCollection[T, PT] {
	return &MemCollection[T, PT]{name: name, docs: map[string]T{}}
}

func (m *MemCollection[T, PT]) Name() string { return m.name }

func (m *MemCollection[T, PT]) Get(ctx context.Context, key string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	doc, ok := m.docs[key]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return &doc, nil
}

// Find matches top-level fields by equality of their BSON values.
func (m *MemCollection[T, PT]) Find(ctx context.Context, selector bson.M) ([]*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findErr != nil {
		return nil, m.findErr
	}

	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []*T
	for _, k := range keys {
		doc := m.docs[k]
		ok, err := matches(&doc, selector)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, &doc)
		}
	}
	return out, nil
}

func (m *MemCollection[T, PT]) Upsert(ctx context.Context, doc *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upsertErr != nil {
		return nil, m.upsertErr
	}

	saved := *doc
	sp := PT(&saved)
	prev := sp.DocRev()

	cur, exists := m.docs[sp.DocID()]
	switch {
	case prev == "" && exists:
		return nil, docstore.ErrConflict
	case prev != "" && (!exists || PT(&cur).DocRev() != prev):
		return nil, docstore.ErrConflict
	}

	sp.SetDocRev(docstore.NextRev(prev))
	m.docs[sp.DocID()] = saved
	m.upserts++

	out := saved
	return &out, nil
}

func (m *MemCollection[T, PT]) Probe(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probeErr
}

// Put stores doc directly, assigning a first revision when it has none.
func (m *MemCollection[T, PT]) Put(doc *T) *T {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *doc
	sp := PT(&saved)
	if sp.DocRev() == "" {
		sp.SetDocRev(docstore.NextRev(""))
	}
	m.docs[sp.DocID()] = saved
	out := saved
	return &out
}

// Len returns the number of stored documents.
func (m *MemCollection[T, PT]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

// All returns every stored document ordered by key.
func (m *MemCollection[T, PT]) All() []*T {
	out, _ := m.Find(context.Background(), bson.M{})
	return out
}

// Upserts returns how many upserts succeeded.
func (m *MemCollection[T, PT]) Upserts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts
}

func (m *MemCollection[T, PT]) FailGet(err error) {
	m.mu.Lock()
	m.getErr = err
	m.mu.Unlock()
}

func (m *MemCollection[T, PT]) FailFind(err error) {
	m.mu.Lock()
	m.findErr = err
	m.mu.Unlock()
}

func (m *MemCollection[T, PT]) FailUpsert(err error) {
	m.mu.Lock()
	m.upsertErr = err
	m.mu.Unlock()
}

func (m *MemCollection[T, PT]) FailProbe(err error) {
	m.mu.Lock()
	m.probeErr = err
	m.mu.Unlock()
}

func matches(doc any, selector bson.M) (bool, error) {
	if len(selector) == 0 {
		return true, nil
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return false, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return false, err
	}
	for k, want := range selector {
		got, ok := fields[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false, nil
		}
	}
	return true, nil
}
