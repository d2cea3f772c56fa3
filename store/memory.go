package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"

	"kirana/utils"
)

// Memory is an in-process Store used by tests and local development. It
// keeps documents as JSON-shaped field maps, so the same tagged structs
// round-trip through it and through Mongo identically.
type Memory struct {
	mu       sync.Mutex
	data     map[string]map[string]Fields
	notifier Notifier

	// BatchDeleteErr and AddErr, when set, make the matching operation
	// fail without touching any document. Lets tests exercise the
	// checkout sequence's partial-failure contract deterministically.
	BatchDeleteErr error
	AddErr         error
}

func NewMemory(n Notifier) *Memory {
	return &Memory{
		data:     make(map[string]map[string]Fields),
		notifier: n,
	}
}

func (m *Memory) notify(collection string) {
	if m.notifier != nil {
		m.notifier.Notify(collection)
	}
}

func (m *Memory) bucket(collection string) map[string]Fields {
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]Fields)
	}
	return m.data[collection]
}

func toFields(doc interface{}) (Fields, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var f Fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return f, nil
}

func (m *Memory) Add(ctx context.Context, collection string, doc interface{}) (string, error) {
	f, err := toFields(doc)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	if err := m.AddErr; err != nil {
		m.mu.Unlock()
		return "", err
	}
	id := utils.GenerateRandomString(20)
	m.bucket(collection)[id] = f
	m.mu.Unlock()

	m.notify(collection)
	return id, nil
}

func (m *Memory) Set(ctx context.Context, collection, id string, doc interface{}) error {
	f, err := toFields(doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.bucket(collection)[id] = f
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields Fields) error {
	m.mu.Lock()
	doc, ok := m.bucket(collection)[id]
	if ok {
		for k, v := range fields {
			doc[k] = v
		}
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	m.notify(collection)
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	delete(m.bucket(collection), id)
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *Memory) BatchDelete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	m.mu.Lock()
	if err := m.BatchDeleteErr; err != nil {
		m.mu.Unlock()
		return err
	}
	b := m.bucket(collection)
	for _, id := range ids {
		delete(b, id)
	}
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *Memory) Get(ctx context.Context, collection string, q Query, out interface{}) error {
	m.mu.Lock()
	var docs []Fields
	for _, doc := range m.bucket(collection) {
		if matches(doc, q.Filter) {
			docs = append(docs, doc)
		}
	}
	m.mu.Unlock()

	if q.SortField != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			if q.SortDesc {
				return less(docs[j][q.SortField], docs[i][q.SortField])
			}
			return less(docs[i][q.SortField], docs[j][q.SortField])
		})
	}

	raw, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (m *Memory) Count(ctx context.Context, collection string) (int64, error) {
	m.mu.Lock()
	n := len(m.bucket(collection))
	m.mu.Unlock()
	return int64(n), nil
}

// Len reports how many documents match a filter; test helper.
func (m *Memory) Len(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bucket(collection))
}

// Doc returns a stored document by id; test helper.
func (m *Memory) Doc(collection, id string) (Fields, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.bucket(collection)[id]
	return f, ok
}

func matches(doc Fields, filter Fields) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !jsonEqual(got, want) {
			return false
		}
	}
	return true
}

// jsonEqual compares values by their JSON form, which erases the
// int/float64 mismatch between Go literals and decoded documents.
func jsonEqual(a, b interface{}) bool {
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

func less(a, b interface{}) bool {
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	case string:
		// RFC 3339 timestamps sort correctly as strings.
		if bv, ok := b.(string); ok {
			return av < bv
		}
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	return string(ja) < string(jb)
}
