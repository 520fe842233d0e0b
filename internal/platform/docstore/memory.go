package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps collections in process, in insertion order. It backs
// tests and STORE_BACKEND=memory.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Document)}
}

// Put stores doc, replacing any document with the same id.
func (s *MemoryStore) Put(collection string, doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i := range docs {
		if docs[i].ID == doc.ID {
			docs[i] = Document{ID: doc.ID, Data: cloneData(doc.Data)}
			return
		}
	}
	s.collections[collection] = append(docs, Document{ID: doc.ID, Data: cloneData(doc.Data)})
}

func (s *MemoryStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for _, d := range s.collections[collection] {
		if q.Matches(d.Data) {
			out = append(out, Document{ID: d.ID, Data: cloneData(d.Data)})
		}
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i := range docs {
		if docs[i].ID == id {
			s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %s/%s: %w", collection, id, ErrNotFound)
}

func (s *MemoryStore) Count(ctx context.Context, collection string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.collections[collection])), nil
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.New().String()
	s.Put(collection, Document{ID: id, Data: data})
	return id, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close(context.Context) error { return nil }

// LoadSeedFile fills the store from a JSON object of the form
// {"Patients": [{"id": "p1", "name": "..."}], ...}. The id is taken from "id"
// or "_id" and removed from the data; documents without one get a uuid.
func (s *MemoryStore) LoadSeedFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var seed map[string][]map[string]any
	if err := json.Unmarshal(raw, &seed); err != nil {
		return 0, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	n := 0
	for collection, docs := range seed {
		for _, data := range docs {
			id := seedID(data)
			delete(data, "id")
			delete(data, "_id")
			s.Put(collection, Document{ID: id, Data: data})
			n++
		}
	}
	return n, nil
}

func seedID(data map[string]any) string {
	for _, key := range []string{"id", "_id"} {
		if v, ok := data[key].(string); ok && v != "" {
			return v
		}
	}
	return uuid.New().String()
}

// cloneData copies the top level so callers cannot mutate stored documents.
func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
