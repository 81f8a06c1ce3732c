package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-memory Store with the same semantics as the MongoDB
// implementation. It backs tests and local development runs where no
// database is reachable.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

type memCollection struct {
	docs  map[string]bson.Raw
	order []string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memCollection)}
}

func (s *MemoryStore) collection(name string) *memCollection {
	col, ok := s.collections[name]
	if !ok {
		col = &memCollection{docs: make(map[string]bson.Raw)}
		s.collections[name] = col
	}
	return col
}

func (s *MemoryStore) List(ctx context.Context, collection string, opts ListOptions, out interface{}) error {
	s.mu.RLock()
	var raws []bson.Raw
	if col, ok := s.collections[collection]; ok {
		for _, id := range col.order {
			raws = append(raws, col.docs[id])
		}
	}
	s.mu.RUnlock()

	type match struct {
		raw bson.Raw
		doc bson.M
	}
	var matched []match
	for _, raw := range raws {
		var doc bson.M
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return err
		}
		if !matchesFilter(doc, opts.Filter) {
			continue
		}
		matched = append(matched, match{raw: raw, doc: doc})
	}

	if opts.SortField != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			a := matched[i].doc[opts.SortField]
			b := matched[j].doc[opts.SortField]
			if opts.SortDesc {
				return lessValue(b, a)
			}
			return lessValue(a, b)
		})
	}

	sorted := make([]bson.Raw, 0, len(matched))
	for _, m := range matched {
		sorted = append(sorted, m.raw)
	}
	return decodeAll(sorted, out)
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collection]
	if !ok {
		return ErrNotFound
	}
	raw, ok := col.docs[id]
	if !ok {
		return ErrNotFound
	}
	return bson.Unmarshal(raw, out)
}

func (s *MemoryStore) Create(ctx context.Context, collection string, doc interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	id, ok := bson.Raw(raw).Lookup("_id").StringValueOK()
	if !ok || id == "" {
		return ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collection(collection)
	if _, exists := col.docs[id]; exists {
		return fmt.Errorf("duplicate _id %q in %s", id, collection)
	}
	col.docs[id] = raw
	col.order = append(col.order, id)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collection]
	if !ok {
		return ErrNotFound
	}
	raw, ok := col.docs[id]
	if !ok {
		return ErrNotFound
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	updated, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	col.docs[id] = updated
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collection]
	if !ok {
		return ErrNotFound
	}
	if _, ok := col.docs[id]; !ok {
		return ErrNotFound
	}
	delete(col.docs, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string, filter map[string]interface{}) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collection]
	if !ok {
		return 0, nil
	}
	var n int64
	for _, raw := range col.docs {
		var doc bson.M
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return 0, err
		}
		if matchesFilter(doc, filter) {
			n++
		}
	}
	return n, nil
}

func matchesFilter(doc bson.M, filter map[string]interface{}) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// lessValue compares the handful of field types the store sorts on.
func lessValue(a, b interface{}) bool {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return av < bv
	case primitive.DateTime:
		bv, _ := b.(primitive.DateTime)
		return av < bv
	case int32:
		bv, _ := b.(int32)
		return av < bv
	case int64:
		bv, _ := b.(int64)
		return av < bv
	case float64:
		bv, _ := b.(float64)
		return av < bv
	}
	return false
}

// decodeAll unmarshals raw documents into out, which must be a pointer to a
// slice (mirrors mongo's cursor.All contract).
func decodeAll(raws []bson.Raw, out interface{}) error {
	outv := reflect.ValueOf(out)
	if outv.Kind() != reflect.Ptr || outv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("out must be a pointer to a slice, got %T", out)
	}

	elemType := outv.Elem().Type().Elem()
	slicev := reflect.MakeSlice(outv.Elem().Type(), 0, len(raws))
	for _, raw := range raws {
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		slicev = reflect.Append(slicev, elem.Elem())
	}
	outv.Elem().Set(slicev)
	return nil
}
