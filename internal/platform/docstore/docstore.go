// Package docstore is the document database client used by every screen. It
// exposes the small query surface the dashboard needs (whole-collection
// reads narrowed by equality and prefix-range predicates, delete by id,
// counts, inserts) over MongoDB, PostgreSQL JSONB, or memory.
package docstore

import (
	"context"
	"errors"
	"fmt"
)

// Collection names as stored.
const (
	Reports   = "Reports"
	Patients  = "Patients"
	Users     = "users"
	LoginData = "logindata"
)

// HighSentinel closes a prefix range: every string starting with p sorts
// between p and p+HighSentinel.
const HighSentinel = "\uf8ff"

var ErrNotFound = errors.New("document not found")

// Document is one stored record with loosely-typed fields.
type Document struct {
	ID   string
	Data map[string]any
}

type Op int

const (
	OpEqual Op = iota
	OpPrefix
)

func (o Op) String() string {
	switch o {
	case OpEqual:
		return "eq"
	case OpPrefix:
		return "prefix"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Predicate constrains one top-level string field.
type Predicate struct {
	Field string
	Op    Op
	Value string
}

func Equal(field, value string) Predicate {
	return Predicate{Field: field, Op: OpEqual, Value: value}
}

func Prefix(field, value string) Predicate {
	return Predicate{Field: field, Op: OpPrefix, Value: value}
}

// Range returns the inclusive bounds of a prefix predicate.
func (p Predicate) Range() (lo, hi string) {
	return p.Value, p.Value + HighSentinel
}

// Query is a conjunction of predicates. The zero Query matches everything.
type Query struct {
	Predicates []Predicate
}

func (q Query) Where(p ...Predicate) Query {
	out := Query{Predicates: make([]Predicate, 0, len(q.Predicates)+len(p))}
	out.Predicates = append(out.Predicates, q.Predicates...)
	out.Predicates = append(out.Predicates, p...)
	return out
}

func (q Query) Empty() bool { return len(q.Predicates) == 0 }

// Matches evaluates the query against a document in process, with the same
// byte-wise string ordering the database backends use.
func (q Query) Matches(data map[string]any) bool {
	for _, p := range q.Predicates {
		raw, ok := data[p.Field]
		if !ok || raw == nil {
			return false
		}
		s, ok := raw.(string)
		if !ok {
			s = fmt.Sprint(raw)
		}
		switch p.Op {
		case OpEqual:
			if s != p.Value {
				return false
			}
		case OpPrefix:
			lo, hi := p.Range()
			if s < lo || s > hi {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Store is the document database. Find returns documents in storage order.
// Delete returns ErrNotFound when no document has the id.
type Store interface {
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string) (int64, error)
	Insert(ctx context.Context, collection string, data map[string]any) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
