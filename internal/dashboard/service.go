package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/neuraq/careadmin/internal/listing"
	"github.com/neuraq/careadmin/internal/platform/auth"
	"github.com/neuraq/careadmin/internal/platform/docstore"
	"github.com/neuraq/careadmin/internal/platform/export"
	"github.com/neuraq/careadmin/pkg/pagination"
)

var (
	ErrLoadFailed   = errors.New("load failed")
	ErrDeleteFailed = errors.New("delete failed")
)

// Service runs one screen's operations against the store.
type Service[T any] struct {
	screen Screen[T]
	store  docstore.Store
	gate   *auth.DeleteGate
}

func NewService[T any](screen Screen[T], store docstore.Store, gate *auth.DeleteGate) *Service[T] {
	return &Service[T]{screen: screen, store: store, gate: gate}
}

func (s *Service[T]) Screen() Screen[T] { return s.screen }

// Load fetches and normalizes the records the criteria can match.
func (s *Service[T]) Load(ctx context.Context, c listing.Criteria) ([]T, error) {
	docs, err := s.store.Find(ctx, s.screen.Collection, s.screen.query(c))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, s.screen.Collection, err)
	}
	records := make([]T, len(docs))
	for i, d := range docs {
		records[i] = s.screen.Normalize(d)
	}
	return records, nil
}

// View loads a snapshot and positions a view on page p.
func (s *Service[T]) View(ctx context.Context, c listing.Criteria, p pagination.Params) (*listing.View[T], error) {
	records, err := s.Load(ctx, c)
	if err != nil {
		return nil, err
	}
	v := listing.NewView(s.screen.Spec, records, p.PageSize)
	v.SetCriteria(c)
	v.GoTo(p.Page)
	return v, nil
}

// List returns page p of the records matching c.
func (s *Service[T]) List(ctx context.Context, c listing.Criteria, p pagination.Params) (listing.Page[T], error) {
	v, err := s.View(ctx, c, p)
	if err != nil {
		return listing.Page[T]{}, err
	}
	return v.Current(), nil
}

// Delete removes record id once pin passes the gate and returns the page
// the caller was on with the record gone. A wrong PIN changes nothing.
func (s *Service[T]) Delete(ctx context.Context, id, pin string, c listing.Criteria, p pagination.Params) (listing.Page[T], error) {
	if err := s.gate.Check(pin); err != nil {
		return listing.Page[T]{}, err
	}

	v, err := s.View(ctx, c, p)
	if err != nil {
		return listing.Page[T]{}, err
	}

	if err := s.store.Delete(ctx, s.screen.Collection, id); err != nil {
		return listing.Page[T]{}, fmt.Errorf("%w: %s/%s: %w", ErrDeleteFailed, s.screen.Collection, id, err)
	}
	v.Remove(id)
	return v.Current(), nil
}

// Export renders every record matching c, in display order, as a workbook.
func (s *Service[T]) Export(ctx context.Context, c listing.Criteria) ([]byte, error) {
	records, err := s.Load(ctx, c)
	if err != nil {
		return nil, err
	}
	matched := listing.Match(s.screen.Spec, records, s.screen.Spec.Resolve(c))
	return export.Workbook(s.screen.Title, s.screen.Columns, matched)
}

// FacetOptions lists the selectable values for each facet over the whole
// collection.
func (s *Service[T]) FacetOptions(ctx context.Context) (map[string][]string, error) {
	records, err := s.Load(ctx, listing.Criteria{})
	if err != nil {
		return nil, err
	}
	return s.screen.Spec.FacetOptions(records), nil
}
