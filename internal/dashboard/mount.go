package dashboard

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/neuraq/careadmin/internal/listing"
)

// Mounted is a configured screen with its record type erased, so the server
// and the CLI can hold every screen in one list.
type Mounted struct {
	Name    string
	Title   string
	Filters []string
	Routes  Routes
	Export  func(ctx context.Context, c listing.Criteria) ([]byte, error)
}

// Mount builds the handler for svc and describes it.
func Mount[T any](svc *Service[T], logger zerolog.Logger) Mounted {
	s := svc.Screen()
	return Mounted{
		Name:    s.Name,
		Title:   s.Title,
		Filters: s.FilterParams(),
		Routes:  NewHandler(svc, logger),
		Export:  svc.Export,
	}
}

// Find returns the mounted screen called name.
func Find(screens []Mounted, name string) (Mounted, bool) {
	for _, m := range screens {
		if m.Name == name {
			return m, true
		}
	}
	return Mounted{}, false
}
