package loginaudit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuraq/careadmin/internal/dashboard"
	"github.com/neuraq/careadmin/internal/listing"
	"github.com/neuraq/careadmin/internal/platform/auth"
	"github.com/neuraq/careadmin/internal/platform/docstore"
	"github.com/neuraq/careadmin/pkg/pagination"
)

func TestFromDocument(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	e := FromDocument(docstore.Document{ID: "l1", Data: map[string]any{
		"email":      "a@x.org",
		"deviceName": "Pixel 7",
		"isNurse":    true,
		"time":       "2024-03-05T08:30:15Z",
		"status":     "green",
	}}, loc)

	assert.Equal(t, RoleNurse, e.Role)
	assert.True(t, e.Healthy())
	require.NotNil(t, e.Time)
	assert.Equal(t, "March 5, 2024 at 2:00:15 PM IST", e.TimeDisplay)

	missing := FromDocument(docstore.Document{ID: "l2", Data: map[string]any{"time": "yesterday"}}, loc)
	assert.Nil(t, missing.Time)
	assert.Equal(t, "N/A", missing.TimeDisplay)
	assert.Equal(t, RoleUser, missing.Role)
	assert.False(t, missing.Healthy())
}

func seeded() *docstore.MemoryStore {
	s := docstore.NewMemoryStore()
	s.Put(docstore.LoginData, docstore.Document{ID: "1", Data: map[string]any{"email": "b@x.org", "deviceName": "iPhone", "time": "2024-01-02T10:00:00Z", "status": "green"}})
	s.Put(docstore.LoginData, docstore.Document{ID: "2", Data: map[string]any{"email": "a@x.org", "deviceName": "Pixel", "isNurse": true, "time": "2024-01-05T10:00:00Z", "status": "red"}})
	s.Put(docstore.LoginData, docstore.Document{ID: "3", Data: map[string]any{"email": "c@x.org", "deviceName": "Galaxy"}})
	s.Put(docstore.LoginData, docstore.Document{ID: "4", Data: map[string]any{"email": "d@x.org", "deviceName": "Pixel", "time": "2024-01-03T10:00:00Z", "status": "green"}})
	return s
}

func ids(es []Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func TestScreen_DefaultOrderNewestFirst(t *testing.T) {
	svc := dashboard.NewService(NewScreen(time.UTC), seeded(), auth.NewDeleteGate("2012"))
	page, err := svc.List(context.Background(), listing.Criteria{}, pagination.New(1, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "1", "3"}, ids(page.Items))
}

func TestScreen_SearchAndFacets(t *testing.T) {
	svc := dashboard.NewService(NewScreen(time.UTC), seeded(), auth.NewDeleteGate("2012"))
	ctx := context.Background()
	p := pagination.New(1, 10, 10)

	tests := []struct {
		name string
		c    listing.Criteria
		want []string
	}{
		{"device", listing.Criteria{Query: "pixel"}, []string{"2", "4"}},
		{"formatted time", listing.Criteria{Query: "january 3, 2024"}, []string{"4"}},
		{"role", listing.Criteria{Filters: map[string]string{"role": "Nurse"}}, []string{"2"}},
		{"status", listing.Criteria{Filters: map[string]string{"status": "green"}}, []string{"4", "1"}},
		{"date range drops unknown times", listing.Criteria{From: &listing.Day{Year: 2024, Month: time.January, Day: 1}}, []string{"2", "4", "1"}},
		{"email asc", listing.Criteria{Sort: "email", Order: listing.Asc}, []string{"2", "1", "3", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(ctx, tt.c, p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page.Items))
		})
	}
}

func TestScreen_FacetOptions(t *testing.T) {
	svc := dashboard.NewService(NewScreen(time.UTC), seeded(), auth.NewDeleteGate("2012"))
	opts, err := svc.FacetOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{listing.All, RoleNurse, RoleUser}, opts["role"])
	assert.ElementsMatch(t, []string{listing.All, "green", "red"}, opts["status"])
}

func TestScreen_Delete(t *testing.T) {
	svc := dashboard.NewService(NewScreen(time.UTC), seeded(), auth.NewDeleteGate("2012"))
	ctx := context.Background()
	p := pagination.New(1, 10, 10)

	page, err := svc.Delete(ctx, "4", "2012", listing.Criteria{}, p)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1", "3"}, ids(page.Items))

	_, err = svc.Delete(ctx, "4", "2012", listing.Criteria{}, p)
	assert.ErrorIs(t, err, dashboard.ErrDeleteFailed)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}
