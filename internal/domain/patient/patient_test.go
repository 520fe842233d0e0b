package patient

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

func TestSplitDiagnoses(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"Cancer", []string{"Cancer"}},
		{" Cancer , CKD,, Stroke ", []string{"Cancer", "CKD", "Stroke"}},
		{" , ", []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitDiagnoses(tt.in), tt.in)
	}
}

func TestFromDocument(t *testing.T) {
	p := FromDocument(docstore.Document{ID: "p1", Data: map[string]any{
		"name":          "Amal",
		"mainDiagnosis": "Cancer, CKD",
		"deactivated":   true,
	}}, time.UTC)

	assert.Equal(t, "Amal", p.Name)
	assert.Equal(t, "", p.Address)
	assert.Equal(t, []string{"Cancer", "CKD"}, p.Diagnoses)
	assert.Equal(t, StatusInactive, p.Status)

	p = FromDocument(docstore.Document{ID: "p2", Data: map[string]any{}}, time.UTC)
	assert.Equal(t, StatusActive, p.Status)
	assert.NotNil(t, p.Diagnoses)
	assert.Empty(t, p.Diagnoses)
}

func seeded() *docstore.MemoryStore {
	s := docstore.NewMemoryStore()
	for _, d := range []docstore.Document{
		{ID: "a", Data: map[string]any{"name": "Amal", "registernumber": "12/20", "mainDiagnosis": "Cancer, CKD"}},
		{ID: "b", Data: map[string]any{"name": "Beena", "registernumber": "5/19", "mainDiagnosis": "Stroke", "deactivated": true}},
		{ID: "c", Data: map[string]any{"name": "Cibi", "registernumber": "", "mainDiagnosis": "CKD", "mainCaretakerPhone": "9847000000"}},
	} {
		s.Put(docstore.Patients, d)
	}
	return s
}

func names(ps []Patient) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestScreen_RegisterNumberSort(t *testing.T) {
	svc := dashboard.NewService(NewScreen(time.UTC), seeded(), auth.NewDeleteGate("2012"))

	page, err := svc.List(context.Background(), listing.Criteria{Sort: "registernumber"}, pagination.New(1, 30, 30))
	require.NoError(t, err)
	assert.Equal(t, []string{"Beena", "Amal", "Cibi"}, names(page.Items))

	page, err = svc.List(context.Background(), listing.Criteria{Sort: "registernumber", Order: listing.Desc}, pagination.New(1, 30, 30))
	require.NoError(t, err)
	assert.Equal(t, []string{"Amal", "Beena", "Cibi"}, names(page.Items))
}

func TestScreen_Facets(t *testing.T) {
	svc := dashboard.NewService(NewScreen(time.UTC), seeded(), auth.NewDeleteGate("2012"))
	ctx := context.Background()

	page, err := svc.List(ctx, listing.Criteria{Filters: map[string]string{"diagnosis": "ckd"}}, pagination.New(1, 30, 30))
	require.NoError(t, err)
	assert.Equal(t, []string{"Amal", "Cibi"}, names(page.Items))

	page, err = svc.List(ctx, listing.Criteria{Filters: map[string]string{"status": StatusInactive}}, pagination.New(1, 30, 30))
	require.NoError(t, err)
	assert.Equal(t, []string{"Beena"}, names(page.Items))

	page, err = svc.List(ctx, listing.Criteria{Query: "98470"}, pagination.New(1, 30, 30))
	require.NoError(t, err)
	assert.Equal(t, []string{"Cibi"}, names(page.Items))

	opts, err := svc.FacetOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "Cancer", "CKD", "Stroke"}, opts["diagnosis"])
	assert.Equal(t, []string{"All", "Active", "Inactive"}, opts["status"])
}

func TestScreen_DeleteRemovesFromStoreAndPage(t *testing.T) {
	store := seeded()
	svc := dashboard.NewService(NewScreen(time.UTC), store, auth.NewDeleteGate("2012"))

	page, err := svc.Delete(context.Background(), "b", "2012", listing.Criteria{}, pagination.New(1, 30, 30))
	require.NoError(t, err)
	assert.Equal(t, []string{"Amal", "Cibi"}, names(page.Items))

	_, err = svc.Delete(context.Background(), "a", "1234", listing.Criteria{}, pagination.New(1, 30, 30))
	assert.ErrorIs(t, err, auth.ErrPINRejected)

	n, _ := store.Count(context.Background(), docstore.Patients)
	assert.Equal(t, int64(2), n)
}

func TestScreen_Valid(t *testing.T) {
	assert.NoError(t, NewScreen(time.UTC).Validate())
}
