package patient

import (
	"strings"
	"time"

	"github.com/neuraq/careadmin/internal/dashboard"
	"github.com/neuraq/careadmin/internal/listing"
	"github.com/neuraq/careadmin/internal/platform/docstore"
	"github.com/neuraq/careadmin/internal/platform/export"
)

func NewScreen(loc *time.Location) dashboard.Screen[Patient] {
	return dashboard.Screen[Patient]{
		Name:       "patients",
		Title:      "Patients",
		Collection: docstore.Patients,
		Noun:       "patient",
		Normalize:  func(d docstore.Document) Patient { return FromDocument(d, loc) },
		Spec:       Spec(),
		PageSize:   30,
		Columns:    Columns,
	}
}

func Spec() listing.Spec[Patient] {
	return listing.Spec[Patient]{
		ID: func(p Patient) string { return p.ID },
		Search: []func(Patient) string{
			func(p Patient) string { return p.Name },
			func(p Patient) string { return p.Address },
			func(p Patient) string { return p.MainCaretakerPhone },
			func(p Patient) string { return p.MainDiagnosis },
			func(p Patient) string { return p.RegisterNumber },
		},
		Facets: []listing.Facet[Patient]{
			{
				Name:   "diagnosis",
				Values: func(p Patient) []string { return p.Diagnoses },
			},
			{
				Name:    "status",
				Values:  func(p Patient) []string { return []string{p.Status} },
				Options: func([]Patient) []string { return []string{StatusActive, StatusInactive} },
			},
		},
		Sorts: []listing.SortKey[Patient]{
			listing.TextKey("name", func(p Patient) string { return p.Name }),
			listing.RegisterNumberKey("registernumber", func(p Patient) string { return p.RegisterNumber }),
		},
		DefaultSort:  "name",
		DefaultOrder: listing.Asc,
	}
}

var Columns = []export.Column[Patient]{
	{Header: "Register Number", Value: func(p Patient) any { return export.OrNA(p.RegisterNumber) }},
	{Header: "Name", Width: 24, Value: func(p Patient) any { return export.OrNA(p.Name) }},
	{Header: "Address", Width: 32, Value: func(p Patient) any { return export.OrNA(p.Address) }},
	{Header: "Phone", Value: func(p Patient) any { return export.OrNA(p.MainCaretakerPhone) }},
	{Header: "Diagnosis", Width: 32, Value: func(p Patient) any { return export.OrNA(strings.Join(p.Diagnoses, ", ")) }},
	{Header: "Status", Width: 10, Value: func(p Patient) any { return p.Status }},
}
