package account

import (
	"time"

	"github.com/neuraq/careadmin/internal/dashboard"
	"github.com/neuraq/careadmin/internal/listing"
	"github.com/neuraq/careadmin/internal/platform/docstore"
	"github.com/neuraq/careadmin/internal/platform/export"
)

func NewScreen(loc *time.Location) dashboard.Screen[Account] {
	return dashboard.Screen[Account]{
		Name:       "users",
		Title:      "Users",
		Collection: docstore.Users,
		Noun:       "user",
		Normalize:  func(d docstore.Document) Account { return FromDocument(d, loc) },
		Spec:       Spec(),
		PageSize:   10,
		Columns:    Columns,
	}
}

func Spec() listing.Spec[Account] {
	return listing.Spec[Account]{
		ID: func(a Account) string { return a.ID },
		Search: []func(Account) string{
			func(a Account) string { return a.Email },
			func(a Account) string { return a.PatientID },
			Account.nurseText,
		},
		Facets: []listing.Facet[Account]{{
			Name:    "role",
			Values:  func(a Account) []string { return []string{a.Role} },
			Options: func([]Account) []string { return []string{RoleNurse, RoleUser} },
		}},
		Sorts: []listing.SortKey[Account]{
			listing.TextKey("email", func(a Account) string { return a.Email }),
			listing.TextKey("patientId", func(a Account) string { return a.PatientID }),
		},
		DefaultSort:  "email",
		DefaultOrder: listing.Asc,
	}
}

var Columns = []export.Column[Account]{
	{Header: "Email", Width: 32, Value: func(a Account) any { return export.OrNA(a.Email) }},
	{Header: "Patient ID", Width: 24, Value: func(a Account) any { return export.OrNA(a.PatientID) }},
	{Header: "Is Nurse", Width: 10, Value: func(a Account) any {
		if a.IsNurse {
			return "Yes"
		}
		return "No"
	}},
}
