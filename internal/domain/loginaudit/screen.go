package loginaudit

import (
	"time"

	"github.com/neuraq/careadmin/internal/dashboard"
	"github.com/neuraq/careadmin/internal/listing"
	"github.com/neuraq/careadmin/internal/platform/docstore"
	"github.com/neuraq/careadmin/internal/platform/export"
)

// NewScreen configures the login data list.
func NewScreen(loc *time.Location) dashboard.Screen[Entry] {
	return dashboard.Screen[Entry]{
		Name:       "logindata",
		Title:      "Login Data",
		Collection: docstore.LoginData,
		Noun:       "login data",
		Normalize:  func(d docstore.Document) Entry { return FromDocument(d, loc) },
		Spec:       Spec(loc),
		PageSize:   10,
		Columns:    Columns,
	}
}

func Spec(loc *time.Location) listing.Spec[Entry] {
	return listing.Spec[Entry]{
		ID: func(e Entry) string { return e.ID },
		Search: []func(Entry) string{
			func(e Entry) string { return e.Email },
			func(e Entry) string { return e.DeviceName },
			Entry.searchTime,
		},
		Facets: []listing.Facet[Entry]{
			{
				Name:    "role",
				Values:  func(e Entry) []string { return []string{e.Role} },
				Options: func([]Entry) []string { return []string{RoleNurse, RoleUser} },
			},
			{
				Name:   "status",
				Values: func(e Entry) []string { return []string{e.Status} },
			},
		},
		Date: Entry.loggedIn,
		Sorts: []listing.SortKey[Entry]{
			listing.TimeKey("time", Entry.loggedIn),
			listing.TextKey("email", func(e Entry) string { return e.Email }),
		},
		DefaultSort:  "time",
		DefaultOrder: listing.Desc,
		Location:     loc,
	}
}

var Columns = []export.Column[Entry]{
	{Header: "Email", Width: 32, Value: func(e Entry) any { return export.OrNA(e.Email) }},
	{Header: "Device", Width: 24, Value: func(e Entry) any { return export.OrNA(e.DeviceName) }},
	{Header: "Role", Value: func(e Entry) any { return e.Role }},
	{Header: "Patient ID", Width: 24, Value: func(e Entry) any { return export.OrNA(e.PatientID) }},
	{Header: "Logged In At", Width: 34, Value: func(e Entry) any { return e.TimeDisplay }},
	{Header: "Status", Value: func(e Entry) any { return export.OrNA(e.Status) }},
}
