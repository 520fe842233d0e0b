package report

import (
	"time"

	"github.com/neuraq/careadmin/internal/platform/docstore"
)

// Form types submitted by the field app. Other values are kept verbatim.
const (
	FormNHC           = "NHC"
	FormNHCE          = "NHC(E)"
	FormDHC           = "DHC"
	FormProgression   = "PROGRESSION REPORT"
	FormSocial        = "SOCIAL REPORT"
	FormVHC           = "VHC"
	FormGVHC          = "GVHC"
	FormInvestigation = "INVESTIGATION"
	FormDeath         = "DEATH"
)

// FormTypes lists the known form types in menu order.
var FormTypes = []string{
	FormNHC, FormNHCE, FormDHC, FormProgression, FormSocial,
	FormVHC, FormGVHC, FormInvestigation, FormDeath,
}

// DisplayLayout renders submission times the way the reports table does.
const DisplayLayout = "Mon, Jan 2, 2006, 3:04:05 PM"

// Report is a submitted form. Only the fields the listing uses are kept.
type Report struct {
	ID          string     `json:"id"`
	FormType    string     `json:"formType"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	SubmittedAt *time.Time `json:"submittedAt"`
	// Submitted is the display form of SubmittedAt, or "N/A".
	Submitted string `json:"submitted"`
}

// FromDocument normalizes a Reports document. Unparsable submission times
// leave SubmittedAt nil.
func FromDocument(d docstore.Document, loc *time.Location) Report {
	r := Report{
		ID:        d.ID,
		FormType:  d.String("formType"),
		Name:      d.String("name"),
		Address:   d.String("address"),
		Submitted: "N/A",
	}
	if t, ok := d.Time("submittedAt", loc); ok {
		t = t.In(loc)
		r.SubmittedAt = &t
		r.Submitted = t.Format(DisplayLayout)
	}
	return r
}

func (r Report) submitted() (time.Time, bool) {
	if r.SubmittedAt == nil {
		return time.Time{}, false
	}
	return *r.SubmittedAt, true
}
