package patient

import (
	"strings"
	"time"

	"github.com/neuraq/careadmin/internal/platform/docstore"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Patient is a registered palliative-care patient.
type Patient struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Address            string   `json:"address"`
	RegisterNumber     string   `json:"registernumber"`
	MainCaretakerPhone string   `json:"mainCaretakerPhone"`
	MainDiagnosis      string   `json:"mainDiagnosis"`
	Diagnoses          []string `json:"diagnoses"`
	Deactivated        bool     `json:"deactivated"`
	Status             string   `json:"status"`
}

// FromDocument normalizes a Patients document.
func FromDocument(d docstore.Document, _ *time.Location) Patient {
	p := Patient{
		ID:                 d.ID,
		Name:               d.String("name"),
		Address:            d.String("address"),
		RegisterNumber:     d.String("registernumber"),
		MainCaretakerPhone: d.String("mainCaretakerPhone"),
		MainDiagnosis:      d.String("mainDiagnosis"),
		Deactivated:        d.Bool("deactivated"),
	}
	p.Diagnoses = SplitDiagnoses(p.MainDiagnosis)
	p.Status = StatusActive
	if p.Deactivated {
		p.Status = StatusInactive
	}
	return p
}

// SplitDiagnoses splits a comma-joined diagnosis list. Entries are trimmed
// and empty ones dropped; the result is never nil.
func SplitDiagnoses(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
