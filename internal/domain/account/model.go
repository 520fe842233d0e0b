package account

import (
	"strconv"
	"time"

	"github.com/neuraq/careadmin/internal/platform/docstore"
)

const (
	RoleNurse = "Nurse"
	RoleUser  = "User"
)

// Account is a mobile-app login. The stored password is never loaded.
type Account struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	PatientID string `json:"patientId"`
	IsNurse   bool   `json:"is_nurse"`
	Role      string `json:"role"`
}

func FromDocument(d docstore.Document, _ *time.Location) Account {
	a := Account{
		ID:        d.ID,
		Email:     d.String("email"),
		PatientID: d.String("patientId"),
		IsNurse:   d.Bool("is_nurse"),
	}
	a.Role = roleOf(a.IsNurse)
	return a
}

func roleOf(nurse bool) string {
	if nurse {
		return RoleNurse
	}
	return RoleUser
}

// nurseText is what free-text search sees for is_nurse: "true" or "false".
func (a Account) nurseText() string {
	return strconv.FormatBool(a.IsNurse)
}
