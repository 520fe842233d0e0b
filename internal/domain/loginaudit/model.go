package loginaudit

import (
	"time"

	"github.com/neuraq/careadmin/internal/platform/docstore"
)

const (
	RoleNurse = "Nurse"
	RoleUser  = "User"
)

// StatusGreen marks a healthy session report from the device.
const StatusGreen = "green"

// DisplayLayout renders login times the way the login table does.
const DisplayLayout = "January 2, 2006 at 3:04:05 PM MST"

// Entry is one recorded app login.
type Entry struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	DeviceName string     `json:"deviceName"`
	IsNurse    bool       `json:"isNurse"`
	Role       string     `json:"role"`
	PatientID  string     `json:"patientId"`
	Time       *time.Time `json:"time"`
	// TimeDisplay is Time formatted with DisplayLayout, or "N/A".
	TimeDisplay string `json:"timeDisplay"`
	Status      string `json:"status"`
}

// FromDocument normalizes a logindata document. Login times are shown in loc.
func FromDocument(d docstore.Document, loc *time.Location) Entry {
	e := Entry{
		ID:          d.ID,
		Email:       d.String("email"),
		DeviceName:  d.String("deviceName"),
		IsNurse:     d.Bool("isNurse"),
		PatientID:   d.String("patientId"),
		Status:      d.String("status"),
		TimeDisplay: "N/A",
	}
	e.Role = RoleUser
	if e.IsNurse {
		e.Role = RoleNurse
	}
	if t, ok := d.Time("time", loc); ok {
		t = t.In(loc)
		e.Time = &t
		e.TimeDisplay = t.Format(DisplayLayout)
	}
	return e
}

// Healthy reports whether the device flagged the login as green.
func (e Entry) Healthy() bool { return e.Status == StatusGreen }

func (e Entry) loggedIn() (time.Time, bool) {
	if e.Time == nil {
		return time.Time{}, false
	}
	return *e.Time, true
}

// searchTime is what free-text search sees for the login time: the display
// form, or nothing when unknown.
func (e Entry) searchTime() string {
	if e.Time == nil {
		return ""
	}
	return e.TimeDisplay
}
