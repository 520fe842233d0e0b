package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/neuraq/careadmin/internal/platform/auth"
)

// AuditNoteKey is the echo context key a handler sets to explain an outcome
// the status code alone doesn't, e.g. "pin_rejected".
const AuditNoteKey = "audit_note"

// AuditEntry records one admin action against a dashboard screen.
type AuditEntry struct {
	UserID     string
	UserRoles  []string
	Screen     string
	RecordID   string
	Action     string // list, facets, export, delete, create, overview
	Note       string
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// AuditRecorder persists audit entries somewhere other than the log.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit logs every request under /api/v1/ with the acting admin, the screen
// and record touched, and the outcome. Reads are logged at debug level;
// deletes, exports and creates at info, or warn when they were refused.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if !isAuditablePath(path) {
				return next(c)
			}

			err := next(c)

			entry := AuditEntry{
				Timestamp:  time.Now().UTC(),
				Path:       path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
			}
			if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed {
				entry.StatusCode = he.Code
			}

			ctx := req.Context()
			entry.UserID = auth.UserIDFromContext(ctx)
			entry.UserRoles = auth.RolesFromContext(ctx)
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}
			if note, ok := c.Get(AuditNoteKey).(string); ok {
				entry.Note = note
			}
			entry.Screen, entry.RecordID, entry.Action = classify(req.Method, path)

			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			var evt *zerolog.Event
			switch {
			case entry.StatusCode >= 400 && isMutating(entry.Action):
				evt = logger.Warn()
			case isMutating(entry.Action):
				evt = logger.Info()
			default:
				evt = logger.Debug()
			}
			evt.
				Str("type", "admin_audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Strs("user_roles", entry.UserRoles).
				Str("screen", entry.Screen).
				Str("record_id", entry.RecordID).
				Str("action", entry.Action).
				Str("note", entry.Note).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("admin_action")

			return err
		}
	}
}

func isAuditablePath(path string) bool {
	return strings.HasPrefix(path, "/api/v1/")
}

func isMutating(action string) bool {
	return action == "delete" || action == "create" || action == "export"
}

// classify splits /api/v1/<screen>[/<sub>] into screen, record id and
// action.
//
//   - GET    /api/v1/reports          -> reports, "", list
//   - GET    /api/v1/reports/facets   -> reports, "", facets
//   - GET    /api/v1/reports/export   -> reports, "", export
//   - DELETE /api/v1/reports/abc      -> reports, abc, delete
//   - POST   /api/v1/users            -> users, "", create
//   - GET    /api/v1/overview         -> overview, "", overview
func classify(method, path string) (screen, recordID, action string) {
	segments := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api/v1/"), "/"), "/")
	screen = segments[0]
	if screen == "" {
		screen = "unknown"
	}
	var sub string
	if len(segments) > 1 {
		sub = segments[1]
	}

	switch {
	case screen == "overview":
		return screen, "", "overview"
	case method == http.MethodDelete:
		return screen, sub, "delete"
	case method == http.MethodPost:
		return screen, "", "create"
	case sub == "export":
		return screen, "", "export"
	case sub == "facets":
		return screen, "", "facets"
	case sub != "":
		return screen, sub, "read"
	default:
		return screen, "", "list"
	}
}
