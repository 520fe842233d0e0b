package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/neuraq/careadmin/internal/config"
	"github.com/neuraq/careadmin/internal/dashboard"
	"github.com/neuraq/careadmin/internal/platform/auth"
	"github.com/neuraq/careadmin/internal/platform/docstore"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:               "test",
		StoreBackend:      config.BackendMemory,
		AdminUsername:     "admin",
		SessionSigningKey: "0123456789abcdef0123456789abcdef",
		SessionTTL:        time.Hour,
		SessionIssuer:     "careadmin",
		DeletePIN:         "2012",
		CORSOrigins:       []string{"http://localhost:3000"},
		RateLimitRPS:      100,
		RateLimitBurst:    100,
		RequestTimeout:    5 * time.Second,
	}
}

func testStore() *docstore.MemoryStore {
	s := docstore.NewMemoryStore()
	s.Put(docstore.Reports, docstore.Document{ID: "r1", Data: map[string]any{"formType": "NHC", "name": "Anu", "submittedAt": "2024-02-01T09:00:00Z"}})
	s.Put(docstore.Reports, docstore.Document{ID: "r2", Data: map[string]any{"formType": "DHC", "name": "Binu", "submittedAt": "2024-02-03T09:00:00Z"}})
	s.Put(docstore.Patients, docstore.Document{ID: "p1", Data: map[string]any{"name": "Anu", "registernumber": "12/2024"}})
	s.Put(docstore.Users, docstore.Document{ID: "u1", Data: map[string]any{"email": "nurse@x.org", "is_nurse": true}})
	s.Put(docstore.LoginData, docstore.Document{ID: "l1", Data: map[string]any{"email": "nurse@x.org", "status": "green"}})
	return s
}

func newTestServer(t *testing.T, cfg *config.Config, store docstore.Store) http.Handler {
	t.Helper()
	rev := auth.NewMemoryRevocationStore(time.Hour)
	t.Cleanup(rev.Close)
	return newServer(server{
		cfg:         cfg,
		loc:         time.UTC,
		store:       store,
		sessions:    auth.NewSessionManager([]byte(cfg.SessionSigningKey), cfg.SessionIssuer, cfg.SessionTTL),
		revocations: rev,
		logger:      zerolog.Nop(),
	})
}

func do(h http.Handler, method, path, token string, body string, headers ...string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(h, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"anything"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

type listBody struct {
	Data  []map[string]any `json:"data"`
	Total int              `json:"total"`
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) listBody {
	t.Helper()
	var b listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b), rec.Body.String())
	return b
}

func TestServer_PublicHealth(t *testing.T) {
	h := newTestServer(t, testConfig(), testStore())

	rec := do(h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(h, http.MethodGet, "/health/db", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"backend":"memory"`)
}

func TestServer_RequiresSession(t *testing.T) {
	h := newTestServer(t, testConfig(), testStore())
	for _, path := range []string{"/api/v1/reports", "/api/v1/patients", "/api/v1/users", "/api/v1/logindata", "/api/v1/overview"} {
		assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, path, "", "").Code, path)
	}
}

func TestServer_ScreensAndOverview(t *testing.T) {
	h := newTestServer(t, testConfig(), testStore())
	token := login(t, h)

	tests := []struct {
		path  string
		total int
	}{
		{"/api/v1/reports", 2},
		{"/api/v1/reports?formType=DHC", 1},
		{"/api/v1/patients", 1},
		{"/api/v1/users?role=Nurse", 1},
		{"/api/v1/logindata?status=green", 1},
	}
	for _, tt := range tests {
		rec := do(h, http.MethodGet, tt.path, token, "")
		require.Equal(t, http.StatusOK, rec.Code, tt.path)
		assert.Equal(t, tt.total, decodeList(t, rec).Total, tt.path)
	}

	rec := do(h, http.MethodGet, "/api/v1/overview", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var counts []dashboard.Count
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, []dashboard.Count{
		{Name: docstore.Patients, Value: 1},
		{Name: docstore.Reports, Value: 2},
		{Name: docstore.Users, Value: 1},
		{Name: docstore.LoginData, Value: 1},
	}, counts)

	rec = do(h, http.MethodGet, "/api/v1/reports?from=02/01/2024", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_DeleteFlow(t *testing.T) {
	store := testStore()
	h := newTestServer(t, testConfig(), store)
	token := login(t, h)

	rec := do(h, http.MethodDelete, "/api/v1/reports/r1", token, `{"pin":"1234"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect PIN. Deletion canceled.")

	rec = do(h, http.MethodDelete, "/api/v1/reports/r1", token, "", "X-Delete-PIN", "2012")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeList(t, rec)
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "r2", body.Data[0]["id"])

	rec = do(h, http.MethodDelete, "/api/v1/reports/r1", token, "", "X-Delete-PIN", "2012")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to delete report")
}

func TestServer_LogoutRevokes(t *testing.T) {
	h := newTestServer(t, testConfig(), testStore())
	token := login(t, h)

	assert.Equal(t, http.StatusNoContent, do(h, http.MethodPost, "/auth/logout", token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/api/v1/reports", token, "").Code)
}

func TestServer_UserCreationToggle(t *testing.T) {
	body := `{"email":"new@x.org","password":"secret1","patientId":"P-1"}`

	h := newTestServer(t, testConfig(), testStore())
	token := login(t, h)
	assert.NotEqual(t, http.StatusCreated, do(h, http.MethodPost, "/api/v1/users", token, body).Code)
	assert.Equal(t, 0, decodeList(t, do(h, http.MethodGet, "/api/v1/users?q=new@x.org", token, "")).Total)

	cfg := testConfig()
	cfg.UserCreationEnabled = true
	h = newTestServer(t, cfg, testStore())
	token = login(t, h)
	assert.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/v1/users", token, body).Code)

	rec := do(h, http.MethodGet, "/api/v1/users?q=new@x.org", token, "")
	assert.Equal(t, 1, decodeList(t, rec).Total)
}

func TestBuildScreens(t *testing.T) {
	screens := buildScreens(testStore(), auth.NewDeleteGate("2012"), time.UTC, zerolog.Nop())
	assert.Equal(t, "reports, patients, users, logindata", screenNames(screens))

	reports, ok := dashboard.Find(screens, "reports")
	require.True(t, ok)
	assert.Equal(t, []string{"formType", "name", "address"}, reports.Filters)
}

func newExportFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := exportCmd()
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestExportValues(t *testing.T) {
	cmd := newExportFlags(t, "--q", "anu", "--from", "2024-01-01", "--filter", "formType=NHC", "--filter", "name=An")
	v, err := exportValues(cmd, []string{"formType", "name", "address"})
	require.NoError(t, err)
	assert.Equal(t, "anu", v.Get("q"))
	assert.Equal(t, "2024-01-01", v.Get("from"))
	assert.Equal(t, "NHC", v.Get("formType"))
	assert.Equal(t, "An", v.Get("name"))
	assert.Empty(t, v.Get("to"))

	_, err = exportValues(newExportFlags(t, "--filter", "colour=red"), []string{"formType"})
	assert.ErrorContains(t, err, "unknown filter")

	_, err = exportValues(newExportFlags(t, "--filter", "formType"), []string{"formType"})
	assert.ErrorContains(t, err, "expected name=value")
}

func TestHashPasswordCmd(t *testing.T) {
	cmd := hashPasswordCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("s3cret\n"))
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestPrintCounts(t *testing.T) {
	var out bytes.Buffer
	printCounts(&out, []dashboard.Count{{Name: "Patients", Value: 12}, {Name: "users", Value: 3}})
	assert.Equal(t, "Patients  12\nusers     3\n", out.String())
}
