package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/config"
	"github.com/careerhub/career-api/internal/email"
	"github.com/careerhub/career-api/internal/store"
)

var tokenPattern = regexp.MustCompile(`token=([0-9a-f]+)`)

type testEnv struct {
	t      *testing.T
	cfg    config.Config
	app    *App
	mailer *email.Recorder
}

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{
			Name:        "career-api",
			Env:         "test",
			Version:     "test",
			CORSOrigin:  "*",
			FrontendURL: "http://frontend.test",
		},
		Store: config.StoreConfig{Driver: config.StoreDriverMemory},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			SessionTTLHours:         1,
			VerificationTTLHours:    24,
			PasswordResetTTLMinutes: 60,
			BcryptCost:              4,
		},
		RateLimit: config.RateLimitConfig{Requests: 1000, WindowSeconds: 60},
		Seed: config.SeedConfig{
			AdminEmail:    "admin@careerhub.test",
			AdminPassword: "admin12345",
		},
	}
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	mailer := &email.Recorder{}
	a := New(cfg, Dependencies{
		Store:  store.NewMemoryStore(store.DefaultIndexes...),
		Mailer: mailer,
		Logger: zap.NewNop(),
	})
	require.NoError(t, a.Seed(context.Background(), cfg, zap.NewNop()))
	return &testEnv{t: t, cfg: cfg, app: a, mailer: mailer}
}

func (e *testEnv) do(method, path string, body any, token string) (int, map[string]any) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Fiber.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	require.NoError(e.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", body)
	return d
}

func items(t *testing.T, body map[string]any) []any {
	t.Helper()
	list, ok := data(t, body)["items"].([]any)
	require.True(t, ok, "response has no items: %v", body)
	return list
}

func (e *testEnv) verificationToken(addr string) string {
	e.t.Helper()
	msg, ok := e.mailer.Last(addr)
	require.True(e.t, ok, "no email sent to %s", addr)
	m := tokenPattern.FindStringSubmatch(msg.Text)
	require.Len(e.t, m, 2, "no token link in %q", msg.Text)
	return m[1]
}

// signUp registers, verifies and logs in an account, returning its session
// token and user object.
func (e *testEnv) signUp(addr, role string, extra map[string]any) (string, map[string]any) {
	e.t.Helper()
	payload := map[string]any{"email": addr, "password": "secret123", "name": "Test " + role, "role": role}
	for k, v := range extra {
		payload[k] = v
	}
	status, body := e.do(http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(e.t, http.StatusCreated, status, body)

	status, body = e.do(http.MethodGet, "/api/auth/verify-email?token="+e.verificationToken(addr), nil, "")
	require.Equal(e.t, http.StatusOK, status, body)

	return e.login(addr, "secret123")
}

func (e *testEnv) login(addr, password string) (string, map[string]any) {
	e.t.Helper()
	status, body := e.do(http.MethodPost, "/api/auth/login", map[string]any{"email": addr, "password": password}, "")
	require.Equal(e.t, http.StatusOK, status, body)
	d := data(e.t, body)
	return d["token"].(string), d["user"].(map[string]any)
}

func (e *testEnv) adminToken() string {
	token, _ := e.login(e.cfg.Seed.AdminEmail, e.cfg.Seed.AdminPassword)
	return token
}

// activeInstitution signs up an institution account and has the admin approve it.
func (e *testEnv) activeInstitution(addr string) string {
	e.t.Helper()
	token, user := e.signUp(addr, "institution", map[string]any{"institutionName": "Test College"})
	instID, _ := user["institutionId"].(string)
	require.NotEmpty(e.t, instID)

	status, body := e.do(http.MethodPatch, "/api/admin/institutions/"+instID+"/status",
		map[string]any{"status": "active"}, e.adminToken())
	require.Equal(e.t, http.StatusOK, status, body)
	return token
}

func (e *testEnv) createCourse(token, name string, seats int) string {
	e.t.Helper()
	status, body := e.do(http.MethodPost, "/api/institutions/me/courses", map[string]any{
		"name":         name,
		"seats":        seats,
		"requirements": map[string]any{"subjects": []string{"Mathematics"}, "minimumGrade": 50},
	}, token)
	require.Equal(e.t, http.StatusCreated, status, body)
	return data(e.t, body)["id"].(string)
}

func TestRegisterVerifyLoginScenario(t *testing.T) {
	e := newTestEnv(t)

	status, body := e.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "alice@example.com", "password": "secret123", "name": "Alice", "role": "student",
	}, "")
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body["success"])
	user := data(t, body)["user"].(map[string]any)
	assert.Equal(t, false, user["isVerified"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "verificationToken")

	status, body = e.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "alice@example.com", "password": "secret123"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, true, body["needsVerification"])

	status, body = e.do(http.MethodGet, "/api/auth/verify-email?token="+e.verificationToken("alice@example.com"), nil, "")
	require.Equal(t, http.StatusOK, status, body)

	status, body = e.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "alice@example.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, status, body)
	d := data(t, body)
	assert.NotEmpty(t, d["token"])
	loggedIn := d["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", loggedIn["email"])
	assert.Equal(t, true, loggedIn["isVerified"])
	assert.NotContains(t, loggedIn, "password")

	status, body = e.do(http.MethodGet, "/api/auth/me", nil, d["token"].(string))
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, loggedIn["id"], data(t, body)["id"])

	msg, ok := e.mailer.Last("alice@example.com")
	require.True(t, ok)
	assert.Contains(t, msg.Subject, "Welcome")
}

func TestRegisterRejectsDuplicateAndInvalidPayloads(t *testing.T) {
	e := newTestEnv(t)
	e.signUp("bob@example.com", "student", nil)

	status, body := e.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "BOB@example.com", "password": "secret123", "name": "Bob", "role": "student",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User with this email already exists", body["message"])

	status, body = e.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "not-an-email", "password": "123", "role": "admin",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	fields, ok := body["errors"].(map[string]any)
	require.True(t, ok, body)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "role")

	status, body = e.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "cleo@example.com", "password": "secret123", "name": "Cleo", "role": "Student",
	}, "")
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "student", data(t, body)["user"].(map[string]any)["role"])
}

func TestLoginFailuresDoNotRevealCause(t *testing.T) {
	e := newTestEnv(t)
	e.signUp("carol@example.com", "student", nil)

	wrongPassword, body1 := e.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "carol@example.com", "password": "nope-nope"}, "")
	unknownEmail, body2 := e.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "nobody@example.com", "password": "nope-nope"}, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail)
	assert.Equal(t, body1["message"], body2["message"])
}

func TestExpiredVerificationTokenIsRejected(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	status, _ := e.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "dave@example.com", "password": "secret123", "name": "Dave", "role": "student",
	}, "")
	require.Equal(t, http.StatusCreated, status)
	token := e.verificationToken("dave@example.com")

	user, err := e.app.Repositories.Users.GetByEmail(ctx, "dave@example.com")
	require.NoError(t, err)
	past := time.Now().UTC().Add(-25 * time.Hour)
	user.VerificationExpires = &past
	require.NoError(t, e.app.Repositories.Users.Update(ctx, user))

	status, body := e.do(http.MethodGet, "/api/auth/verify-email?token="+token, nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "expired")

	// a fresh link works
	status, _ = e.do(http.MethodPost, "/api/auth/resend-verification", map[string]any{"email": "dave@example.com"}, "")
	require.Equal(t, http.StatusOK, status)
	status, _ = e.do(http.MethodGet, "/api/auth/verify-email?token="+e.verificationToken("dave@example.com"), nil, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestTokenRequiredAndRolesEnforced(t *testing.T) {
	e := newTestEnv(t)
	studentToken, _ := e.signUp("erin@example.com", "student", nil)
	companyToken, _ := e.signUp("hr@acme.example.com", "company", map[string]any{"companyName": "Acme"})

	status, body := e.do(http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Access denied. No token provided.", body["message"])

	status, _ = e.do(http.MethodGet, "/api/auth/me", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = e.do(http.MethodGet, "/api/admin/users", nil, studentToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied. Insufficient permissions.", body["message"])

	status, _ = e.do(http.MethodGet, "/api/students/profile", nil, companyToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = e.do(http.MethodPost, "/api/companies/jobs", map[string]any{"title": "x", "description": "y"}, studentToken)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestSuspendedAccountLosesAccess(t *testing.T) {
	e := newTestEnv(t)
	token, user := e.signUp("frank@example.com", "student", nil)
	admin := e.adminToken()

	status, body := e.do(http.MethodPatch, "/api/admin/users/"+user["id"].(string)+"/status", map[string]any{"status": "Suspended"}, admin)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "suspended", data(t, body)["status"])

	status, _ = e.do(http.MethodGet, "/api/students/profile", nil, token)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = e.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "frank@example.com", "password": "secret123"}, "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = e.do(http.MethodPatch, "/api/admin/users/"+user["id"].(string)+"/status", map[string]any{"status": "frozen"}, admin)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPendingInstitutionCannotPublish(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.signUp("registrar@pending.example.com", "institution", map[string]any{"institutionName": "Pending College"})

	status, body := e.do(http.MethodGet, "/api/institutions/me", nil, token)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "pending", data(t, body)["status"])

	status, _ = e.do(http.MethodPost, "/api/institutions/me/courses", map[string]any{"name": "Course", "seats": 5}, token)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = e.do(http.MethodGet, "/api/institutions?q=pending", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, items(t, body))
}

func TestApplicationLimits(t *testing.T) {
	e := newTestEnv(t)
	instToken := e.activeInstitution("registrar@college.example.com")
	first := e.createCourse(instToken, "Course One", 10)
	second := e.createCourse(instToken, "Course Two", 10)
	third := e.createCourse(instToken, "Course Three", 10)

	studentToken, _ := e.signUp("gina@example.com", "student", nil)
	apply := func(courseID string) (int, map[string]any) {
		return e.do(http.MethodPost, "/api/applications", map[string]any{"courseId": courseID}, studentToken)
	}

	status, body := apply(first)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "pending", data(t, body)["status"])

	status, body = apply(first)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You have already applied to this course", body["message"])

	status, _ = apply(second)
	require.Equal(t, http.StatusCreated, status)

	status, body = apply(third)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "maximum of 2 courses")

	status, body = e.do(http.MethodGet, "/api/students/applications", nil, studentToken)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, items(t, body), 2)

	status, body = e.do(http.MethodGet, "/api/applications", nil, instToken)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, items(t, body), 2)
}

func TestAdmissionTakesSeatAndNotifiesStudent(t *testing.T) {
	e := newTestEnv(t)
	instToken := e.activeInstitution("admissions@uni.example.com")
	courseID := e.createCourse(instToken, "Single Seat Course", 1)

	studentToken, _ := e.signUp("hana@example.com", "student", nil)
	status, body := e.do(http.MethodPost, "/api/applications", map[string]any{"courseId": courseID}, studentToken)
	require.Equal(t, http.StatusCreated, status, body)
	appID := data(t, body)["id"].(string)

	status, _ = e.do(http.MethodPatch, "/api/applications/"+appID+"/status", map[string]any{"status": "admitted"}, studentToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = e.do(http.MethodPatch, "/api/applications/"+appID+"/status", map[string]any{"status": "accepted"}, instToken)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = e.do(http.MethodPatch, "/api/applications/"+appID+"/status", map[string]any{"status": "admitted"}, instToken)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "admitted", data(t, body)["status"])

	course, err := e.app.Repositories.Courses.GetByID(context.Background(), courseID)
	require.NoError(t, err)
	assert.Equal(t, 0, course.AvailableSeats)
	assert.Equal(t, "closed", string(course.Status))

	status, body = e.do(http.MethodGet, "/api/students/notifications?unread=true", nil, studentToken)
	require.Equal(t, http.StatusOK, status)
	notes := items(t, body)
	require.Len(t, notes, 2)
	// newest first: the decision follows the submission receipt
	note := notes[0].(map[string]any)
	assert.Equal(t, "application_status", note["type"])
	assert.Equal(t, "application_submitted", notes[1].(map[string]any)["type"])

	status, body = e.do(http.MethodPatch, "/api/students/notifications/"+note["id"].(string)+"/read", nil, studentToken)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, data(t, body)["read"])

	status, body = e.do(http.MethodGet, "/api/students/notifications?unread=true", nil, studentToken)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, items(t, body), 1)

	status, _ = e.do(http.MethodDelete, "/api/applications/"+appID, nil, studentToken)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTranscriptAndQualifiedCourses(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.signUp("ivan@example.com", "student", nil)

	status, _ := e.do(http.MethodGet, "/api/students/transcript", nil, token)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := e.do(http.MethodPut, "/api/students/transcript", map[string]any{
		"grades": []map[string]any{
			{"subject": "Mathematics", "grade": 72},
			{"subject": "English", "grade": 64},
			{"subject": "Physics", "grade": 40},
		},
	}, token)
	require.Equal(t, http.StatusOK, status, body)

	status, body = e.do(http.MethodGet, "/api/students/courses/qualified", nil, token)
	require.Equal(t, http.StatusOK, status, body)
	qualified := items(t, body)
	require.NotEmpty(t, qualified)
	for _, raw := range qualified {
		q := raw.(map[string]any)["qualification"].(map[string]any)
		assert.Equal(t, true, q["qualified"])
	}

	status, body = e.do(http.MethodGet, "/api/students/courses/qualified?all=true", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Greater(t, len(items(t, body)), len(qualified))

	status, body = e.do(http.MethodPut, "/api/students/transcript", map[string]any{
		"grades": []map[string]any{{"subject": "Mathematics", "grade": 140}},
	}, token)
	assert.Equal(t, http.StatusBadRequest, status, body)
}

func TestJobRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	companyToken, company := e.signUp("jobs@acme.example.com", "company", map[string]any{"companyName": "Acme"})
	companyID := company["id"].(string)

	status, body := e.do(http.MethodPost, "/api/companies/jobs", map[string]any{
		"title":        "Junior Developer",
		"description":  "Build things",
		"requirements": []string{"Go", "SQL"},
		"deadline":     time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
	}, companyToken)
	require.Equal(t, http.StatusCreated, status, body)
	jobID := data(t, body)["id"].(string)
	assert.Equal(t, "Acme", data(t, body)["companyName"])

	countJob := func(query string) int {
		status, body := e.do(http.MethodGet, "/api/jobs?companyId="+companyID+query, nil, "")
		require.Equal(t, http.StatusOK, status, body)
		n := 0
		for _, raw := range items(t, body) {
			if raw.(map[string]any)["id"] == jobID {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, countJob(""))

	studentToken, _ := e.signUp("jules@example.com", "student", nil)
	status, body = e.do(http.MethodPost, "/api/jobs/apply", map[string]any{"jobId": jobID, "coverLetter": "Hi"}, studentToken)
	require.Equal(t, http.StatusCreated, status, body)
	jobAppID := data(t, body)["id"].(string)

	status, _ = e.do(http.MethodPost, "/api/jobs/apply", map[string]any{"jobId": jobID}, studentToken)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = e.do(http.MethodGet, "/api/companies/jobs/"+jobID+"/applications", nil, companyToken)
	require.Equal(t, http.StatusOK, status)
	applicants := items(t, body)
	require.Len(t, applicants, 1)
	student := applicants[0].(map[string]any)["student"].(map[string]any)
	assert.Equal(t, "jules@example.com", student["email"])
	assert.NotContains(t, student, "password")

	status, body = e.do(http.MethodPatch, "/api/companies/applications/"+jobAppID+"/status", map[string]any{"status": "accepted"}, companyToken)
	require.Equal(t, http.StatusOK, status, body)

	status, body = e.do(http.MethodPatch, "/api/companies/jobs/"+jobID+"/status", map[string]any{"status": "closed"}, companyToken)
	require.Equal(t, http.StatusOK, status, body)

	status, body = e.do(http.MethodGet, "/api/jobs/"+jobID, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "closed", data(t, body)["status"])
	assert.Equal(t, 0, countJob(""))
	assert.Equal(t, 1, countJob("&status=all"))
	assert.Equal(t, 1, countJob("&status=closed"))

	other, _ := e.signUp("kim@example.com", "student", nil)
	status, _ = e.do(http.MethodPost, "/api/jobs/apply", map[string]any{"jobId": jobID}, other)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = e.do(http.MethodGet, "/api/students/job-applications", nil, studentToken)
	require.Equal(t, http.StatusOK, status)
	mine := items(t, body)
	require.Len(t, mine, 1)
	assert.Equal(t, "accepted", mine[0].(map[string]any)["status"])

	status, body = e.do(http.MethodGet, "/api/companies/profile", nil, companyToken)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, data(t, body)["totalJobs"])
	assert.EqualValues(t, 0, data(t, body)["openJobs"])
	assert.EqualValues(t, 1, data(t, body)["totalApplications"])
}

func TestForgotPasswordAlwaysSucceeds(t *testing.T) {
	e := newTestEnv(t)
	e.signUp("lena@example.com", "student", nil)

	status, body := e.do(http.MethodPost, "/api/auth/forgot-password", map[string]any{"email": "ghost@example.com"}, "")
	assert.Equal(t, http.StatusOK, status)
	unknownMessage := body["message"]

	status, body = e.do(http.MethodPost, "/api/auth/forgot-password", map[string]any{"email": "lena@example.com"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, unknownMessage, body["message"])

	msg, ok := e.mailer.Last("lena@example.com")
	require.True(t, ok)
	assert.Contains(t, msg.Text, "/reset-password?token=")
	resetToken := e.verificationToken("lena@example.com")

	status, _ = e.do(http.MethodPost, "/api/auth/reset-password", map[string]any{"token": resetToken, "password": "newsecret1"}, "")
	require.Equal(t, http.StatusOK, status)

	status, _ = e.do(http.MethodPost, "/api/auth/reset-password", map[string]any{"token": resetToken, "password": "again12345"}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	e.login("lena@example.com", "newsecret1")
}

func TestExpiredResetTokenIsRejected(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.signUp("olga@example.com", "student", nil)

	status, _ := e.do(http.MethodPost, "/api/auth/forgot-password", map[string]any{"email": "olga@example.com"}, "")
	require.Equal(t, http.StatusOK, status)
	resetToken := e.verificationToken("olga@example.com")

	user, err := e.app.Repositories.Users.GetByEmail(ctx, "olga@example.com")
	require.NoError(t, err)
	require.Equal(t, resetToken, user.ResetToken)
	past := time.Now().UTC().Add(-2 * time.Hour)
	user.ResetExpires = &past
	require.NoError(t, e.app.Repositories.Users.Update(ctx, user))

	status, body := e.do(http.MethodPost, "/api/auth/reset-password", map[string]any{"token": resetToken, "password": "newsecret1"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "expired")

	// the old password still works
	e.login("olga@example.com", "secret123")
	status, _ = e.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "olga@example.com", "password": "newsecret1"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestChangePassword(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.signUp("milo@example.com", "student", nil)

	status, body := e.do(http.MethodPost, "/api/auth/change-password",
		map[string]any{"currentPassword": "wrong-one", "newPassword": "brandnew1"}, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Current password is incorrect", body["message"])

	status, _ = e.do(http.MethodPost, "/api/auth/change-password",
		map[string]any{"currentPassword": "secret123", "newPassword": "brandnew1"}, token)
	require.Equal(t, http.StatusOK, status)
	e.login("milo@example.com", "brandnew1")
}

func TestAdminReports(t *testing.T) {
	e := newTestEnv(t)
	e.signUp("nora@example.com", "student", nil)
	admin := e.adminToken()

	status, body := e.do(http.MethodGet, "/api/admin/reports", nil, admin)
	require.Equal(t, http.StatusOK, status, body)
	report := data(t, body)
	users := report["users"].(map[string]any)
	assert.EqualValues(t, 2, users["total"])
	assert.EqualValues(t, 1, users["student"])
	assert.EqualValues(t, 1, users["admin"])
	institutions := report["institutions"].(map[string]any)
	assert.EqualValues(t, 2, institutions["active"])
	assert.Contains(t, report, "requests")

	status, body = e.do(http.MethodGet, "/api/admin/users?role=student", nil, admin)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, items(t, body), 1)

	status, _ = e.do(http.MethodGet, "/api/admin/users?role=wizard", nil, admin)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = e.do(http.MethodPost, "/api/admin/institutions", map[string]any{"name": "Direct Institute", "email": "info@direct.example.com"}, admin)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "active", data(t, body)["status"])

	status, body = e.do(http.MethodGet, "/api/institutions?q=direct", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, items(t, body), 1)
}

func TestPublicAuthEndpointsAreRateLimited(t *testing.T) {
	e := newTestEnv(t, func(c *config.Config) {
		c.RateLimit = config.RateLimitConfig{Requests: 2, WindowSeconds: 60}
	})
	payload := map[string]any{"email": "nobody@example.com", "password": "whatever1"}

	for i := 0; i < 2; i++ {
		status, _ := e.do(http.MethodPost, "/api/auth/login", payload, "")
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, body := e.do(http.MethodPost, "/api/auth/login", payload, "")
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, false, body["success"])
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestEnv(t)

	status, body := e.do(http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = e.do(http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, status)
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "ok", deps["store"])
	assert.Equal(t, "disabled", deps["redis"])

	status, body = e.do(http.MethodGet, "/api/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}
