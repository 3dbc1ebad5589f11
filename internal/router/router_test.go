package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	_ "cohorts/docs"
	"cohorts/internal/auth"
	"cohorts/internal/cache"
	"cohorts/internal/config"
	"cohorts/internal/handler"
	"cohorts/internal/repository"
	"cohorts/internal/service"
)

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repos, err := repository.Open(context.Background(), config.DriverSQLite, "file::memory:", "", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close(context.Background()) })

	cfg := &config.Config{CORSOrigins: []string{"http://localhost:5173"}}
	authService := service.NewAuthService(
		repos.Users,
		auth.NewJWTService("test-secret"),
		&auth.BcryptHasher{Cost: bcrypt.MinCost},
		auth.NewTokenStore(cache.New("", "", 0)),
	)

	e := echo.New()
	Register(e, cfg, zerolog.Nop(), authService, Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(service.NewUserService(repos.Users)),
		Cohort:  handler.NewCohortHandler(service.NewCohortService(repos.Cohorts)),
		Student: handler.NewStudentHandler(service.NewStudentService(repos.Students, repos.Cohorts)),
	})
	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode[map[string]interface{}](t, rec)
	require.Len(t, body, 1, rec.Body.String())
	msg, ok := body["error"].(string)
	require.True(t, ok, rec.Body.String())
	return msg
}

func cohortBody(slug string) map[string]interface{} {
	return map[string]interface{}{
		"slug":    slug,
		"name":    "Cohort " + slug,
		"program": "Web Dev",
		"format":  "Full Time",
	}
}

func TestHealthAndDocs(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok", "docs": "/docs"}, decode[map[string]string](t, rec))

	rec = s.do(http.MethodGet, "/docs", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), "/api/cohorts")
}

func TestSwaggerDocMatchesBoundBodies(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/swagger/doc.json", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	type parameter struct {
		In     string `json:"in"`
		Schema struct {
			Ref string `json:"$ref"`
		} `json:"schema"`
	}
	var doc struct {
		Paths map[string]map[string]struct {
			Parameters []parameter `json:"parameters"`
		} `json:"paths"`
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))

	bodyRef := func(path, method string) string {
		for _, p := range doc.Paths[path][method].Parameters {
			if p.In == "body" {
				return p.Schema.Ref
			}
		}
		return ""
	}
	assert.Equal(t, "#/definitions/service.StudentPatch", bodyRef("/api/students/{studentId}", "put"))
	assert.Equal(t, "#/definitions/service.StudentInput", bodyRef("/api/students", "post"))
	assert.Equal(t, "#/definitions/service.CohortPatch", bodyRef("/api/cohorts/{cohortId}", "put"))
	assert.Equal(t, "#/definitions/handler.CreateCohortRequest", bodyRef("/api/cohorts", "post"))

	for _, name := range []string{"service.StudentPatch", "service.CohortPatch", "model.StudentView"} {
		assert.Contains(t, doc.Definitions, name)
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", errorBody(t, rec))
}

func TestCohorts_ListContainsExactlyCreated(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/cohorts", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	slugs := []string{"a", "b", "c"}
	for _, slug := range slugs {
		rec := s.do(http.MethodPost, "/api/cohorts", cohortBody(slug), "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	listed := decode[[]map[string]interface{}](t, s.do(http.MethodGet, "/api/cohorts", nil, ""))
	var got []string
	for _, c := range listed {
		got = append(got, c["slug"].(string))
	}
	assert.ElementsMatch(t, slugs, got)
}

func TestCohorts_DuplicateSlug(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/cohorts", cohortBody("wd-101"), "").Code)

	rec := s.do(http.MethodPost, "/api/cohorts", cohortBody("wd-101"), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, service.MsgCohortExists, errorBody(t, rec))

	listed := decode[[]map[string]interface{}](t, s.do(http.MethodGet, "/api/cohorts", nil, ""))
	assert.Len(t, listed, 1)
}

func TestCohorts_Validation(t *testing.T) {
	s := newTestServer(t)

	body := cohortBody("x")
	body["program"] = "Cooking"
	rec := s.do(http.MethodPost, "/api/cohorts", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec), "program must be one of")

	rec = s.do(http.MethodPost, "/api/cohorts", `{"slug":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, handler.MsgInvalidBody, errorBody(t, rec))
}

func TestCohorts_MalformedIDIs400(t *testing.T) {
	s := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := s.do(method, "/api/cohorts/abc", map[string]string{"name": "x"}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, method)
		assert.Equal(t, "Invalid id", errorBody(t, rec), method)
	}

	rec := s.do(http.MethodGet, "/api/students/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodGet, "/api/students/cohort/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCohorts_LifecycleAndNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/cohorts", cohortBody("wd-1"), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[map[string]interface{}](t, rec)
	id := created["_id"].(string)
	assert.Equal(t, "/api/cohorts/"+id, rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, false, created["inProgress"])
	assert.NotEmpty(t, created["createdAt"])

	rec = s.do(http.MethodPut, "/api/cohorts/"+id, map[string]interface{}{"inProgress": true, "name": "Renamed"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[map[string]interface{}](t, rec)
	assert.Equal(t, true, updated["inProgress"])
	assert.Equal(t, "Renamed", updated["name"])
	assert.Equal(t, "wd-1", updated["slug"])

	rec = s.do(http.MethodPut, "/api/cohorts/"+id, map[string]interface{}{"format": "Weekends"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/cohorts", cohortBody("taken"), "").Code)
	rec = s.do(http.MethodPut, "/api/cohorts/"+id, map[string]interface{}{"slug": "taken"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, service.MsgCohortSlugExists, errorBody(t, rec))

	rec = s.do(http.MethodDelete, "/api/cohorts/"+id, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := s.do(method, "/api/cohorts/"+id, map[string]string{"name": "x"}, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
		assert.Equal(t, "Not found", errorBody(t, rec), method)
	}
}

func TestStudents_EndToEndPopulate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/cohorts", map[string]interface{}{
		"slug":    "wd-101",
		"name":    "Web Dev 101",
		"program": "Web Dev",
		"format":  "Full Time",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	cohortID := decode[map[string]interface{}](t, rec)["_id"].(string)
	require.Len(t, cohortID, 24)

	rec = s.do(http.MethodPost, "/api/students", map[string]interface{}{
		"firstName": "A",
		"lastName":  "B",
		"email":     "a@b.com",
		"cohort":    cohortID,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	student := decode[map[string]interface{}](t, rec)
	studentID := student["_id"].(string)
	assert.Equal(t, "/api/students/"+studentID, rec.Header().Get(echo.HeaderLocation))

	expected := map[string]interface{}{
		"_id":        cohortID,
		"cohortName": "Web Dev 101",
		"cohortSlug": "wd-101",
		"program":    "Web Dev",
		"format":     "Full Time",
	}
	assert.Equal(t, expected, student["cohort"])

	listed := decode[[]map[string]interface{}](t, s.do(http.MethodGet, "/api/students/cohort/"+cohortID, nil, ""))
	require.Len(t, listed, 1)
	assert.Equal(t, studentID, listed[0]["_id"])
	assert.Equal(t, expected, listed[0]["cohort"])

	all := decode[[]map[string]interface{}](t, s.do(http.MethodGet, "/api/students", nil, ""))
	require.Len(t, all, 1)
	assert.Equal(t, expected, all[0]["cohort"])
}

func TestStudents_DeletingCohortKeepsStudent(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/cohorts", cohortBody("gone"), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	cohortID := decode[map[string]interface{}](t, rec)["_id"].(string)

	rec = s.do(http.MethodPost, "/api/students", map[string]interface{}{
		"firstName": "A", "lastName": "B", "email": "a@b.com", "cohort": cohortID,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	studentID := decode[map[string]interface{}](t, rec)["_id"].(string)

	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/cohorts/"+cohortID, nil, "").Code)

	rec = s.do(http.MethodGet, "/api/students/"+studentID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	student := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "a@b.com", student["email"])
	assert.NotContains(t, student, "cohort")
}

func TestStudents_Rules(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/students", map[string]interface{}{
		"firstName": "A", "lastName": "B", "email": "a@b.com", "cohort": "abc",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgInvalidCohortID, errorBody(t, rec))

	rec = s.do(http.MethodPost, "/api/students", map[string]interface{}{
		"firstName": "A", "lastName": "B", "email": " A@B.com ",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	studentID := decode[map[string]interface{}](t, rec)["_id"].(string)

	rec = s.do(http.MethodPost, "/api/students", map[string]interface{}{
		"firstName": "C", "lastName": "D", "email": "a@b.com",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, service.MsgEmailExists, errorBody(t, rec))

	rec = s.do(http.MethodPut, "/api/students/"+studentID, map[string]interface{}{"phone": "555"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "555", updated["phone"])
	assert.Equal(t, "A", updated["firstName"])

	rec = s.do(http.MethodPut, "/api/students/"+studentID, map[string]interface{}{"firstName": ""}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/students/"+studentID, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodDelete, "/api/students/"+studentID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth_SignupLoginVerify(t *testing.T) {
	s := newTestServer(t)
	creds := map[string]string{"email": "user@example.com", "password": "password123", "name": "User"}

	rec := s.do(http.MethodPost, "/auth/signup", creds, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	signedUp := decode[map[string]interface{}](t, rec)
	userID := signedUp["_id"].(string)
	assert.Equal(t, "user@example.com", signedUp["email"])
	assert.NotContains(t, signedUp, "password")
	assert.NotContains(t, rec.Body.String(), "$2a$")

	rec = s.do(http.MethodPost, "/auth/signup", creds, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, service.MsgEmailExists, errorBody(t, rec))

	rec = s.do(http.MethodPost, "/auth/signup", map[string]string{"email": "x@y.z"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgSignupFieldsRequired, errorBody(t, rec))

	rec = s.do(http.MethodPost, "/auth/login", map[string]string{"email": "user@example.com", "password": "password123"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[handler.LoginResponse](t, rec)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, userID, login.User.ID)

	wrongPassword := s.do(http.MethodPost, "/auth/login", map[string]string{"email": "user@example.com", "password": "nope"}, "")
	unknownEmail := s.do(http.MethodPost, "/auth/login", map[string]string{"email": "ghost@example.com", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, "Invalid credentials", errorBody(t, wrongPassword))

	rec = s.do(http.MethodPost, "/auth/login", map[string]string{"email": "user@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgLoginFieldsRequired, errorBody(t, rec))

	rec = s.do(http.MethodGet, "/auth/verify", nil, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	verified := decode[map[string]interface{}](t, rec)
	assert.Equal(t, true, verified["ok"])
	payload := verified["payload"].(map[string]interface{})
	assert.Equal(t, userID, payload["sub"])
	assert.Equal(t, "user@example.com", payload["email"])
	assert.Equal(t, "User", payload["name"])
	assert.Contains(t, payload, "exp")
	assert.Contains(t, payload, "iat")

	rec = s.do(http.MethodGet, "/api/users/"+userID, nil, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decode[map[string]interface{}](t, rec), "password")

	rec = s.do(http.MethodGet, "/api/users/abc", nil, login.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/users/"+strings.Repeat("0", 24), nil, login.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/auth/logout", nil, login.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestAuth_ProtectedRoutesRejectBadTokens(t *testing.T) {
	s := newTestServer(t)
	foreign, err := auth.NewJWTService("other-secret").GenerateToken(strings.Repeat("a", 24), "a@b.c", "A")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"missing":      "",
		"malformed":    "garbage",
		"wrong secret": foreign,
	} {
		t.Run(name, func(t *testing.T) {
			for _, path := range []string{"/auth/verify", "/api/users/" + strings.Repeat("a", 24)} {
				rec := s.do(http.MethodGet, path, nil, token)
				assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
				assert.Equal(t, "Invalid or missing token", errorBody(t, rec), path)
			}
		})
	}
}
