package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"employee-directory/internal/auth"
	"employee-directory/internal/graphql"
	"employee-directory/internal/repository/memory"
	"employee-directory/internal/service"
	"employee-directory/internal/storage"
)

type memStorage struct {
	objects map[string][]byte
}

func (m *memStorage) Upload(_ context.Context, bucket, key string, body io.Reader, _ string) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = b
	return storage.Location(bucket, key), nil
}

func (m *memStorage) DeletePrefix(context.Context, string, string) error { return nil }

func (m *memStorage) GetObjectURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://" + bucket + "/" + key, nil
}

type server struct {
	router    *gin.Engine
	issuer    *auth.TokenIssuer
	employees service.EmployeeService
	store     *memStorage
}

func newServer(t *testing.T, opts Options) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()

	issuer, err := auth.NewTokenIssuer("http-secret")
	require.NoError(t, err)
	store := &memStorage{objects: make(map[string][]byte)}

	users := service.NewUserService(memory.NewUserRepository(), auth.NewBcryptHasher(bcrypt.MinCost), issuer)
	employees := service.NewEmployeeService(memory.NewEmployeeRepository(), store, service.StorageOptions{Bucket: "photos"}, logger)
	schema, err := graphql.NewSchema(users, employees, graphql.Options{ProtectEmployees: opts.ProtectEmployees, Logger: logger})
	require.NoError(t, err)

	router := gin.New()
	NewHandler(schema, users, employees, opts, logger).RegisterRoutes(router)
	return &server{router: router, issuer: issuer, employees: employees, store: store}
}

func (s *server) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func graphqlRequest(t *testing.T, query string, vars map[string]interface{}, token string) *http.Request {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) gqlResponse {
	t.Helper()
	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	s := newServer(t, Options{})

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newServer(t, Options{})

	rec := s.do(httptest.NewRequest(http.MethodOptions, "/graphql", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestGraphiQLToggle(t *testing.T) {
	on := newServer(t, Options{GraphiQL: true})
	rec := on.do(httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graphiql")

	off := newServer(t, Options{})
	rec = off.do(httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGraphQLSignupLoginMe(t *testing.T) {
	s := newServer(t, Options{})

	rec := s.do(graphqlRequest(t, `mutation { signup(username: "alice", email: "alice@example.com", password: "longenough1") { id } }`, nil, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode(t, rec).Errors)

	rec = s.do(graphqlRequest(t, `{ login(email: "alice@example.com", password: "longenough1") { token } }`, nil, ""))
	resp := decode(t, rec)
	require.Empty(t, resp.Errors)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["login"], &login))
	require.NotEmpty(t, login.Token)

	rec = s.do(graphqlRequest(t, `{ me { email } }`, nil, login.Token))
	resp = decode(t, rec)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"email":"alice@example.com"}`, string(resp.Data["me"]))
}

func TestGraphQLProtectedEmployees(t *testing.T) {
	s := newServer(t, Options{ProtectEmployees: true})

	rec := s.do(graphqlRequest(t, `{ employees { id } }`, nil, ""))
	resp := decode(t, rec)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "no token provided", resp.Errors[0].Message)
	assert.Equal(t, "AUTH", resp.Errors[0].Extensions["code"])

	tok, err := s.issuer.Issue("u1")
	require.NoError(t, err)
	rec = s.do(graphqlRequest(t, `{ employees { id } }`, nil, tok))
	resp = decode(t, rec)
	assert.Empty(t, resp.Errors)
	assert.JSONEq(t, `[]`, string(resp.Data["employees"]))
}

func photoRequest(t *testing.T, id, token, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="photo"; filename="me.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("pixels"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/employees/"+id+"/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestUploadPhoto(t *testing.T) {
	s := newServer(t, Options{ProtectEmployees: true})
	e, err := s.employees.Create(context.Background(), service.EmployeeInput{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Gender: "Female",
		Designation: "Engineer", Salary: 5000, DateOfJoining: "2023-04-01", Department: "R&D",
	})
	require.NoError(t, err)

	rec := s.do(photoRequest(t, e.ID, "", "image/png"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"no token provided","code":"AUTH"}`, rec.Body.String())

	tok, err := s.issuer.Issue("u1")
	require.NoError(t, err)

	rec = s.do(photoRequest(t, e.ID, tok, "text/plain"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(photoRequest(t, "missing", tok, "image/png"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(photoRequest(t, e.ID, tok, "image/png"))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["employee_photo"], "s3://photos/employees/"+e.ID+"/")
	assert.Contains(t, body["employee_photo_url"], "https://photos/employees/"+e.ID+"/")
	assert.Len(t, s.store.objects, 1)
}

func TestUploadPhoto_MissingFile(t *testing.T) {
	s := newServer(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/employees/x/photo", nil)
	rec := s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
