package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"qaboard/internal/middleware"
	"qaboard/internal/router"
	"qaboard/internal/services"
	"qaboard/internal/store"
	"qaboard/internal/testutil"
	"qaboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	engine *gin.Engine
	store  *store.Store
	auth   *services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := testutil.NewStore(t)
	cache, err := utils.NewCache(16)
	require.NoError(t, err)
	auth := services.NewAuthService(s.Users, testutil.AuthConfig())

	r := router.New(router.Deps{Store: s, Auth: auth, Cache: cache}, zerolog.Nop())
	return &testServer{engine: r, store: s, auth: auth}
}

// do 发送请求，token 非空时以 cookie 形式携带
func (ts *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

// signup registers a user and returns the session token from the cookie.
func (ts *testServer) signup(t *testing.T, username string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/user/signup", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return tokenCookie(t, rec)
}

func tokenCookie(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			return c.Value
		}
	}
	t.Fatalf("no %s cookie in response", middleware.TokenCookie)
	return ""
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type messageBody struct {
	Message string `json:"message"`
}

func (ts *testServer) doWithHeader(t *testing.T, method, path, key, value string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(key, value)
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}
