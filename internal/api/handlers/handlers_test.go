package handlers_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clientdesk/clientdesk/internal/api"
	"github.com/clientdesk/clientdesk/internal/database/models"
	"github.com/clientdesk/clientdesk/internal/testutil"
)

// newTestServer wires the full router against an in-memory database so
// handler tests exercise the real middleware chain and routes.
func newTestServer(t *testing.T) (*testutil.TestSetup, http.Handler) {
	t.Helper()

	ts := testutil.NewTestContext(t)
	t.Cleanup(ts.Cleanup)

	router := api.NewRouter(api.RouterConfig{
		DB:          ts.DB,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		JWTService:  ts.JWTService,
		AuthService: ts.AuthService,
	})
	return ts, router
}

// otherUser creates a second account with its own token, for cross-tenant
// visibility tests.
func otherUser(t *testing.T, ts *testutil.TestSetup) (*models.User, string) {
	t.Helper()

	user := testutil.CreateTestUser(t, ts.DB)
	token := testutil.GenerateTestToken(t, ts.JWTService, user)
	return user, token
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
