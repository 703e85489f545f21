package handlers_test

import (
	"net/http"
	"testing"

	"github.com/clientdesk/clientdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHealthEndpoints(t *testing.T) {
	_, server := newTestServer(t)

	t.Run("health", func(t *testing.T) {
		rr := serve(server, testutil.UnauthenticatedRequest(t, http.MethodGet, "/health", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var body map[string]string
		testutil.ParseJSONResponse(t, rr, &body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("ready with database only", func(t *testing.T) {
		rr := serve(server, testutil.UnauthenticatedRequest(t, http.MethodGet, "/ready", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
	})
}
