package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clientdesk/clientdesk/internal/api/middleware"
	"github.com/clientdesk/clientdesk/internal/auth"
	"github.com/clientdesk/clientdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthGate(t *testing.T) (*gorm.DB, *auth.JWTService, http.Handler, *bool) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	jwtService := testutil.CreateTestJWTService()
	authService := auth.NewService(db, jwtService, nil, time.Hour, "http://localhost:3000", nil)

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		assert.NotNil(t, middleware.GetUser(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	gate := middleware.Auth(jwtService, authService)(next)
	return db, jwtService, gate, &reached
}

func TestAuth_ValidToken(t *testing.T) {
	db, jwtService, gate, reached := setupAuthGate(t)

	user := testutil.CreateTestUser(t, db)
	token := testutil.GenerateTestToken(t, jwtService, user)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, *reached)
}

func TestAuth_InjectsCaller(t *testing.T) {
	db := testutil.SetupTestDB(t)
	jwtService := testutil.CreateTestJWTService()
	authService := auth.NewService(db, jwtService, nil, time.Hour, "http://localhost:3000", nil)

	user := testutil.CreateTestUser(t, db)
	token := testutil.GenerateTestToken(t, jwtService, user)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.GetUser(r.Context())
		require.NotNil(t, caller)
		assert.Equal(t, user.ID, caller.ID)
		assert.Equal(t, user.Email, caller.Email)
		assert.Equal(t, user.ID, middleware.GetUserID(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	middleware.Auth(jwtService, authService)(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuth_Rejections(t *testing.T) {
	db, jwtService, gate, reached := setupAuthGate(t)

	user := testutil.CreateTestUser(t, db)
	validToken := testutil.GenerateTestToken(t, jwtService, user)

	// Token signed by a different key
	otherToken, err := auth.NewJWTService("some-other-secret", time.Hour).GenerateToken(user.ID, user.Email)
	require.NoError(t, err)

	// Token that has already expired
	expiredToken, err := auth.NewJWTService("test-secret-key-for-testing", -time.Minute).GenerateToken(user.ID, user.Email)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + validToken},
		{"lowercase scheme", "bearer " + validToken},
		{"no token", "Bearer"},
		{"empty token", "Bearer "},
		{"extra parts", "Bearer " + validToken + " extra"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong signing key", "Bearer " + otherToken},
		{"expired token", "Bearer " + expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*reached = false

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			gate.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.False(t, *reached)

			var body map[string]string
			testutil.ParseJSONResponse(t, rr, &body)
			assert.Equal(t, "Unauthorized", body["error"])
		})
	}
}

func TestAuth_DeletedUser(t *testing.T) {
	db, jwtService, gate, reached := setupAuthGate(t)

	user := testutil.CreateTestUser(t, db)
	token := testutil.GenerateTestToken(t, jwtService, user)

	// A token minted before the account was removed must stop working.
	require.NoError(t, db.Delete(user).Error)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, *reached)
}
