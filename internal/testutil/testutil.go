package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clientdesk/clientdesk/internal/auth"
	"github.com/clientdesk/clientdesk/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.Client{},
		&models.Payment{},
		&models.Project{},
		&models.Task{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TestPassword is the password every fixture user is created with.
const TestPassword = "testpassword123"

// CreateTestUser creates a test user with a unique email
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base:         models.Base{ID: uuid.New()},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		FullName:     "Test User",
		Company:      "Test Co",
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestClient creates a client owned by the given user
func CreateTestClient(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Client {
	t.Helper()

	client := &models.Client{
		Base:    models.Base{ID: uuid.New()},
		Name:    "Test Client",
		Email:   "client-" + uuid.New().String()[:8] + "@example.com",
		Phone:   "+1234567890",
		Company: "Client Co",
		UserID:  userID,
	}

	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}

	return client
}

// CreateTestPayment creates a payment for the given client and user
func CreateTestPayment(t *testing.T, db *gorm.DB, userID, clientID uuid.UUID) *models.Payment {
	t.Helper()

	payment := &models.Payment{
		Base:          models.Base{ID: uuid.New()},
		Amount:        100.50,
		Currency:      "USD",
		Status:        models.PaymentStatusPending,
		TransactionID: "TXN-" + uuid.New().String()[:12],
		ClientID:      clientID,
		UserID:        userID,
		PaymentDate:   time.Now(),
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("failed to create test payment: %v", err)
	}

	return payment
}

// CreateTestProject creates a project for the given client and user
func CreateTestProject(t *testing.T, db *gorm.DB, userID, clientID uuid.UUID) *models.Project {
	t.Helper()

	project := &models.Project{
		Base:     models.Base{ID: uuid.New()},
		Name:     "Test Project",
		Status:   models.ProjectStatusActive,
		ClientID: clientID,
		UserID:   userID,
	}

	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}

	return project
}

// CreateTestTask creates a task for the given project and user
func CreateTestTask(t *testing.T, db *gorm.DB, userID, projectID uuid.UUID) *models.Task {
	t.Helper()

	task := &models.Task{
		Base:      models.Base{ID: uuid.New()},
		Title:     "Test Task",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		ProjectID: projectID,
		UserID:    userID,
	}

	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	return task
}

// CreateTestResetToken persists a reset token for the given user
func CreateTestResetToken(t *testing.T, db *gorm.DB, userID uuid.UUID, expiresAt time.Time) *models.PasswordResetToken {
	t.Helper()

	raw, err := auth.GenerateResetToken()
	if err != nil {
		t.Fatalf("failed to generate reset token: %v", err)
	}

	token := &models.PasswordResetToken{
		Base:      models.Base{ID: uuid.New()},
		UserID:    userID,
		Token:     raw,
		ExpiresAt: expiresAt,
	}

	if err := db.Create(token).Error; err != nil {
		t.Fatalf("failed to create test reset token: %v", err)
	}

	return token
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB          *gorm.DB
	JWTService  *auth.JWTService
	AuthService *auth.Service
	User        *models.User
	Token       string
}

// NewTestContext creates a complete test setup with DB, user, and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	authService := auth.NewService(db, jwtService, nil, time.Hour, "http://localhost:3000", nil)
	user := CreateTestUser(t, db)
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:          db,
		JWTService:  jwtService,
		AuthService: authService,
		User:        user,
		Token:       token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
