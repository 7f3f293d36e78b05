// Package testutil holds shared fixtures for package tests: an in-memory
// database, a wired router, and request helpers.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pollhub-dev/pollhub/db"
	"github.com/pollhub-dev/pollhub/internal/auth"
	"github.com/pollhub-dev/pollhub/internal/models"
	"github.com/pollhub-dev/pollhub/internal/router"
)

// SetupTestDB opens a fresh in-memory database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Each sqlite connection would get its own empty :memory: database,
	// so pin the pool to one.
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("Failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return conn
}

// SetupRouter wires a full router over a fresh test database.
func SetupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	if err := auth.InitJWTSecret(); err != nil {
		t.Fatalf("Failed to init JWT secret: %v", err)
	}

	conn := SetupTestDB(t)

	return router.NewRouter(conn), conn
}

// CreateTestUser inserts a user whose password is "password123".
func CreateTestUser(t *testing.T, conn *gorm.DB, name, email string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// TokenFor returns a session token for the user.
func TokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	return token
}

// CreateTestPoll inserts a poll with the given option texts and returns it
// with options loaded in position order.
func CreateTestPoll(t *testing.T, conn *gorm.DB, creatorID uint, title string, options []string) models.Poll {
	t.Helper()

	poll := models.Poll{
		Title:     title,
		CreatorID: creatorID,
		IsActive:  true,
	}

	if err := conn.Create(&poll).Error; err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for i, text := range options {
		option := models.PollOption{PollID: poll.ID, Text: text, Position: i}

		if err := conn.Create(&option).Error; err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
	}

	if err := conn.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&poll, poll.ID).Error; err != nil {
		t.Fatalf("Failed to reload test poll: %v", err)
	}

	return poll
}

// ExpireTestPoll backdates the poll's expiry.
func ExpireTestPoll(t *testing.T, conn *gorm.DB, pollID uint) {
	t.Helper()

	past := time.Now().Add(-time.Hour)

	if err := conn.Model(&models.Poll{}).Where("id = ?", pollID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("Failed to expire test poll: %v", err)
	}
}

// MakeRequest builds an HTTP test request with an optional JSON body and
// Bearer token.
func MakeRequest(method, path string, body interface{}, token string) *http.Request {
	var req *http.Request

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// AssertStatus checks the recorded status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()

	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into v.
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
