package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/oleamind/cropplanner/internal/api/userstore"
)

func setupAuthTestHandlers(t *testing.T) AuthHandlers {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("Skipping test: TEST_DB_HOST not set")
	}
	dsn := fmt.Sprintf("host=%s user=postgres password=postgres dbname=cropplanner_test port=5432 sslmode=disable", host)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store := userstore.New(db)
	require.NoError(t, store.Migrate())
	db.Exec("DELETE FROM sessions")
	db.Exec("DELETE FROM users")

	return AuthHandlers{Store: store, JWTSecret: "test-secret"}
}

func newAuthTestRouter(h AuthHandlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
	return router
}

func TestRegister_CreatesAccountAndReturnsToken(t *testing.T) {
	h := setupAuthTestHandlers(t)
	router := newAuthTestRouter(h)

	body, _ := json.Marshal(registerBody{Email: "new@example.com", Password: "password123", FirstName: "New"})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "token")
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	h := setupAuthTestHandlers(t)
	router := newAuthTestRouter(h)

	body, _ := json.Marshal(registerBody{Email: "dup@example.com", Password: "password123"})
	req1 := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req1.Header.Set("Content-Type", "application/json")
	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, req1)
	require.Equal(t, http.StatusCreated, w1.Code)

	req2 := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusBadRequest, w2.Code)
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	h := setupAuthTestHandlers(t)
	router := newAuthTestRouter(h)

	registerReq, _ := json.Marshal(registerBody{Email: "login@example.com", Password: "correct-password"})
	r1 := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(registerReq))
	r1.Header.Set("Content-Type", "application/json")
	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, r1)
	require.Equal(t, http.StatusCreated, w1.Code)

	loginReq, _ := json.Marshal(loginBody{Email: "login@example.com", Password: "wrong-password"})
	r2 := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(loginReq))
	r2.Header.Set("Content-Type", "application/json")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, r2)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestLogin_AcceptsCorrectCredentials(t *testing.T) {
	h := setupAuthTestHandlers(t)
	router := newAuthTestRouter(h)

	registerReq, _ := json.Marshal(registerBody{Email: "ok@example.com", Password: "correct-password"})
	r1 := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(registerReq))
	r1.Header.Set("Content-Type", "application/json")
	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, r1)
	require.Equal(t, http.StatusCreated, w1.Code)

	loginReq, _ := json.Marshal(loginBody{Email: "ok@example.com", Password: "correct-password"})
	r2 := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(loginReq))
	r2.Header.Set("Content-Type", "application/json")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, r2)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := setupAuthTestHandlers(t)
	router := newAuthTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Authorization=;")
}
