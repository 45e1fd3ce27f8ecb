package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/m3rcey/crwn/testutils"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func TestRegister_FanSuccess(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = (.+)`).
		WithArgs("fan@example.com", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("user-uuid-1"))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/register", Register)

	userData := map[string]string{
		"email":    "fan@example.com",
		"password": "Password123",
	}
	jsonData, _ := json.Marshal(userData)

	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "User created successfully", respBody["message"])
	assert.Equal(t, "fan@example.com", respBody["email"])

	// no artist profile is created for a fan
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_ArtistCreatesProfile(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = (.+)`).
		WithArgs("artist@example.com", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("user-uuid-1"))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "artist_profiles" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("artist-uuid-1"))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/register", Register)

	userData := map[string]string{
		"email":       "artist@example.com",
		"password":    "Password123",
		"displayName": "The Quiet Ones",
		"role":        "ARTIST",
	}
	jsonData, _ := json.Marshal(userData)

	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_EmailAlreadyUsed(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "email"}).
		AddRow("user-uuid-1", "fan@example.com")

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = (.+)`).
		WithArgs("fan@example.com", 1).
		WillReturnRows(rows)

	r := testutils.SetupTestRouter()
	r.POST("/register", Register)

	userData := map[string]string{
		"email":    "fan@example.com",
		"password": "Password123",
	}
	jsonData, _ := json.Marshal(userData)

	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["error"], "already used")
}

func TestRegister_WeakPassword(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.POST("/register", Register)

	userData := map[string]string{
		"email":    "fan@example.com",
		"password": "password",
	}
	jsonData, _ := json.Marshal(userData)

	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["error"], "uppercase")
}

func TestRegister_InvalidRole(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.POST("/register", Register)

	userData := map[string]string{
		"email":    "fan@example.com",
		"password": "Password123",
		"role":     "ADMIN",
	}
	jsonData, _ := json.Marshal(userData)

	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["error"], "Role must be FAN or ARTIST")
}

func TestLogin_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	os.Setenv("JWT_SECRET", "test-secret-key")
	defer os.Unsetenv("JWT_SECRET")

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	now := time.Now()

	rows := mock.NewRows([]string{"id", "email", "password", "display_name", "role", "enable", "created_at", "updated_at"}).
		AddRow("user-uuid-1", "fan@example.com", string(hash), "Fan One", "FAN", true, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = (.+)`).
		WithArgs("fan@example.com", 1).
		WillReturnRows(rows)

	r := testutils.SetupTestRouter()
	r.POST("/login", Login)

	loginData := map[string]string{
		"email":    "fan@example.com",
		"password": "Password123",
	}
	jsonData, _ := json.Marshal(loginData)

	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.NotEmpty(t, respBody["token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	now := time.Now()

	rows := mock.NewRows([]string{"id", "email", "password", "display_name", "role", "enable", "created_at", "updated_at"}).
		AddRow("user-uuid-1", "fan@example.com", string(hash), "Fan One", "FAN", true, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = (.+)`).
		WithArgs("fan@example.com", 1).
		WillReturnRows(rows)

	r := testutils.SetupTestRouter()
	r.POST("/login", Login)

	loginData := map[string]string{
		"email":    "fan@example.com",
		"password": "WrongPassword1",
	}
	jsonData, _ := json.Marshal(loginData)

	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Wrong credentials", respBody["error"])
}

func TestLogin_UnknownEmail(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = (.+)`).
		WithArgs("nobody@example.com", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.POST("/login", Login)

	loginData := map[string]string{
		"email":    "nobody@example.com",
		"password": "Password123",
	}
	jsonData, _ := json.Marshal(loginData)

	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_DisabledAccount(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	now := time.Now()

	rows := mock.NewRows([]string{"id", "email", "password", "display_name", "role", "enable", "created_at", "updated_at"}).
		AddRow("user-uuid-1", "fan@example.com", string(hash), "Fan One", "FAN", false, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = (.+)`).
		WithArgs("fan@example.com", 1).
		WillReturnRows(rows)

	r := testutils.SetupTestRouter()
	r.POST("/login", Login)

	loginData := map[string]string{
		"email":    "fan@example.com",
		"password": "Password123",
	}
	jsonData, _ := json.Marshal(loginData)

	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["error"], "disabled")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "the-quiet-ones-user-uui", slugify("The Quiet Ones", "user-uuid-1"))
	assert.Equal(t, "user-uui", slugify("!!!", "user-uuid-1"))
	assert.Equal(t, "dj-m3rcey-abc", slugify("DJ M3rcey", "abc"))
}
