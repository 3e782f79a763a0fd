package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront-api/database"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "test-secret"

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.OpenMemory(uuid.NewString())
	require.NoError(t, err)

	r := gin.New()
	r.POST("/auth/signup", SignUp(db, secret))
	r.POST("/auth/signin", SignIn(db, secret))
	return r, db
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignUpAndSignIn(t *testing.T) {
	r, db := setupRouter(t)

	w := postJSON(r, "/auth/signup", gin.H{"email": " Ann@Example.com ", "password": "secret1", "full_name": "Ann"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ann@example.com", resp.User.Email)
	assert.NotContains(t, w.Body.String(), "password")

	claims, err := ParseToken(secret, "Bearer "+resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)

	var stored models.User
	require.NoError(t, db.First(&stored, "email = ?", "ann@example.com").Error)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	w = postJSON(r, "/auth/signin", gin.H{"email": "ann@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/auth/signin", gin.H{"email": "ann@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/auth/signin", gin.H{"email": "nobody@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignUp_Rejections(t *testing.T) {
	r, _ := setupRouter(t)

	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/auth/signup", gin.H{"email": "a@b.co"}).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/auth/signup", gin.H{"email": "not-an-email", "password": "secret1"}).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/auth/signup", gin.H{"email": "a@b.co", "password": "123"}).Code)

	require.Equal(t, http.StatusCreated, postJSON(r, "/auth/signup", gin.H{"email": "a@b.co", "password": "secret1"}).Code)
	assert.Equal(t, http.StatusConflict, postJSON(r, "/auth/signup", gin.H{"email": "A@B.co", "password": "secret1"}).Code)
}

func TestCreateUser_Admin(t *testing.T) {
	_, db := setupRouter(t)
	user, err := CreateUser(context.Background(), db, "boss@example.com", "secret1", "Boss", true)
	require.NoError(t, err)

	token, err := IssueToken(secret, user)
	require.NoError(t, err)
	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "boss@example.com", claims.Email)
}

func TestParseToken_Rejects(t *testing.T) {
	user := &models.User{ID: "u1", Email: "u@example.com"}
	token, err := IssueToken(secret, user)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseToken(secret, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u1"})
	signed, err = noExp.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseToken(secret, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
