// Package controllertest has helpers shared by the handler tests.
package controllertest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront-api/database"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a fresh migrated in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(uuid.NewString())
	require.NoError(t, err)
	return db
}

// NewRouter returns a gin engine in test mode.
func NewRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// AsUser installs a middleware that authenticates every request as userID.
func AsUser(r *gin.Engine, userID string, admin bool) {
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("is_admin", admin)
		c.Next()
	})
}

// JSON performs a request with body marshalled as JSON (nil for none).
func JSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Multipart posts a single file under field.
func Multipart(t *testing.T, r http.Handler, method, path, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Decode unmarshals the recorded body into dst.
func Decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

// SeedProduct inserts a product priced at price with stock units.
func SeedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) models.Product {
	t.Helper()
	p := models.Product{
		Name:           name,
		Price:          decimal.RequireFromString(price),
		InventoryCount: stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// SeedUser inserts a user with a throwaway password hash.
func SeedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	u := models.User{Email: email, PasswordHash: "x", FullName: "Test User"}
	require.NoError(t, db.Create(&u).Error)
	return u
}
