package adminController

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/controllertest"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupHero(t *testing.T) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	db := controllertest.NewDB(t)
	dir := t.TempDir()
	up := storage.NewLocal(dir, "")

	r := controllertest.NewRouter()
	r.GET("/hero", GetActiveHero(db))
	r.GET("/admin/hero", GetAdminHero(db))
	r.GET("/admin/hero/all", ListHeroes(db))
	r.POST("/admin/hero", CreateHero(db))
	r.PUT("/admin/hero/:id", UpdateHero(db))
	r.POST("/admin/hero/:id/activate", ActivateHero(db))
	r.POST("/admin/hero/:id/images", UploadHeroImage(db, up))
	r.DELETE("/admin/hero/:id/images/:index", RemoveHeroImage(db, up))
	return r, db, dir
}

func activeHeroIDs(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var ids []string
	require.NoError(t, db.Model(&models.HeroContent{}).Where("is_active = ?", true).Pluck("id", &ids).Error)
	return ids
}

func TestHero_DefaultAndActivation(t *testing.T) {
	r, db, _ := setupHero(t)

	w := controllertest.JSON(t, r, http.MethodGet, "/hero", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	w = controllertest.JSON(t, r, http.MethodGet, "/admin/hero", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var def models.HeroContent
	controllertest.Decode(t, w, &def)
	assert.Equal(t, models.DefaultHeroContent().Title, def.Title)
	assert.Equal(t, []string{def.ID}, activeHeroIDs(t, db))

	// A second call returns the same row instead of inserting again.
	w = controllertest.JSON(t, r, http.MethodGet, "/admin/hero", nil)
	var again models.HeroContent
	controllertest.Decode(t, w, &again)
	assert.Equal(t, def.ID, again.ID)

	w = controllertest.JSON(t, r, http.MethodPost, "/admin/hero", gin.H{"title": "Summer Sale", "is_active": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var summer models.HeroContent
	controllertest.Decode(t, w, &summer)
	assert.Equal(t, []string{summer.ID}, activeHeroIDs(t, db))

	w = controllertest.JSON(t, r, http.MethodPost, "/admin/hero/"+def.ID+"/activate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{def.ID}, activeHeroIDs(t, db))

	w = controllertest.JSON(t, r, http.MethodPost, "/admin/hero/missing/activate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{def.ID}, activeHeroIDs(t, db))

	w = controllertest.JSON(t, r, http.MethodPut, "/admin/hero/"+summer.ID, gin.H{"subtitle": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = controllertest.JSON(t, r, http.MethodGet, "/admin/hero/all", nil)
	var all []models.HeroContent
	controllertest.Decode(t, w, &all)
	assert.Len(t, all, 2)
}

func TestHero_UpdateKeepsActiveFlagWhenOmitted(t *testing.T) {
	r, db, _ := setupHero(t)

	w := controllertest.JSON(t, r, http.MethodPost, "/admin/hero", gin.H{"title": "Summer Sale", "is_active": true})
	require.Equal(t, http.StatusCreated, w.Code)
	var summer models.HeroContent
	controllertest.Decode(t, w, &summer)

	w = controllertest.JSON(t, r, http.MethodPut, "/admin/hero/"+summer.ID, gin.H{"title": "Summer Sale", "subtitle": "Up to 50% off"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{summer.ID}, activeHeroIDs(t, db))

	w = controllertest.JSON(t, r, http.MethodGet, "/hero", nil)
	var served models.HeroContent
	controllertest.Decode(t, w, &served)
	assert.Equal(t, "Up to 50% off", served.Subtitle)

	w = controllertest.JSON(t, r, http.MethodPut, "/admin/hero/"+summer.ID, gin.H{"title": "Summer Sale", "is_active": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, activeHeroIDs(t, db))

	// Omitted on create means inactive.
	w = controllertest.JSON(t, r, http.MethodPost, "/admin/hero", gin.H{"title": "Draft"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, activeHeroIDs(t, db))
}

func TestHero_Images(t *testing.T) {
	r, db, dir := setupHero(t)
	hero := models.DefaultHeroContent()
	require.NoError(t, db.Create(&hero).Error)

	for _, name := range []string{"one.png", "two.png"} {
		w := controllertest.Multipart(t, r, http.MethodPost, "/admin/hero/"+hero.ID+"/images", "image", name, []byte("png"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w := controllertest.Multipart(t, r, http.MethodPost, "/admin/hero/"+hero.ID+"/images", "image", "notes.txt", []byte("txt"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored models.HeroContent
	require.NoError(t, db.First(&stored, "id = ?", hero.ID).Error)
	require.Len(t, stored.Images, 2)
	assert.True(t, strings.HasSuffix(stored.Images[0], "_one.png"))

	first := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(stored.Images[0], storage.PublicPrefix+"/")))
	_, err := os.Stat(first)
	require.NoError(t, err)

	w = controllertest.JSON(t, r, http.MethodDelete, "/admin/hero/"+hero.ID+"/images/5", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = controllertest.JSON(t, r, http.MethodDelete, "/admin/hero/"+hero.ID+"/images/0", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&stored, "id = ?", hero.ID).Error)
	require.Len(t, stored.Images, 1)
	assert.True(t, strings.HasSuffix(stored.Images[0], "_two.png"))
	_, err = os.Stat(first)
	assert.True(t, os.IsNotExist(err))
}

func TestGrantAndRevokeAdmin(t *testing.T) {
	db := controllertest.NewDB(t)
	user := controllertest.SeedUser(t, db, "staff@example.com")
	r := controllertest.NewRouter()
	r.GET("/admin/admins", ListAdmins(db))
	r.POST("/admin/admins/grant", GrantAdmin(db))
	r.POST("/admin/admins/revoke", RevokeAdmin(db))

	w := controllertest.JSON(t, r, http.MethodPost, "/admin/admins/grant", gin.H{"email": " Staff@Example.com "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = controllertest.JSON(t, r, http.MethodGet, "/admin/admins", nil)
	var admins []models.User
	controllertest.Decode(t, w, &admins)
	require.Len(t, admins, 1)
	assert.Equal(t, user.ID, admins[0].ID)

	w = controllertest.JSON(t, r, http.MethodPost, "/admin/admins/revoke", gin.H{"email": "staff@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.False(t, stored.IsAdmin)

	w = controllertest.JSON(t, r, http.MethodPost, "/admin/admins/grant", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = controllertest.JSON(t, r, http.MethodPost, "/admin/admins/grant", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDashboard(t *testing.T) {
	db := controllertest.NewDB(t)
	user := controllertest.SeedUser(t, db, "buyer@example.com")
	controllertest.SeedProduct(t, db, "Lamp", "30.00", 2)
	controllertest.SeedProduct(t, db, "Chair", "80.00", 0)
	require.NoError(t, db.Create(&models.Message{Name: "A", Email: "a@example.com", Message: "hi"}).Error)

	for i, st := range []models.PaymentStatus{models.PaymentStatusPaid, models.PaymentStatusPending} {
		order := models.Order{
			OrderRef:      "ORD-" + string(rune('A'+i)),
			UserID:        user.ID,
			Subtotal:      decimal.RequireFromString("30.00"),
			ShippingCost:  decimal.RequireFromString("5.00"),
			TotalAmount:   decimal.RequireFromString("35.00"),
			Status:        models.OrderStatusPending,
			PaymentStatus: st,
		}
		require.NoError(t, db.Create(&order).Error)
	}

	r := controllertest.NewRouter()
	r.GET("/admin/dashboard", GetDashboard(db))
	w := controllertest.JSON(t, r, http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Counts         map[string]int64 `json:"counts"`
		UnreadMessages int64            `json:"unread_messages"`
		PendingOrders  int64            `json:"pending_orders"`
		OutOfStock     int64            `json:"out_of_stock"`
		Revenue        decimal.Decimal  `json:"revenue"`
	}
	controllertest.Decode(t, w, &body)
	assert.Equal(t, int64(2), body.Counts["products"])
	assert.Equal(t, int64(2), body.Counts["orders"])
	assert.Equal(t, int64(1), body.Counts["users"])
	assert.Equal(t, int64(0), body.Counts["categories"])
	assert.Equal(t, int64(1), body.UnreadMessages)
	assert.Equal(t, int64(2), body.PendingOrders)
	assert.Equal(t, int64(1), body.OutOfStock)
	assert.True(t, decimal.RequireFromString("35").Equal(body.Revenue), body.Revenue.String())
}
