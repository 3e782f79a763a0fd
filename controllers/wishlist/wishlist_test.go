package wishlistControllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/controllertest"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T, userID string, db *gorm.DB) *gin.Engine {
	t.Helper()
	r := controllertest.NewRouter()
	controllertest.AsUser(r, userID, false)
	r.GET("/user/wishlist", GetWishlist(db))
	r.POST("/user/wishlist", AddToWishlist(db))
	r.DELETE("/user/wishlist", ClearWishlist(db))
	r.DELETE("/user/wishlist/:id", RemoveFromWishlist(db))
	r.GET("/user/wishlist/status/:product_id", CheckWishlistStatus(db))
	r.POST("/user/wishlist/:id/move-to-cart", MoveToCart(db))
	return r
}

type listResponse struct {
	Items []models.WishlistItem `json:"items"`
	Total int64                 `json:"total"`
}

func TestWishlist_AddIsIdempotent(t *testing.T) {
	db := controllertest.NewDB(t)
	user := controllertest.SeedUser(t, db, "w@example.com")
	r := setup(t, user.ID, db)
	p := controllertest.SeedProduct(t, db, "Lamp", "30.00", 1)

	w := controllertest.JSON(t, r, http.MethodPost, "/user/wishlist", gin.H{"product_id": p.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first models.WishlistItem
	controllertest.Decode(t, w, &first)

	w = controllertest.JSON(t, r, http.MethodPost, "/user/wishlist", gin.H{"product_id": p.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var second models.WishlistItem
	controllertest.Decode(t, w, &second)
	assert.Equal(t, first.ID, second.ID)

	w = controllertest.JSON(t, r, http.MethodPost, "/user/wishlist", gin.H{"product_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = controllertest.JSON(t, r, http.MethodGet, "/user/wishlist/status/"+p.ID, nil)
	assert.JSONEq(t, `{"in_wishlist":true,"item_id":"`+first.ID+`"}`, w.Body.String())
}

func TestWishlist_TotalSkipsRemovedProducts(t *testing.T) {
	db := controllertest.NewDB(t)
	user := controllertest.SeedUser(t, db, "w@example.com")
	r := setup(t, user.ID, db)
	lamp := controllertest.SeedProduct(t, db, "Lamp", "30.00", 1)
	mug := controllertest.SeedProduct(t, db, "Mug", "10.00", 1)
	for _, p := range []models.Product{lamp, mug} {
		require.NoError(t, db.Create(&models.WishlistItem{UserID: user.ID, ProductID: p.ID}).Error)
	}
	require.NoError(t, db.Delete(&models.Product{}, "id = ?", lamp.ID).Error)

	w := controllertest.JSON(t, r, http.MethodGet, "/user/wishlist", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list listResponse
	controllertest.Decode(t, w, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, mug.ID, list.Items[0].ProductID)
	assert.EqualValues(t, 1, list.Total)
}

func TestWishlist_RemoveExactlyOne(t *testing.T) {
	db := controllertest.NewDB(t)
	user := controllertest.SeedUser(t, db, "w@example.com")
	other := controllertest.SeedUser(t, db, "other@example.com")
	r := setup(t, user.ID, db)

	var mine []models.WishlistItem
	for _, name := range []string{"A", "B", "C"} {
		p := controllertest.SeedProduct(t, db, name, "1.00", 1)
		item := models.WishlistItem{UserID: user.ID, ProductID: p.ID}
		require.NoError(t, db.Create(&item).Error)
		mine = append(mine, item)
		require.NoError(t, db.Create(&models.WishlistItem{UserID: other.ID, ProductID: p.ID}).Error)
	}

	w := controllertest.JSON(t, r, http.MethodDelete, "/user/wishlist/"+mine[1].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var remaining []models.WishlistItem
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&remaining).Error)
	require.Len(t, remaining, 2)
	for _, item := range remaining {
		assert.NotEqual(t, mine[1].ID, item.ID)
	}

	var othersCount int64
	require.NoError(t, db.Model(&models.WishlistItem{}).Where("user_id = ?", other.ID).Count(&othersCount).Error)
	assert.Equal(t, int64(3), othersCount)

	w = controllertest.JSON(t, r, http.MethodDelete, "/user/wishlist/"+mine[1].ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Another user's row cannot be removed through this account.
	var foreign models.WishlistItem
	require.NoError(t, db.Where("user_id = ?", other.ID).First(&foreign).Error)
	w = controllertest.JSON(t, r, http.MethodDelete, "/user/wishlist/"+foreign.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var list listResponse
	w = controllertest.JSON(t, r, http.MethodGet, "/user/wishlist", nil)
	controllertest.Decode(t, w, &list)
	assert.Equal(t, int64(2), list.Total)
	require.Len(t, list.Items, 2)
	assert.NotNil(t, list.Items[0].Product)

	w = controllertest.JSON(t, r, http.MethodDelete, "/user/wishlist", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = controllertest.JSON(t, r, http.MethodGet, "/user/wishlist", nil)
	controllertest.Decode(t, w, &list)
	assert.Empty(t, list.Items)
}

func TestWishlist_MoveToCart(t *testing.T) {
	db := controllertest.NewDB(t)
	user := controllertest.SeedUser(t, db, "w@example.com")
	r := setup(t, user.ID, db)

	inStock := controllertest.SeedProduct(t, db, "Lamp", "30.00", 2)
	soldOut := controllertest.SeedProduct(t, db, "Rug", "80.00", 0)
	a := models.WishlistItem{UserID: user.ID, ProductID: inStock.ID}
	b := models.WishlistItem{UserID: user.ID, ProductID: soldOut.ID}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	w := controllertest.JSON(t, r, http.MethodPost, "/user/wishlist/"+a.ID+"/move-to-cart", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = controllertest.JSON(t, r, http.MethodPost, "/user/wishlist/"+b.ID+"/move-to-cart", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var cart []models.CartItem
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&cart).Error)
	require.Len(t, cart, 1)
	assert.Equal(t, inStock.ID, cart[0].ProductID)

	var left []models.WishlistItem
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, b.ID, left[0].ID)
}
