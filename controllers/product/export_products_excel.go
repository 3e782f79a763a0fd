package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const excelTimeFormat = "2006-01-02 15:04:05"

func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.WithContext(c.Request.Context()).Order("created_at asc").Find(&products).Error; err != nil {
			controllers.RespondError(c, err, "Failed to fetch products")
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range excelHeaders {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()

			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.Price.StringFixed(2))
			comparePrice := ""
			if p.ComparePrice != nil {
				comparePrice = p.ComparePrice.StringFixed(2)
			}
			row.AddCell().SetValue(comparePrice)
			row.AddCell().SetValue(strconv.Itoa(p.InventoryCount))
			row.AddCell().SetValue(strings.Join(p.Images, ","))
			categoryID := ""
			if p.CategoryID != nil {
				categoryID = *p.CategoryID
			}
			row.AddCell().SetValue(categoryID)
			row.AddCell().SetValue(strconv.FormatBool(p.IsFeatured))
			row.AddCell().SetValue(p.CreatedAt.Format(excelTimeFormat))
			row.AddCell().SetValue(p.UpdatedAt.Format(excelTimeFormat))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			zap.L().Error("failed to write Excel file", zap.Error(err))
			return
		}
	}
}
