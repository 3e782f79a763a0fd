package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

// Column layout shared by import and export.
var excelHeaders = []string{
	"ID", "Name", "Description", "Price", "ComparePrice",
	"InventoryCount", "Images", "CategoryID", "IsFeatured",
	"CreatedAt", "UpdatedAt",
}

const minImportColumns = 6

func parseExcelRow(get func(int) string) (models.Product, error) {
	var p models.Product

	p.ID = get(0)
	p.Name = get(1)
	p.Description = get(2)
	if p.Name == "" {
		return p, errors.New("missing name")
	}

	price, err := decimal.NewFromString(get(3))
	if err != nil {
		return p, errors.New("invalid price")
	}
	p.Price = price

	if v := get(4); v != "" {
		cp, err := decimal.NewFromString(v)
		if err != nil {
			return p, errors.New("invalid compare price")
		}
		p.ComparePrice = &cp
	}

	if v := get(5); v != "" {
		stock, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, errors.New("invalid inventory count")
		}
		p.InventoryCount = int(stock)
	}

	p.Images = []string{}
	for _, part := range strings.Split(get(6), ",") {
		if part = strings.TrimSpace(part); part != "" {
			p.Images = append(p.Images, part)
		}
	}
	if v := get(7); v != "" {
		p.CategoryID = &v
	}
	p.IsFeatured, _ = strconv.ParseBool(get(8))
	return p, nil
}

// ImportProductsFromExcel upserts products from the first sheet of the
// uploaded "file". Rows with a known ID update that product, the rest are
// created. Bad rows are skipped and counted.
func ImportProductsFromExcel(repo repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		ctx := c.Request.Context()
		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < len(sheet.Rows); i++ {
			row := sheet.Rows[i]
			if row == nil || len(row.Cells) < minImportColumns {
				skippedCount++
				continue
			}

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			product, err := parseExcelRow(get)
			if err != nil {
				zap.L().Debug("skipping import row", zap.Int("row", i+1), zap.Error(err))
				skippedCount++
				continue
			}

			if product.ID != "" {
				if _, err := repo.GetByID(ctx, product.ID); err == nil {
					if err := repo.Update(ctx, &product); err == nil {
						updatedCount++
					} else {
						zap.L().Warn("import update failed", zap.Int("row", i+1), zap.Error(err))
						skippedCount++
					}
					continue
				}
			}

			if err := repo.Create(ctx, &product); err == nil {
				createdCount++
			} else {
				zap.L().Warn("import create failed", zap.Int("row", i+1), zap.Error(err))
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
