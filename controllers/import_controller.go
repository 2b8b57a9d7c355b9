package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/parent-pal/api-go/models"
	"github.com/parent-pal/api-go/utils"
	"gorm.io/gorm"
)

type ImportController struct {
	DB *gorm.DB
}

func NewImportController(db *gorm.DB) *ImportController {
	return &ImportController{DB: db}
}

var productImportHeader = []string{"name", "brand", "category", "age_range", "price", "tags"}

const importBatchSize = 100

// ImportProducts godoc
// @Summary Bulk-import product recommendations from a CSV file
// @Description Expects a multipart "file" field with header name,brand,category,age_range,price,tags
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /imports/products [post]
func (ic *ImportController) ImportProducts(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	jobID := uuid.New().String()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is empty or unreadable"})
		return
	}

	if err := validateImportHeader(header); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var products []models.Product
	var rowErrors []string
	totalRows := 0
	line := 1 // header was line 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", line, err))
			totalRows++
			continue
		}
		totalRows++

		product, err := parseProductRow(record)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		product.RecommendedByID = currentUser.UserID
		product.ImportJobID = &jobID
		products = append(products, product)
	}

	job := models.ImportJob{
		ID:           jobID,
		UserID:       currentUser.UserID,
		Kind:         "products",
		FileName:     fileHeader.Filename,
		TotalRows:    totalRows,
		ImportedRows: len(products),
		FailedRows:   len(rowErrors),
		RowErrors:    pq.StringArray(rowErrors),
		CreatedAt:    time.Now(),
	}

	if len(rowErrors) == 0 {
		job.Status = models.ImportCompleted
	} else {
		job.Status = models.ImportCompletedWithErrors
	}

	// Valid rows and the job record land together or not at all
	tx := ic.DB.Begin()

	if len(products) > 0 {
		if err := tx.CreateInBatches(products, importBatchSize).Error; err != nil {
			tx.Rollback()
			job.Status = models.ImportFailed
			job.ImportedRows = 0
			job.FailedRows = totalRows
			if recordErr := ic.DB.Create(&job).Error; recordErr != nil {
				// No job row to point at, so don't hand out its id
				log.Printf("failed to record failed import job %s: %v", job.ID, recordErr)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import products"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import products", "import_id": job.ID})
			return
		}
	}

	if err := tx.Create(&job).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record import job"})
		return
	}

	activity := models.ActivityLog{
		UserID:    currentUser.UserID,
		Activity:  "products_imported",
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&activity).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity log"})
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    job,
		Message: fmt.Sprintf("Imported %d of %d rows", job.ImportedRows, job.TotalRows),
	})
}

// GetImportJob godoc
// @Summary Get the status of an import job
// @Tags imports
// @Produce json
// @Param importId path string true "Import job ID"
// @Success 200 {object} map[string]interface{}
// @Router /imports/{importId} [get]
func (ic *ImportController) GetImportJob(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	importID := c.Param("importId")

	// Jobs belonging to other users read as missing
	var job models.ImportJob
	if err := ic.DB.Where("id = ? AND user_id = ?", importID, currentUser.UserID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Import job not found"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    job,
	})
}

func validateImportHeader(header []string) error {
	if len(header) != len(productImportHeader) {
		return fmt.Errorf("expected CSV header %s", strings.Join(productImportHeader, ","))
	}
	for i, col := range header {
		if strings.ToLower(strings.TrimSpace(col)) != productImportHeader[i] {
			return fmt.Errorf("expected CSV header %s", strings.Join(productImportHeader, ","))
		}
	}
	return nil
}

func parseProductRow(record []string) (models.Product, error) {
	var product models.Product

	if len(record) != len(productImportHeader) {
		return product, fmt.Errorf("expected %d columns, got %d", len(productImportHeader), len(record))
	}

	name := strings.TrimSpace(record[0])
	if name == "" {
		return product, fmt.Errorf("name is required")
	}
	if len(name) > 200 {
		return product, fmt.Errorf("name exceeds 200 characters")
	}

	category := strings.TrimSpace(record[2])
	if category == "" {
		return product, fmt.Errorf("category is required")
	}

	price := 0.0
	if rawPrice := strings.TrimSpace(record[4]); rawPrice != "" {
		parsed, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil {
			return product, fmt.Errorf("invalid price %q", rawPrice)
		}
		if parsed < 0 {
			return product, fmt.Errorf("price must not be negative")
		}
		price = parsed
	}

	var tags []string
	if rawTags := strings.TrimSpace(record[5]); rawTags != "" {
		for _, tag := range strings.Split(rawTags, ";") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
	}

	product.Name = name
	product.Brand = strings.TrimSpace(record[1])
	product.Category = category
	product.AgeRange = strings.TrimSpace(record[3])
	product.Price = price
	product.Tags = pq.StringArray(tags)

	return product, nil
}
