package controllers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performCSVImport(t *testing.T, r *gin.Engine, csvContent string, userID uint) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "products.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvContent))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/imports/products", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Test-User", strconv.Itoa(int(userID)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportProducts(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)

	csvContent := "name,brand,category,age_range,price,tags\n" +
		"Convertible Car Seat,SafeRide,travel,0-4y,199.99,car;safety\n" +
		"Sippy Cup,DrinkUp,feeding,6m-2y,8.50,\n"

	w := performCSVImport(t, r, csvContent, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, models.ImportCompleted, data["status"])
	assert.Equal(t, float64(2), data["total_rows"])
	assert.Equal(t, float64(2), data["imported_rows"])
	assert.Equal(t, float64(0), data["failed_rows"])

	var products []models.Product
	require.NoError(t, db.Where("recommended_by_id = ?", alice.ID).Find(&products).Error)
	require.Len(t, products, 2)
	for _, p := range products {
		require.NotNil(t, p.ImportJobID)
		assert.Equal(t, data["id"], *p.ImportJobID)
	}
}

func TestImportProductsWithBadRows(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)

	csvContent := "name,brand,category,age_range,price,tags\n" +
		"Night Light,GlowCo,nursery,0-3y,24.00,\n" +
		",NoName,nursery,0-3y,10.00,\n" +
		"Bad Price,BrandX,play,2-5y,not-a-number,\n"

	w := performCSVImport(t, r, csvContent, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, models.ImportCompletedWithErrors, data["status"])
	assert.Equal(t, float64(3), data["total_rows"])
	assert.Equal(t, float64(1), data["imported_rows"])
	assert.Equal(t, float64(2), data["failed_rows"])

	var job models.ImportJob
	require.NoError(t, db.Where("id = ?", data["id"]).First(&job).Error)
	require.Len(t, []string(job.RowErrors), 2)
	assert.Contains(t, job.RowErrors[0], "line 3")
	assert.Contains(t, job.RowErrors[0], "name is required")
	assert.Contains(t, job.RowErrors[1], "line 4")
	assert.Contains(t, job.RowErrors[1], "invalid price")

	var count int64
	db.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestImportProductsBadHeader(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)

	w := performCSVImport(t, r, "title,brand,category\nFoo,Bar,baz\n", alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.ImportJob{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestImportProductsMissingFile(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)

	w := performRequest(r, http.MethodPost, "/api/imports/products", nil, alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetImportJobScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)
	bob := createTestUser(t, db, "bob", models.PrivacyPublic)

	w := performCSVImport(t, r, "name,brand,category,age_range,price,tags\nPlay Mat,TumbleTots,play,6m-3y,45.00,indoor\n", alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	jobID := decodeBody(t, w)["data"].(map[string]interface{})["id"].(string)

	w = performRequest(r, http.MethodGet, fmt.Sprintf("/api/imports/%s", jobID), nil, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "products.csv", data["file_name"])

	// Another user's job reads as missing
	w = performRequest(r, http.MethodGet, fmt.Sprintf("/api/imports/%s", jobID), nil, bob.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportProductsBatchFailureRecordsFailedJob(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	alice := createTestUser(t, db, "alice", models.PrivacyPublic)

	// With the products table gone the batch insert fails and rolls back,
	// but the job row still records the failed run.
	require.NoError(t, db.Migrator().DropTable(&models.Product{}))

	w := performCSVImport(t, r, "name,brand,category,age_range,price,tags\nNight Light,GlowCo,nursery,0-3y,24.00,\n", alice.ID)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	jobID, ok := body["import_id"].(string)
	require.True(t, ok)

	var job models.ImportJob
	require.NoError(t, db.Where("id = ?", jobID).First(&job).Error)
	assert.Equal(t, models.ImportFailed, job.Status)
	assert.Equal(t, 0, job.ImportedRows)
	assert.Equal(t, 1, job.FailedRows)
}
