package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/facilities-app/controllers"
	"github.com/yeremiapane/facilities-app/middlewares"
	"github.com/yeremiapane/facilities-app/models"
	"github.com/yeremiapane/facilities-app/utils"
)

func setupTestDBForQueries(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:queries_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.User{}, &models.Venue{}, &models.Query{}, &models.QueryStatusHistory{}); err != nil {
		panic(err)
	}
	return db
}

func setupQueryRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	queryCtrl := controllers.NewQueryController(db)

	router.POST("/queries/anonymous", queryCtrl.CreateAnonymousQuery)

	auth := router.Group("/", middlewares.AuthMiddleware())
	auth.GET("/queries", queryCtrl.GetAllQueries)
	auth.GET("/queries/search", queryCtrl.SearchQueries)
	auth.GET("/queries/stats", queryCtrl.GetQueryStats)
	auth.GET("/queries/:query_id", queryCtrl.GetQueryByID)
	auth.GET("/queries/:query_id/history", queryCtrl.GetQueryHistory)
	auth.POST("/queries", queryCtrl.CreateQuery)

	workerOrAdmin := auth.Group("/", middlewares.RequireRoles(models.RoleWorker, models.RoleAdmin))
	workerOrAdmin.PUT("/queries/:query_id/status", queryCtrl.UpdateQueryStatus)
	workerOrAdmin.PUT("/queries/:query_id/complete", queryCtrl.CompleteQuery)

	admin := auth.Group("/", middlewares.RequireRoles(models.RoleAdmin))
	admin.GET("/queries/:query_id/eligible-workers", queryCtrl.GetEligibleWorkers)
	admin.PUT("/queries/:query_id/assign/:worker_id", queryCtrl.AssignWorker)
	admin.DELETE("/queries/:query_id", queryCtrl.DeleteQuery)

	return router
}

func createTestUser(t *testing.T, db *gorm.DB, name, email, role, workerType string) (models.User, string) {
	user := models.User{Name: name, Email: email, Password: "x", Role: role}
	if workerType != "" {
		wt := workerType
		user.WorkerType = &wt
	}
	err := db.Create(&user).Error
	assert.NoError(t, err)

	token, err := utils.GenerateToken(user.ID, user.Role)
	assert.NoError(t, err)
	return user, token
}

func putJSON(t *testing.T, router *gin.Engine, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		assert.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest("PUT", path, &body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sendMultipart(t *testing.T, router *gin.Engine, method, path string, fields map[string]string, token string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		assert.NoError(t, writer.WriteField(key, value))
	}
	assert.NoError(t, writer.Close())

	req, err := http.NewRequest(method, path, &body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnonymousQueryStartsPending(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForQueries(t)
	router := setupQueryRouter(db)

	venue := models.Venue{Name: "Hostel B", Location: "East Campus", Type: models.VenueHostel}
	db.Create(&venue)

	w := sendMultipart(t, router, "POST", "/queries/anonymous", map[string]string{
		"title":       "Leaking tap",
		"description": "Tap in the washroom leaks continuously",
		"category":    "PLUMBING",
		"priority":    "HIGH",
		"venueId":     fmt.Sprintf("%d", venue.ID),
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, "HIGH", data["priority"])
	assert.Equal(t, "PLUMBING", data["category"])
	assert.Nil(t, data["raisedByUserId"])
}

func TestCreateQueryValidation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForQueries(t)
	router := setupQueryRouter(db)

	_, token := createTestUser(t, db, "Student", "s@example.com", models.RoleStudent, "")

	w := postJSON(t, router, "/queries", map[string]interface{}{
		"title":       "Broken chair",
		"description": "Chair leg snapped",
		"category":    "FURNITURE",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Priority defaults to MEDIUM when omitted.
	w = postJSON(t, router, "/queries", map[string]interface{}{
		"title":       "Broken chair",
		"description": "Chair leg snapped",
		"category":    "CARPENTRY",
	}, token)
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "MEDIUM", data["priority"])
}

func TestQueryLifecycle(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForQueries(t)
	router := setupQueryRouter(db)

	student, studentToken := createTestUser(t, db, "Student", "s@example.com", models.RoleStudent, "")
	plumber, plumberToken := createTestUser(t, db, "Plumber", "p@example.com", models.RoleWorker, models.WorkerPlumber)
	_, adminToken := createTestUser(t, db, "Admin", "a@example.com", models.RoleAdmin, "")

	w := postJSON(t, router, "/queries", map[string]interface{}{
		"title":          "Blocked drain",
		"description":    "Water pooling in the lab sink",
		"category":       "PLUMBING",
		"priority":       "HIGH",
		"raisedByUserId": student.ID,
	}, studentToken)
	assert.Equal(t, http.StatusCreated, w.Code)
	created := decodeEnvelope(t, w)["data"].(map[string]interface{})
	queryID := uint(created["id"].(float64))
	assert.Equal(t, "PENDING", created["status"])

	// Assign the plumber.
	w = putJSON(t, router, fmt.Sprintf("/queries/%d/assign/%d", queryID, plumber.ID), nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assigned := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "ASSIGNED", assigned["status"])
	assert.Equal(t, float64(plumber.ID), assigned["assignedToWorkerId"])
	assert.Nil(t, assigned["resolvedAt"])

	// Worker starts the job.
	w = putJSON(t, router, fmt.Sprintf("/queries/%d/status", queryID), map[string]interface{}{
		"status":  "IN_PROGRESS",
		"comment": "On site",
	}, plumberToken)
	assert.Equal(t, http.StatusOK, w.Code)
	inProgress := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "IN_PROGRESS", inProgress["status"])

	// Worker completes with notes.
	w = sendMultipart(t, router, "PUT", fmt.Sprintf("/queries/%d/complete", queryID), map[string]string{
		"completionNotes": "Replaced the trap and flushed the line",
	}, plumberToken)
	assert.Equal(t, http.StatusOK, w.Code)
	resolved := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "RESOLVED", resolved["status"])
	assert.NotNil(t, resolved["resolvedAt"])
	assert.Equal(t, "Replaced the trap and flushed the line", resolved["completionNotes"])
	assert.Equal(t, float64(plumber.ID), resolved["completedByUserId"])

	// Each transition left a history row.
	w = getWithToken(t, router, fmt.Sprintf("/queries/%d/history", queryID), adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	history := decodeEnvelope(t, w)["data"].([]interface{})
	assert.Len(t, history, 3)
}

func TestAssignRejectsIncompatibleWorker(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForQueries(t)
	router := setupQueryRouter(db)

	general, _ := createTestUser(t, db, "Handyman", "g@example.com", models.RoleWorker, models.WorkerGeneral)
	_, adminToken := createTestUser(t, db, "Admin", "a@example.com", models.RoleAdmin, "")

	query := models.Query{
		Title:       "Burst pipe",
		Description: "Pipe burst behind the library",
		Category:    models.CategoryPlumbing,
		Priority:    models.PriorityUrgent,
		Status:      models.StatusPending,
	}
	db.Create(&query)

	w := putJSON(t, router, fmt.Sprintf("/queries/%d/assign/%d", query.ID, general.ID), nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.Query
	db.First(&reloaded, query.ID)
	assert.Equal(t, models.StatusPending, reloaded.Status)
	assert.Nil(t, reloaded.AssignedToWorkerID)
}

func TestSearchQueriesComposesFacetsWithAND(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForQueries(t)
	router := setupQueryRouter(db)

	_, token := createTestUser(t, db, "Admin", "a@example.com", models.RoleAdmin, "")

	seed := []models.Query{
		{Title: "Projector flickers", Description: "Projector bulb failing", Category: models.CategoryElectrical, Priority: models.PriorityMedium, Status: models.StatusPending},
		{Title: "Socket sparks", Description: "Wall socket sparking", Category: models.CategoryElectrical, Priority: models.PriorityHigh, Status: models.StatusResolved},
		{Title: "Leaking tap", Description: "Tap leaking in hostel", Category: models.CategoryPlumbing, Priority: models.PriorityHigh, Status: models.StatusPending},
	}
	for i := range seed {
		db.Create(&seed[i])
	}

	// Category alone.
	w := getWithToken(t, router, "/queries/search?category=ELECTRICAL", token)
	assert.Equal(t, http.StatusOK, w.Code)
	results := decodeEnvelope(t, w)["data"].([]interface{})
	assert.Len(t, results, 2)

	// Category AND status narrows further.
	w = getWithToken(t, router, "/queries/search?category=ELECTRICAL&status=PENDING", token)
	results = decodeEnvelope(t, w)["data"].([]interface{})
	assert.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "Projector flickers", first["title"])

	// Keyword matches title or description, case-insensitively.
	w = getWithToken(t, router, "/queries/search?keyword=LEAK", token)
	results = decodeEnvelope(t, w)["data"].([]interface{})
	assert.Len(t, results, 1)

	// Keyword AND category with no overlap comes back empty.
	w = getWithToken(t, router, "/queries/search?keyword=leak&category=ELECTRICAL", token)
	results = decodeEnvelope(t, w)["data"].([]interface{})
	assert.Len(t, results, 0)
}

func TestQueryStatsCountFullCollection(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForQueries(t)
	router := setupQueryRouter(db)

	_, token := createTestUser(t, db, "Admin", "a@example.com", models.RoleAdmin, "")

	statuses := []string{
		models.StatusPending, models.StatusPending,
		models.StatusAssigned, models.StatusInProgress,
		models.StatusResolved, models.StatusClosed,
	}
	for i, status := range statuses {
		q := models.Query{
			Title:       fmt.Sprintf("Q%d", i),
			Description: "d",
			Category:    models.CategoryOther,
			Priority:    models.PriorityLow,
			Status:      status,
		}
		if status == models.StatusResolved {
			// BeforeSave stamps resolvedAt; make sure that path holds here too.
			assert.Nil(t, q.ResolvedAt)
		}
		db.Create(&q)
	}

	w := getWithToken(t, router, "/queries/stats", token)
	assert.Equal(t, http.StatusOK, w.Code)
	stats := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(6), stats["totalQueries"])
	assert.Equal(t, float64(2), stats["pendingQueries"])
	assert.Equal(t, float64(1), stats["assignedQueries"])
	assert.Equal(t, float64(1), stats["inProgressQueries"])
	assert.Equal(t, float64(1), stats["resolvedQueries"])
	assert.Equal(t, float64(1), stats["closedQueries"])
}

func TestEligibleWorkersForCategory(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForQueries(t)
	router := setupQueryRouter(db)

	plumber, _ := createTestUser(t, db, "Plumber", "p@example.com", models.RoleWorker, models.WorkerPlumber)
	createTestUser(t, db, "Electrician", "e@example.com", models.RoleWorker, models.WorkerElectrician)
	createTestUser(t, db, "Handyman", "h@example.com", models.RoleWorker, models.WorkerGeneral)
	_, adminToken := createTestUser(t, db, "Admin", "a@example.com", models.RoleAdmin, "")

	plumbing := models.Query{Title: "t", Description: "d", Category: models.CategoryPlumbing, Priority: models.PriorityLow, Status: models.StatusPending}
	db.Create(&plumbing)
	cleaning := models.Query{Title: "t", Description: "d", Category: models.CategoryCleaning, Priority: models.PriorityLow, Status: models.StatusPending}
	db.Create(&cleaning)

	w := getWithToken(t, router, fmt.Sprintf("/queries/%d/eligible-workers", plumbing.ID), adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "PLUMBER", data["requiredWorkerType"])
	workers := data["workers"].([]interface{})
	assert.Len(t, workers, 1)
	assert.Equal(t, float64(plumber.ID), workers[0].(map[string]interface{})["id"])

	// A GENERAL requirement admits every worker.
	w = getWithToken(t, router, fmt.Sprintf("/queries/%d/eligible-workers", cleaning.ID), adminToken)
	data = decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "GENERAL", data["requiredWorkerType"])
	assert.Len(t, data["workers"].([]interface{}), 3)
}

func TestDeleteQueryRequiresAdmin(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForQueries(t)
	router := setupQueryRouter(db)

	_, studentToken := createTestUser(t, db, "Student", "s@example.com", models.RoleStudent, "")
	_, adminToken := createTestUser(t, db, "Admin", "a@example.com", models.RoleAdmin, "")

	query := models.Query{Title: "t", Description: "d", Category: models.CategoryOther, Priority: models.PriorityLow, Status: models.StatusPending}
	db.Create(&query)

	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/queries/%d", query.ID), nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req, _ = http.NewRequest("DELETE", fmt.Sprintf("/queries/%d", query.ID), nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Query{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
