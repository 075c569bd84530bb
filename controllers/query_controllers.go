package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/facilities-app/models"
	"github.com/yeremiapane/facilities-app/services"
	"github.com/yeremiapane/facilities-app/utils"
	"gorm.io/gorm"
)

const maxUploadSize = 10 << 20 // 10MB

type QueryController struct {
	DB *gorm.DB
}

func NewQueryController(db *gorm.DB) *QueryController {
	return &QueryController{DB: db}
}

func (qc *QueryController) preloaded() *gorm.DB {
	return qc.DB.Preload("Venue").Preload("RaisedByUser").
		Preload("AssignedToWorker").Preload("CompletedByUser")
}

func (qc *QueryController) GetAllQueries(c *gin.Context) {
	var queries []models.Query
	if err := qc.preloaded().Order("created_at DESC").Find(&queries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of queries", queries)
}

func (qc *QueryController) GetQueryByID(c *gin.Context) {
	var query models.Query
	if err := qc.preloaded().First(&query, c.Param("query_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("query not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Query detail", query)
}

// CreateQuery handles the JSON creation path. New queries always start PENDING.
func (qc *QueryController) CreateQuery(c *gin.Context) {
	type request struct {
		Title          string `json:"title" binding:"required"`
		Description    string `json:"description" binding:"required"`
		Category       string `json:"category" binding:"required"`
		Priority       string `json:"priority"`
		VenueID        *uint  `json:"venueId"`
		RaisedByUserID *uint  `json:"raisedByUserId"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	query, err := qc.buildQuery(req.Title, req.Description, req.Category, req.Priority, req.VenueID, req.RaisedByUserID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := qc.DB.Create(query).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Query created", query)
}

// CreateAnonymousQuery accepts a multipart submission without authentication,
// with an optional image.
func (qc *QueryController) CreateAnonymousQuery(c *gin.Context) {
	qc.createFromMultipart(c, nil)
}

// CreateQueryWithImage is the authenticated multipart path; the submitting
// user is attached from the form.
func (qc *QueryController) CreateQueryWithImage(c *gin.Context) {
	var raisedBy *uint
	if raw := c.PostForm("raisedByUserId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid raisedByUserId"))
			return
		}
		uid := uint(id)
		raisedBy = &uid
	}
	qc.createFromMultipart(c, raisedBy)
}

func (qc *QueryController) createFromMultipart(c *gin.Context, raisedBy *uint) {
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("error processing form"))
		return
	}

	var venueID *uint
	if raw := c.PostForm("venueId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid venueId"))
			return
		}
		vid := uint(id)
		venueID = &vid
	}

	query, err := qc.buildQuery(
		c.PostForm("title"), c.PostForm("description"),
		c.PostForm("category"), c.PostForm("priority"),
		venueID, raisedBy,
	)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if file, err := c.FormFile("image"); err == nil {
		path, err := saveUpload(c, file, "")
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		query.ImagePath = path
	}

	if err := qc.DB.Create(query).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Query created", query)
}

func (qc *QueryController) buildQuery(title, description, category, priority string, venueID, raisedBy *uint) (*models.Query, error) {
	if title == "" || description == "" {
		return nil, errors.New("title and description are required")
	}

	category = strings.ToUpper(category)
	if !models.ValidCategory(category) {
		return nil, fmt.Errorf("invalid category %q", category)
	}

	if priority == "" {
		priority = models.PriorityMedium
	}
	priority = strings.ToUpper(priority)
	if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("invalid priority %q", priority)
	}

	query := &models.Query{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      models.StatusPending,
	}

	if venueID != nil {
		var venue models.Venue
		if err := qc.DB.First(&venue, *venueID).Error; err != nil {
			return nil, errors.New("venue not found")
		}
		query.VenueID = venueID
	}

	if raisedBy != nil {
		var user models.User
		if err := qc.DB.First(&user, *raisedBy).Error; err != nil {
			return nil, errors.New("raising user not found")
		}
		query.RaisedByUserID = raisedBy
	}

	return query, nil
}

func (qc *QueryController) GetQueriesByUser(c *gin.Context) {
	var queries []models.Query
	if err := qc.preloaded().Where("raised_by_user_id = ?", c.Param("user_id")).
		Order("created_at DESC").Find(&queries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Queries by user", queries)
}

func (qc *QueryController) GetQueriesByWorker(c *gin.Context) {
	var queries []models.Query
	if err := qc.preloaded().Where("assigned_to_worker_id = ?", c.Param("worker_id")).
		Order("created_at DESC").Find(&queries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Queries by worker", queries)
}

func (qc *QueryController) GetQueriesByStatus(c *gin.Context) {
	status := strings.ToUpper(c.Param("status"))
	if !models.ValidStatus(status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
		return
	}

	var queries []models.Query
	if err := qc.preloaded().Where("status = ?", status).Find(&queries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Queries by status", queries)
}

func (qc *QueryController) GetQueriesByVenue(c *gin.Context) {
	var queries []models.Query
	if err := qc.preloaded().Where("venue_id = ?", c.Param("venue_id")).Find(&queries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Queries by venue", queries)
}

// SearchQueries combines optional facets with AND semantics. The keyword
// matches title or description, case-insensitive.
func (qc *QueryController) SearchQueries(c *gin.Context) {
	query := qc.preloaded()

	if status := strings.ToUpper(c.Query("status")); status != "" {
		if !models.ValidStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
			return
		}
		query = query.Where("status = ?", status)
	}
	if category := strings.ToUpper(c.Query("category")); category != "" {
		if !models.ValidCategory(category) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category"))
			return
		}
		query = query.Where("category = ?", category)
	}
	if priority := strings.ToUpper(c.Query("priority")); priority != "" {
		if !models.ValidPriority(priority) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid priority"))
			return
		}
		query = query.Where("priority = ?", priority)
	}
	if venueID := c.Query("venueId"); venueID != "" {
		query = query.Where("venue_id = ?", venueID)
	}
	if keyword := strings.ToLower(c.Query("keyword")); keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var queries []models.Query
	if err := query.Order("created_at DESC").Find(&queries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Search results", queries)
}

// AssignWorker binds a worker to a query. The worker must hold the WORKER
// role and be eligible for the query's category.
func (qc *QueryController) AssignWorker(c *gin.Context) {
	workerID := c.Param("worker_id")
	if workerID == "" {
		var req struct {
			WorkerID uint `json:"workerId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("workerId is required"))
			return
		}
		workerID = strconv.FormatUint(uint64(req.WorkerID), 10)
	}

	var query models.Query
	if err := qc.DB.First(&query, c.Param("query_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("query not found"))
		return
	}

	var worker models.User
	if err := qc.DB.First(&worker, workerID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("worker not found"))
		return
	}

	if err := services.ValidateAssignment(worker, query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	oldStatus := query.Status
	query.AssignedToWorkerID = &worker.ID
	query.Status = models.StatusAssigned

	if err := qc.DB.Save(&query).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	qc.recordHistory(c, &query, oldStatus, models.StatusAssigned, fmt.Sprintf("Assigned to %s", worker.Name), "")

	var out models.Query
	qc.preloaded().First(&out, query.ID)
	utils.RespondJSON(c, http.StatusOK, "Worker assigned", out)
}

// UpdateQueryStatus transitions a query and appends a history row.
func (qc *QueryController) UpdateQueryStatus(c *gin.Context) {
	var req struct {
		Status  string `json:"status" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	newStatus := strings.ToUpper(req.Status)
	if !models.ValidStatus(newStatus) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
		return
	}

	var query models.Query
	if err := qc.DB.First(&query, c.Param("query_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("query not found"))
		return
	}

	oldStatus := query.Status
	query.Status = newStatus

	if err := qc.DB.Save(&query).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	qc.recordHistory(c, &query, oldStatus, newStatus, req.Comment, "")

	var out models.Query
	qc.preloaded().First(&out, query.ID)
	utils.RespondJSON(c, http.StatusOK, "Status updated", out)
}

// CompleteQuery resolves a query with the worker's completion evidence
// (notes plus optional image), recording who completed it.
func (qc *QueryController) CompleteQuery(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("error processing form"))
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var query models.Query
	if err := qc.DB.First(&query, c.Param("query_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("query not found"))
		return
	}

	oldStatus := query.Status
	query.Status = models.StatusResolved
	query.CompletedByUserID = &userID

	if notes := c.PostForm("completionNotes"); strings.TrimSpace(notes) != "" {
		query.CompletionNotes = notes
	}

	var completionImagePath string
	if file, err := c.FormFile("completionImage"); err == nil {
		path, err := saveUpload(c, file, "completions")
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		query.CompletionImagePath = path
		completionImagePath = path
	}

	if err := qc.DB.Save(&query).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	qc.recordHistory(c, &query, oldStatus, models.StatusResolved, query.CompletionNotes, completionImagePath)

	var out models.Query
	qc.preloaded().First(&out, query.ID)
	utils.RespondJSON(c, http.StatusOK, "Query completed", out)
}

func (qc *QueryController) DeleteQuery(c *gin.Context) {
	if err := qc.DB.Delete(&models.Query{}, c.Param("query_id")).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Query deleted", nil)
}

// GetQueryStats reports counts over the full collection, never the
// filtered view.
func (qc *QueryController) GetQueryStats(c *gin.Context) {
	var stats struct {
		Total      int64 `json:"totalQueries"`
		Pending    int64 `json:"pendingQueries"`
		Assigned   int64 `json:"assignedQueries"`
		InProgress int64 `json:"inProgressQueries"`
		Resolved   int64 `json:"resolvedQueries"`
		Closed     int64 `json:"closedQueries"`
	}

	qc.DB.Model(&models.Query{}).Count(&stats.Total)
	qc.DB.Model(&models.Query{}).Where("status = ?", models.StatusPending).Count(&stats.Pending)
	qc.DB.Model(&models.Query{}).Where("status = ?", models.StatusAssigned).Count(&stats.Assigned)
	qc.DB.Model(&models.Query{}).Where("status = ?", models.StatusInProgress).Count(&stats.InProgress)
	qc.DB.Model(&models.Query{}).Where("status = ?", models.StatusResolved).Count(&stats.Resolved)
	qc.DB.Model(&models.Query{}).Where("status = ?", models.StatusClosed).Count(&stats.Closed)

	utils.RespondJSON(c, http.StatusOK, "Query stats", stats)
}

func (qc *QueryController) GetQueryHistory(c *gin.Context) {
	var history []models.QueryStatusHistory
	if err := qc.DB.Preload("UpdatedByUser").Where("query_id = ?", c.Param("query_id")).
		Order("created_at DESC").Find(&history).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Query status history", history)
}

// GetEligibleWorkers surfaces the candidate workers for a query's category.
func (qc *QueryController) GetEligibleWorkers(c *gin.Context) {
	var query models.Query
	if err := qc.DB.First(&query, c.Param("query_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("query not found"))
		return
	}

	var workers []models.User
	if err := qc.DB.Where("role = ?", models.RoleWorker).Order("id").Find(&workers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	eligible := services.EligibleWorkers(query.Category, workers)
	message := "Eligible workers"
	if len(eligible) == 0 {
		message = "No eligible workers"
	}

	utils.RespondJSON(c, http.StatusOK, message, gin.H{
		"requiredWorkerType": services.RequiredWorkerType(query.Category),
		"workers":            eligible,
	})
}

func (qc *QueryController) recordHistory(c *gin.Context, query *models.Query, oldStatus, newStatus, comment, completionImagePath string) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entry := models.QueryStatusHistory{
		QueryID:             query.ID,
		OldStatus:           oldStatus,
		NewStatus:           newStatus,
		UpdatedByUserID:     userID,
		Comment:             comment,
		CompletionImagePath: completionImagePath,
	}
	if err := qc.DB.Create(&entry).Error; err != nil {
		utils.ErrorLogger.Printf("Error recording status history for query %d: %v", query.ID, err)
	}
}

// saveUpload stores a multipart file under the upload directory with a
// generated name, returning the public path.
func saveUpload(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	if file.Size > maxUploadSize {
		return "", errors.New("file too large")
	}

	dir := uploadDir()
	if subdir != "" {
		dir = filepath.Join(dir, subdir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.New("error creating upload directory")
	}

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	dst := filepath.Join(dir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", errors.New("error saving file")
	}

	public := "/" + filepath.ToSlash(filepath.Join(uploadDirName, subdir, filename))
	return public, nil
}
