package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/facilities-app/models"
	"github.com/yeremiapane/facilities-app/services"
	"github.com/yeremiapane/facilities-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register creates an account. Role defaults to STUDENT; WORKER accounts
// must carry a worker type.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required"`
		Role       string `json:"role"`
		WorkerType string `json:"workerType"`
		Phone      string `json:"phone"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	req.Role = strings.ToUpper(req.Role)
	if !models.ValidRole(req.Role) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid role"))
		return
	}

	var workerType *string
	if req.Role == models.RoleWorker {
		wt := strings.ToUpper(req.WorkerType)
		if !models.ValidWorkerType(wt) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("worker accounts require a valid workerType"))
			return
		}
		workerType = &wt
	}

	var existing models.User
	if err := uc.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("email already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   string(hashed),
		Role:       req.Role,
		WorkerType: workerType,
		Phone:      req.Phone,
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)

	utils.RespondJSON(c, http.StatusCreated, "User registered", user)
}

// Login checks credentials and returns a JWT plus the user record the
// client session stores.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for %s (role=%s)", user.Email, user.Role)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the presented token.
func (uc *UserController) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token != "" {
		utils.BlacklistToken(token)
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile returns the authenticated user's record.
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", user)
}

func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

func (uc *UserController) GetUserByID(c *gin.Context) {
	var user models.User
	if err := uc.DB.First(&user, c.Param("user_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User detail", user)
}

// UpdateUser edits name/email/phone/role/workerType; password only when provided.
func (uc *UserController) UpdateUser(c *gin.Context) {
	var user models.User
	if err := uc.DB.First(&user, c.Param("user_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	type request struct {
		Name       *string `json:"name"`
		Email      *string `json:"email"`
		Phone      *string `json:"phone"`
		Role       *string `json:"role"`
		WorkerType *string `json:"workerType"`
		Password   *string `json:"password"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		role := strings.ToUpper(*req.Role)
		if !models.ValidRole(role) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid role"))
			return
		}
		user.Role = role
		if role != models.RoleWorker {
			user.WorkerType = nil
		}
	}
	if req.WorkerType != nil {
		wt := strings.ToUpper(*req.WorkerType)
		if !models.ValidWorkerType(wt) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid workerType"))
			return
		}
		user.WorkerType = &wt
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		user.Password = string(hashed)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	if err := uc.DB.Delete(&models.User{}, c.Param("user_id")).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User deleted", nil)
}

// SearchUsers matches keyword against name and email, case-insensitive.
func (uc *UserController) SearchUsers(c *gin.Context) {
	keyword := strings.ToLower(c.Query("keyword"))

	var users []models.User
	query := uc.DB
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if err := query.Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Search results", users)
}

func (uc *UserController) GetUsersByRole(c *gin.Context) {
	role := strings.ToUpper(c.Param("role"))
	if !models.ValidRole(role) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid role"))
		return
	}

	var users []models.User
	if err := uc.DB.Where("role = ?", role).Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Users by role", users)
}

func (uc *UserController) GetUsersByWorkerType(c *gin.Context) {
	wt := strings.ToUpper(c.Param("worker_type"))
	if !models.ValidWorkerType(wt) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid workerType"))
		return
	}

	var users []models.User
	if err := uc.DB.Where("role = ? AND worker_type = ?", models.RoleWorker, wt).Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Workers by type", users)
}

// GetWorkers lists every WORKER account, in arrival order. This is the
// candidate pool for assignment.
func (uc *UserController) GetWorkers(c *gin.Context) {
	var workers []models.User
	if err := uc.DB.Where("role = ?", models.RoleWorker).Order("id").Find(&workers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All workers", workers)
}

func (uc *UserController) GetUserStats(c *gin.Context) {
	var stats struct {
		Total    int64 `json:"total"`
		Students int64 `json:"students"`
		Workers  int64 `json:"workers"`
		Admins   int64 `json:"admins"`
	}

	uc.DB.Model(&models.User{}).Count(&stats.Total)
	uc.DB.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&stats.Students)
	uc.DB.Model(&models.User{}).Where("role = ?", models.RoleWorker).Count(&stats.Workers)
	uc.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&stats.Admins)

	utils.RespondJSON(c, http.StatusOK, "User stats", stats)
}

// AddSampleData seeds demo venues and workers on demand.
func (uc *UserController) AddSampleData(c *gin.Context) {
	services.SeedSampleData(uc.DB)
	utils.RespondJSON(c, http.StatusOK, "Sample data added", nil)
}

func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
