package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/facilities-app/utils"
)

const uploadDirName = "uploads"

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return uploadDirName
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadFile stores a single file and returns its public location.
func UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("please select a file to upload"))
		return
	}
	if file.Size > maxUploadSize {
		utils.RespondError(c, http.StatusBadRequest, errors.New("file too large"))
		return
	}

	if err := os.MkdirAll(uploadDir(), 0755); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error creating upload directory"))
		return
	}

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(uploadDir(), filename)); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error saving file"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "File uploaded", gin.H{
		"filename":     filename,
		"url":          "/api/files/" + filename,
		"originalName": file.Filename,
	})
}

// GetFile serves a stored upload. Only image extensions are allowed out.
func GetFile(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))

	if !allowedImageExts[strings.ToLower(filepath.Ext(filename))] {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	path := filepath.Join(uploadDir(), filename)
	if _, err := os.Stat(path); err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("file not found"))
		return
	}

	c.File(path)
}
