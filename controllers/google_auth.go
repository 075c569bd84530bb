package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/facilities-app/models"
	"github.com/yeremiapane/facilities-app/utils"
)

// googleTokenInfoURL is swapped out in tests.
var googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

type googleTokenInfo struct {
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Audience      string `json:"aud"`
	Name          string `json:"name"`
}

// GoogleLogin verifies a Google ID token against the tokeninfo endpoint and
// signs the user in, provisioning a STUDENT account on first sign-in.
func (uc *UserController) GoogleLogin(c *gin.Context) {
	var input struct {
		Credential string `json:"credential" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no credential provided"))
		return
	}

	info, err := verifyGoogleToken(input.Credential)
	if err != nil {
		utils.ErrorLogger.Printf("Google token verification failed: %v", err)
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid Google token or email verification failed"))
		return
	}

	var user models.User
	err = uc.DB.Where("email = ?", info.Email).First(&user).Error
	if err != nil {
		// First Google sign-in: provision a student account without a
		// usable password.
		name := info.Name
		if name == "" {
			name = strings.SplitN(info.Email, "@", 2)[0]
		}
		user = models.User{
			Name:     name,
			Email:    info.Email,
			Password: "!google-oauth",
			Role:     models.RoleStudent,
		}
		if err := uc.DB.Create(&user).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.InfoLogger.Printf("Provisioned Google user %s", user.Email)
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Google login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

func verifyGoogleToken(credential string) (*googleTokenInfo, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(googleTokenInfoURL + "?id_token=" + url.QueryEscape(credential))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo returned %s", resp.Status)
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	if info.Email == "" || info.EmailVerified != "true" {
		return nil, errors.New("email missing or not verified")
	}

	if aud := os.Getenv("GOOGLE_CLIENT_ID"); aud != "" && info.Audience != aud {
		return nil, errors.New("token audience mismatch")
	}

	return &info, nil
}
