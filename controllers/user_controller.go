package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/miraheal/pulsechat/middlewares"
	"github.com/miraheal/pulsechat/models"
	"github.com/miraheal/pulsechat/repository"
	"github.com/miraheal/pulsechat/services"
	"github.com/miraheal/pulsechat/utils"
)

type UserController struct {
	users  repository.UserRepository
	tokens *services.TokenService
}

func NewUserController(users repository.UserRepository, tokens *services.TokenService) *UserController {
	return &UserController{users: users, tokens: tokens}
}

type UserInfoResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	IsCounselor bool   `json:"is_counselor"`
}

// Register creates an account and returns a signed token.
func (u *UserController) Register(c *gin.Context) {
	var input struct {
		Username    string `json:"username" binding:"required"`
		Password    string `json:"password" binding:"required"`
		DisplayName string `json:"display_name"`
		IsCounselor bool   `json:"is_counselor"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := u.users.FindByUsername(input.Username); err == nil {
		utils.RespondError(c, http.StatusBadRequest, "Username already exists")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to check username")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}
	user := &models.User{
		ID:          uuid.New().String(),
		Username:    input.Username,
		Password:    string(hashed),
		DisplayName: displayName,
		IsCounselor: input.IsCounselor,
	}
	if err := u.users.Create(user); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := u.tokens.Generate(user)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.RespondSuccess(c, gin.H{"token": token}, nil)
}

// Login verifies credentials and returns a signed token.
func (u *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := u.users.FindByUsername(input.Username)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := u.tokens.Generate(user)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.RespondSuccess(c, gin.H{"token": token}, nil)
}

// GetUserInfo returns the authenticated user's public profile fields.
func (u *UserController) GetUserInfo(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondSuccess(c, UserInfoResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		IsCounselor: user.IsCounselor,
	}, nil)
}
