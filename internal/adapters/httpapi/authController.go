package httpapi

import (
	"net/http"

	"feedline/internal/adapters/httpapi/middleware"
	"feedline/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	uc     AuthUseCase
	logger *zap.Logger
}

func NewAuthController(uc AuthUseCase, logger *zap.Logger) *AuthController {
	return &AuthController{uc: uc, logger: logger}
}

func (ctl *AuthController) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, ctl.logger, apperr.Validation("Invalid input.", nil))
		return
	}
	u, err := ctl.uc.RegisterUser(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		middleware.RespondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created!", "userId": u.ID})
}

func (ctl *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, ctl.logger, apperr.Validation("Invalid input.", nil))
		return
	}
	res, err := ctl.uc.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.RespondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
