package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/httpresp"
	"github.com/BruksfildServices01/equipment-rental/internal/middleware"
	ucUser "github.com/BruksfildServices01/equipment-rental/internal/usecase/user"
)

type AuthHandler struct {
	users *ucUser.Usecase
}

func NewAuthHandler(users *ucUser.Usecase) *AuthHandler {
	return &AuthHandler{users: users}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Token string `json:"token"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	res, err := h.users.Register(c.Request.Context(), req.Name, req.Username, req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "registration successful", res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, "login successful", res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), actor(c), middleware.CurrentToken(c)); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, "logged out", nil)
}

// Refresh accepts the token in the body or, failing that, the bearer header
// already verified by the middleware.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	_ = c.ShouldBindJSON(&req)

	token := req.Token
	if token == "" {
		token = middleware.CurrentToken(c)
	}
	if token == "" {
		httperr.BadRequest(c, "token_required", "token is required")
		return
	}

	res, err := h.users.Refresh(c.Request.Context(), token)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, "token refreshed", res)
}
