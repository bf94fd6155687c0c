package member

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"courtyard/internal/api"
	"courtyard/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary      Register a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Registration"
// @Success      201   {object}  AuthResponse
// @Failure      409   {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	m, access, refresh, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error(), Kind: "conflict"})
			return
		}
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Member: m, AccessToken: access, RefreshToken: refresh})
}

// Login godoc
// @Summary      Log in
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      401   {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	m, access, refresh, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: err.Error(), Kind: "unauthorized"})
			return
		}
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Member: m, AccessToken: access, RefreshToken: refresh})
}

// Refresh godoc
// @Summary      Refresh the access token
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        body  body      RefreshRequest  true  "Refresh token"
// @Success      200   {object}  AuthResponse
// @Failure      401   {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	access, m, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid refresh token", Kind: "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Member: m, AccessToken: access})
}

// Me godoc
// @Summary      Current member profile
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Member
// @Router       /members/me [get]
func (h *Handler) Me(c *gin.Context) {
	m, err := h.service.GetByID(c.Request.Context(), auth.MemberID(c))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}
