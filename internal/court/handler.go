package court

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courtyard/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateSport godoc
// @Summary      Create sport
// @Description  Creates a sport (resource class) with hourly rate and capacity. Admin only.
// @Tags         courts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSportRequest  true  "Sport"
// @Success      201   {object}  Sport
// @Failure      400   {object}  api.ErrorResponse
// @Router       /admin/sports [post]
func (h *Handler) CreateSport(c *gin.Context) {
	var req CreateSportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	sport, err := h.service.CreateSport(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, sport)
}

// ListSports godoc
// @Summary      List sports
// @Tags         courts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Sport
// @Router       /sports [get]
func (h *Handler) ListSports(c *gin.Context) {
	sports, err := h.service.ListSports(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sports)
}

// CreateCourt godoc
// @Summary      Create court
// @Tags         courts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateCourtRequest  true  "Court"
// @Success      201   {object}  Court
// @Failure      400   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /admin/courts [post]
func (h *Handler) CreateCourt(c *gin.Context) {
	var req CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	courtRow, err := h.service.CreateCourt(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, courtRow)
}

// ListCourts godoc
// @Summary      List courts with sport details
// @Tags         courts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  CourtWithSport
// @Router       /courts [get]
func (h *Handler) ListCourts(c *gin.Context) {
	courts, err := h.service.ListCourts(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, courts)
}

// GetCourt godoc
// @Summary      Get court
// @Tags         courts
// @Security     BearerAuth
// @Produce      json
// @Param        courtID  path      int  true  "Court ID"
// @Success      200      {object}  CourtWithSport
// @Failure      404      {object}  api.ErrorResponse
// @Router       /courts/{courtID} [get]
func (h *Handler) GetCourt(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid court ID", Kind: "validation"})
		return
	}

	courtRow, err := h.service.GetCourt(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, courtRow)
}

// UpdateStatus godoc
// @Summary      Change court status
// @Description  Non-available statuses make the court wholly unavailable. Admin only.
// @Tags         courts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        courtID  path      int                  true  "Court ID"
// @Param        body     body      UpdateStatusRequest  true  "Status"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /admin/courts/{courtID}/status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid court ID", Kind: "validation"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	if err := h.service.ChangeStatus(c.Request.Context(), id, req.Status); err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "court status updated"})
}

// DeleteCourt godoc
// @Summary      Delete court
// @Description  Deletes a court; dependent bookings cascade. Admin only.
// @Tags         courts
// @Security     BearerAuth
// @Produce      json
// @Param        courtID  path      int  true  "Court ID"
// @Success      200      {object}  api.MessageResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /admin/courts/{courtID} [delete]
func (h *Handler) DeleteCourt(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid court ID", Kind: "validation"})
		return
	}

	if err := h.service.DeleteCourt(c.Request.Context(), id); err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "court deleted"})
}
