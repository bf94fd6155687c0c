package booking

import (
	"net/http"
	"strconv"

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

func pathInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid " + name, Kind: "validation"})
		return 0, false
	}
	return v, true
}

// Create godoc
// @Summary      Reserve a time slot
// @Description  Admits the reservation against court capacity and persists it with pricing and the initial payment.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateRequest  true  "Reservation"
// @Success      201   {object}  Booking
// @Failure      400   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Failure      503   {object}  api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	b, err := h.service.Create(c.Request.Context(), auth.MemberID(c), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// Get godoc
// @Summary      Get booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Failure      404        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := pathInt(c, "bookingID")
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), auth.MemberID(c), id, auth.IsAdmin(c))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Cancel godoc
// @Summary      Cancel booking
// @Description  Marks the booking cancelled; its slots stop counting toward occupancy immediately.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  api.MessageResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      422        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := pathInt(c, "bookingID")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), auth.MemberID(c), id, auth.IsAdmin(c)); err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "booking cancelled"})
}

// Reschedule godoc
// @Summary      Reschedule booking
// @Description  Moves a booking to a new date and slot, re-admitting it against the target day. Admin only.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                true  "Booking ID"
// @Param        body       body      RescheduleRequest  true  "Target"
// @Success      200        {object}  Booking
// @Failure      409        {object}  api.ErrorResponse
// @Router       /admin/bookings/{bookingID}/reschedule [put]
func (h *Handler) Reschedule(c *gin.Context) {
	id, ok := pathInt(c, "bookingID")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	b, err := h.service.Reschedule(c.Request.Context(), id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Extend godoc
// @Summary      Extend booking
// @Description  Lengthens a booking's slot on the same date and reprices the new duration. Admin only.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int            true  "Booking ID"
// @Param        body       body      ExtendRequest  true  "New slot"
// @Success      200        {object}  Booking
// @Failure      409        {object}  api.ErrorResponse
// @Router       /admin/bookings/{bookingID}/extend [put]
func (h *Handler) Extend(c *gin.Context) {
	id, ok := pathInt(c, "bookingID")
	if !ok {
		return
	}

	var req ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	b, err := h.service.Extend(c.Request.Context(), id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Quote godoc
// @Summary      Price a prospective reservation
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      QuoteRequest  true  "Quote input"
// @Success      200   {object}  Quote
// @Failure      400   {object}  api.ErrorResponse
// @Router       /bookings/quote [post]
func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	q, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, q)
}

// Check godoc
// @Summary      Clash preview
// @Description  Advisory availability check; the authoritative check runs under lock when booking.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CheckRequest  true  "Slot to check"
// @Success      200   {object}  CheckResult
// @Router       /bookings/check [post]
func (h *Handler) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	result, err := h.service.Check(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Availability godoc
// @Summary      Half-hour availability heatmap
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        courtID  path      int     true  "Court ID"
// @Param        date     query     string  true  "Date (YYYY-MM-DD)"
// @Success      200      {array}   AvailabilityCell
// @Router       /courts/{courtID}/availability [get]
func (h *Handler) Availability(c *gin.Context) {
	id, ok := pathInt(c, "courtID")
	if !ok {
		return
	}

	cells, err := h.service.Availability(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, cells)
}

// ListMine godoc
// @Summary      List my bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Booking
// @Router       /bookings [get]
func (h *Handler) ListMine(c *gin.Context) {
	bookings, err := h.service.ListMine(c.Request.Context(), auth.MemberID(c))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListByCourtDate godoc
// @Summary      List bookings for a court and date
// @Tags         bookings
// @Security     BearerAuth
// @Produce     json
// @Param        courtID  path      int     true  "Court ID"
// @Param        date     query     string  true  "Date (YYYY-MM-DD)"
// @Success      200      {array}   Booking
// @Router       /admin/courts/{courtID}/bookings [get]
func (h *Handler) ListByCourtDate(c *gin.Context) {
	id, ok := pathInt(c, "courtID")
	if !ok {
		return
	}

	bookings, err := h.service.ListByCourtDate(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// StatsByDay godoc
// @Summary      Booking counts per day
// @Tags         stats
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  true  "Range start (YYYY-MM-DD)"
// @Param        to    query     string  true  "Range end (YYYY-MM-DD)"
// @Success      200   {array}   DayStat
// @Router       /admin/stats/bookings/daily [get]
func (h *Handler) StatsByDay(c *gin.Context) {
	stats, err := h.service.StatsByDay(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// StatsByCourt godoc
// @Summary      Booking counts per court
// @Tags         stats
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  true  "Range start (YYYY-MM-DD)"
// @Param        to    query     string  true  "Range end (YYYY-MM-DD)"
// @Success      200   {array}   CourtStat
// @Router       /admin/stats/bookings/by-court [get]
func (h *Handler) StatsByCourt(c *gin.Context) {
	stats, err := h.service.StatsByCourt(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
