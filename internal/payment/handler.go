package payment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courtyard/internal/api"
	"courtyard/internal/auth"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func pathInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid " + name, Kind: "validation"})
		return 0, false
	}
	return v, true
}

// AddBookingPayment godoc
// @Summary      Record a booking payment
// @Description  Appends to the payment ledger and recomputes the booking balance; overpayment is rejected.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int         true  "Booking ID"
// @Param        body       body      AddRequest  true  "Payment"
// @Success      201        {object}  Receipt
// @Failure      400        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID}/payments [post]
func (h *Handler) AddBookingPayment(c *gin.Context) {
	id, ok := pathInt(c, "bookingID")
	if !ok {
		return
	}

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	receipt, err := h.repo.AddBookingPayment(c.Request.Context(), id, req.AmountCents, req.Mode, auth.MemberID(c))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, receipt)
}

// AddSubscriptionPayment godoc
// @Summary      Record a subscription payment
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        subscriptionID  path      int         true  "Subscription ID"
// @Param        body            body      AddRequest  true  "Payment"
// @Success      201             {object}  Receipt
// @Failure      400             {object}  api.ErrorResponse
// @Router       /subscriptions/{subscriptionID}/payments [post]
func (h *Handler) AddSubscriptionPayment(c *gin.Context) {
	id, ok := pathInt(c, "subscriptionID")
	if !ok {
		return
	}

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	receipt, err := h.repo.AddSubscriptionPayment(c.Request.Context(), id, req.AmountCents, req.Mode, auth.MemberID(c))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, receipt)
}

// ListForBooking godoc
// @Summary      Booking payment ledger
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path     int  true  "Booking ID"
// @Success      200        {array}  Payment
// @Router       /bookings/{bookingID}/payments [get]
func (h *Handler) ListForBooking(c *gin.Context) {
	id, ok := pathInt(c, "bookingID")
	if !ok {
		return
	}

	payments, err := h.repo.ListForBooking(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// ListForSubscription godoc
// @Summary      Subscription payment ledger
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        subscriptionID  path     int  true  "Subscription ID"
// @Success      200             {array}  Payment
// @Router       /subscriptions/{subscriptionID}/payments [get]
func (h *Handler) ListForSubscription(c *gin.Context) {
	id, ok := pathInt(c, "subscriptionID")
	if !ok {
		return
	}

	payments, err := h.repo.ListForSubscription(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}
