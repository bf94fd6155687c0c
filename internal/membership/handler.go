package membership

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

// CreatePackage godoc
// @Summary      Create subscription package
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreatePackageRequest  true  "Package"
// @Success      201   {object}  Package
// @Router       /admin/packages [post]
func (h *Handler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	pkg, err := h.service.CreatePackage(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

// ListPackages godoc
// @Summary      List subscription packages
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Package
// @Router       /packages [get]
func (h *Handler) ListPackages(c *gin.Context) {
	packages, err := h.service.ListPackages(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, packages)
}

// Subscribe godoc
// @Summary      Subscribe to a package
// @Description  Claims one capacity unit on the court for every day of the package period.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      SubscribeRequest  true  "Subscription"
// @Success      201   {object}  Subscription
// @Failure      409   {object}  api.ErrorResponse
// @Router       /subscriptions [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), auth.MemberID(c), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// Get godoc
// @Summary      Get subscription
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        subscriptionID  path      int  true  "Subscription ID"
// @Success      200             {object}  Subscription
// @Router       /subscriptions/{subscriptionID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := pathInt(c, "subscriptionID")
	if !ok {
		return
	}

	sub, err := h.service.Get(c.Request.Context(), auth.MemberID(c), id, auth.IsAdmin(c))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// ListMine godoc
// @Summary      List my subscriptions
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Subscription
// @Router       /subscriptions [get]
func (h *Handler) ListMine(c *gin.Context) {
	subs, err := h.service.ListMine(c.Request.Context(), auth.MemberID(c))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

// Team godoc
// @Summary      List subscription team members
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        subscriptionID  path     int  true  "Subscription ID"
// @Success      200             {array}  TeamMember
// @Router       /subscriptions/{subscriptionID}/team [get]
func (h *Handler) Team(c *gin.Context) {
	id, ok := pathInt(c, "subscriptionID")
	if !ok {
		return
	}

	team, err := h.service.Team(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// RequestLeave godoc
// @Summary      Request a leave of absence
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        subscriptionID  path      int           true  "Subscription ID"
// @Param        body            body      LeaveRequest  true  "Leave window"
// @Success      201             {object}  Leave
// @Router       /subscriptions/{subscriptionID}/leaves [post]
func (h *Handler) RequestLeave(c *gin.Context) {
	id, ok := pathInt(c, "subscriptionID")
	if !ok {
		return
	}

	var req LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	leave, err := h.service.RequestLeave(c.Request.Context(), auth.MemberID(c), id, auth.IsAdmin(c), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, leave)
}

// DecideLeave godoc
// @Summary      Approve or reject a leave
// @Description  Approval is all-or-nothing: any overlap in the pause or extension window rejects the grant with the full conflict list. Admin only.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        leaveID  path      int                 true  "Leave ID"
// @Param        body     body      DecideLeaveRequest  true  "Decision"
// @Success      200      {object}  Leave
// @Failure      409      {object}  api.ErrorResponse
// @Router       /admin/leaves/{leaveID} [put]
func (h *Handler) DecideLeave(c *gin.Context) {
	id, ok := pathInt(c, "leaveID")
	if !ok {
		return
	}

	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	leave, err := h.service.DecideLeave(c.Request.Context(), id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, leave)
}

// ListLeaves godoc
// @Summary      List leaves for a subscription
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        subscriptionID  path     int  true  "Subscription ID"
// @Success      200             {array}  Leave
// @Router       /subscriptions/{subscriptionID}/leaves [get]
func (h *Handler) ListLeaves(c *gin.Context) {
	id, ok := pathInt(c, "subscriptionID")
	if !ok {
		return
	}

	leaves, err := h.service.ListLeaves(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, leaves)
}

// Renew godoc
// @Summary      Renew a subscription
// @Description  Restarts an ended or expired subscription for a fresh package period at the current team price. Admin only.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        subscriptionID  path      int           true  "Subscription ID"
// @Param        body            body      RenewRequest  true  "Renewal"
// @Success      200             {object}  Subscription
// @Failure      422             {object}  api.ErrorResponse
// @Router       /admin/subscriptions/{subscriptionID}/renew [post]
func (h *Handler) Renew(c *gin.Context) {
	id, ok := pathInt(c, "subscriptionID")
	if !ok {
		return
	}

	var req RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	sub, err := h.service.Renew(c.Request.Context(), id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Terminate godoc
// @Summary      Terminate a subscription
// @Description  Rejected while any balance is outstanding. Terminal. Admin only.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        subscriptionID  path      int  true  "Subscription ID"
// @Success      200             {object}  api.MessageResponse
// @Failure      422             {object}  api.ErrorResponse
// @Router       /admin/subscriptions/{subscriptionID} [delete]
func (h *Handler) Terminate(c *gin.Context) {
	id, ok := pathInt(c, "subscriptionID")
	if !ok {
		return
	}

	if err := h.service.Terminate(c.Request.Context(), id); err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "subscription terminated"})
}

// AddTeamMember godoc
// @Summary      Add a team member
// @Description  Grows the team within the package limit; the price only ever goes up.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        subscriptionID  path      int                true  "Subscription ID"
// @Param        body            body      TeamMemberRequest  true  "Member"
// @Success      200             {object}  Subscription
// @Failure      409             {object}  api.ErrorResponse
// @Router       /subscriptions/{subscriptionID}/team [post]
func (h *Handler) AddTeamMember(c *gin.Context) {
	id, ok := pathInt(c, "subscriptionID")
	if !ok {
		return
	}

	var req TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	sub, err := h.service.AddTeamMember(c.Request.Context(), id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// RemoveTeamMember godoc
// @Summary      Remove a team member
// @Description  Shrinks the team; the agreed price never decreases.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        subscriptionID  path      int  true  "Subscription ID"
// @Param        memberID        path      int  true  "Member ID"
// @Success      200             {object}  Subscription
// @Router       /subscriptions/{subscriptionID}/team/{memberID} [delete]
func (h *Handler) RemoveTeamMember(c *gin.Context) {
	id, ok := pathInt(c, "subscriptionID")
	if !ok {
		return
	}
	memberID, ok := pathInt(c, "memberID")
	if !ok {
		return
	}

	sub, err := h.service.RemoveTeamMember(c.Request.Context(), id, memberID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// DeclareHoliday godoc
// @Summary      Declare a facility holiday
// @Description  Extends every spanning active subscription by one day. One holiday per date.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      HolidayRequest  true  "Holiday"
// @Success      201   {object}  HolidayResult
// @Failure      409   {object}  api.ErrorResponse
// @Router       /admin/holidays [post]
func (h *Handler) DeclareHoliday(c *gin.Context) {
	var req HolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	result, err := h.service.DeclareHoliday(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListHolidays godoc
// @Summary      List facility holidays
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Holiday
// @Router       /holidays [get]
func (h *Handler) ListHolidays(c *gin.Context) {
	holidays, err := h.service.ListHolidays(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, holidays)
}

// Sweep godoc
// @Summary      Expire lapsed subscriptions
// @Description  Idempotent; meant to be hit by an external scheduler. Admin only.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  SweepResult
// @Router       /admin/subscriptions/sweep [post]
func (h *Handler) Sweep(c *gin.Context) {
	result, err := h.service.Sweep(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
