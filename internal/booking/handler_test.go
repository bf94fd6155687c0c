package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courtyard/internal/apperr"
	"courtyard/internal/auth"
)

type handlerMock struct{ mock.Mock }

func (m *handlerMock) Create(ctx context.Context, memberID int, req CreateRequest) (*Booking, error) {
	args := m.Called(memberID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *handlerMock) Get(ctx context.Context, memberID, bookingID int, admin bool) (*Booking, error) {
	args := m.Called(memberID, bookingID, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *handlerMock) Cancel(ctx context.Context, memberID, bookingID int, admin bool) error {
	return m.Called(memberID, bookingID, admin).Error(0)
}

func (m *handlerMock) Reschedule(ctx context.Context, bookingID int, req RescheduleRequest) (*Booking, error) {
	args := m.Called(bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *handlerMock) Extend(ctx context.Context, bookingID int, req ExtendRequest) (*Booking, error) {
	args := m.Called(bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *handlerMock) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Quote), args.Error(1)
}

func (m *handlerMock) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckResult), args.Error(1)
}

func (m *handlerMock) Availability(ctx context.Context, courtID int, date string) ([]AvailabilityCell, error) {
	args := m.Called(courtID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AvailabilityCell), args.Error(1)
}

func (m *handlerMock) ListMine(ctx context.Context, memberID int) ([]Booking, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *handlerMock) ListByCourtDate(ctx context.Context, courtID int, date string) ([]Booking, error) {
	args := m.Called(courtID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *handlerMock) StatsByDay(ctx context.Context, from, to string) ([]DayStat, error) {
	args := m.Called(from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DayStat), args.Error(1)
}

func (m *handlerMock) StatsByCourt(ctx context.Context, from, to string) ([]CourtStat, error) {
	args := m.Called(from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CourtStat), args.Error(1)
}

// newHandlerRouter mounts the handler behind a stand-in for the auth
// middleware that plants the identity keys it would have set.
func newHandlerRouter(svc Service, memberID int, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("member_id", memberID)
		c.Set("member_role", role)
	})
	r.POST("/bookings", h.Create)
	r.GET("/bookings/:bookingID", h.Get)
	r.DELETE("/bookings/:bookingID", h.Cancel)
	r.POST("/bookings/quote", h.Quote)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateHandler(t *testing.T) {
	created := &Booking{ID: 10, CourtID: 3, MemberID: 7, TotalCents: 120000}
	svc := new(handlerMock)
	svc.On("Create", 7, mock.MatchedBy(func(req CreateRequest) bool {
		return req.CourtID == 3 && req.SlotsBooked == 1
	})).Return(created, nil)

	r := newHandlerRouter(svc, 7, auth.RoleMember)
	w := doRequest(t, r, http.MethodPost, "/bookings", CreateRequest{
		CourtID: 3, Date: "2026-03-14", TimeSlot: "6:00 PM - 8:00 PM", SlotsBooked: 1,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var got Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 10, got.ID)
	svc.AssertExpectations(t)
}

func TestCreateHandlerBindingRejection(t *testing.T) {
	svc := new(handlerMock)
	r := newHandlerRouter(svc, 7, auth.RoleMember)

	// slots_booked missing fails binding before the service is reached.
	w := doRequest(t, r, http.MethodPost, "/bookings", gin.H{
		"court_id": 3, "date": "2026-03-14", "time_slot": "6:00 PM - 8:00 PM",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"validation"`)
	svc.AssertNotCalled(t, "Create")
}

func TestCreateHandlerConflictBody(t *testing.T) {
	conflict := apperr.New(apperr.Conflict, "capacity exceeded").
		WithConflicts([]apperr.ConflictDetail{{Date: "2026-03-14", Source: "booking", RefID: 9}})

	svc := new(handlerMock)
	svc.On("Create", 7, mock.Anything).Return(nil, conflict)

	r := newHandlerRouter(svc, 7, auth.RoleMember)
	w := doRequest(t, r, http.MethodPost, "/bookings", CreateRequest{
		CourtID: 3, Date: "2026-03-14", TimeSlot: "6:00 PM - 8:00 PM", SlotsBooked: 1,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"conflict"`)
	assert.Contains(t, w.Body.String(), `"ref_id":9`)
}

func TestCreateHandlerContention(t *testing.T) {
	svc := new(handlerMock)
	svc.On("Create", 7, mock.Anything).
		Return(nil, apperr.New(apperr.Contention, "lock wait timed out, retry the request"))

	r := newHandlerRouter(svc, 7, auth.RoleMember)
	w := doRequest(t, r, http.MethodPost, "/bookings", CreateRequest{
		CourtID: 3, Date: "2026-03-14", TimeSlot: "6:00 PM - 8:00 PM", SlotsBooked: 1,
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"contention"`)
}

func TestGetHandlerMasksOwnership(t *testing.T) {
	svc := new(handlerMock)
	svc.On("Get", 8, 10, false).
		Return(nil, apperr.Newf(apperr.NotFound, "booking %d not found", 10))

	r := newHandlerRouter(svc, 8, auth.RoleMember)
	w := doRequest(t, r, http.MethodGet, "/bookings/10", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"not_found"`)
}

func TestGetHandlerAdminFlag(t *testing.T) {
	svc := new(handlerMock)
	svc.On("Get", 8, 10, true).Return(&Booking{ID: 10, MemberID: 7}, nil)

	r := newHandlerRouter(svc, 8, auth.RoleAdmin)
	w := doRequest(t, r, http.MethodGet, "/bookings/10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCancelHandlerStateError(t *testing.T) {
	svc := new(handlerMock)
	svc.On("Cancel", 7, 10, false).
		Return(apperr.New(apperr.StateError, "booking is already cancelled"))

	r := newHandlerRouter(svc, 7, auth.RoleMember)
	w := doRequest(t, r, http.MethodDelete, "/bookings/10", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"state_error"`)
}

func TestPathIntRejectsGarbage(t *testing.T) {
	svc := new(handlerMock)
	r := newHandlerRouter(svc, 7, auth.RoleMember)

	w := doRequest(t, r, http.MethodGet, "/bookings/not-a-number", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Get")
}
