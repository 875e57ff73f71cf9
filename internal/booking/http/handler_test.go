package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBookingService struct {
	booking.Service
	createFn       func(ctx context.Context, req booking.CreateRequest) (*booking.Booking, error)
	decideFn       func(ctx context.Context, bookingID, userID int64, approve bool) (*booking.Booking, error)
	listByBookerFn func(ctx context.Context, userID int64, state booking.State, page booking.Page) ([]*booking.Booking, error)
	listByOwnerFn  func(ctx context.Context, userID int64, state booking.State, page booking.Page) ([]*booking.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, req booking.CreateRequest) (*booking.Booking, error) {
	return m.createFn(ctx, req)
}
func (m *mockBookingService) Decide(ctx context.Context, bookingID, userID int64, approve bool) (*booking.Booking, error) {
	return m.decideFn(ctx, bookingID, userID, approve)
}
func (m *mockBookingService) ListByBooker(ctx context.Context, userID int64, state booking.State, page booking.Page) ([]*booking.Booking, error) {
	return m.listByBookerFn(ctx, userID, state, page)
}
func (m *mockBookingService) ListByOwner(ctx context.Context, userID int64, state booking.State, page booking.Page) ([]*booking.Booking, error) {
	return m.listByOwnerFn(ctx, userID, state, page)
}

func newTestRouter(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group(""), NewHandler(svc), auth.UserRequired())
	return r
}

func executeRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(auth.UserIDHeader, "2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBookingHandler(t *testing.T) {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	sample := &booking.Booking{
		ID: 7, ItemID: 10, ItemName: "Drill", BookerID: 2, BookerName: "Bob",
		Start: start, End: start.Add(time.Hour), Status: booking.StatusWaiting,
	}

	t.Run("CreateSuccess", func(t *testing.T) {
		var got booking.CreateRequest
		svc := &mockBookingService{
			createFn: func(_ context.Context, req booking.CreateRequest) (*booking.Booking, error) {
				got = req
				return sample, nil
			},
		}

		w := executeRequest(newTestRouter(svc), http.MethodPost, "/bookings",
			`{"itemId":10,"start":"2026-05-01T10:00:00Z","end":"2026-05-01T11:00:00Z"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, int64(2), got.BookerID)
		assert.Equal(t, int64(10), got.ItemID)
		assert.True(t, got.Start.Equal(start))

		var resp BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "WAITING", resp.Status)
		assert.Equal(t, "Bob", resp.Booker.Name)
		assert.Equal(t, "Drill", resp.Item.Name)
	})

	t.Run("CreateUnavailableItem", func(t *testing.T) {
		svc := &mockBookingService{
			createFn: func(context.Context, booking.CreateRequest) (*booking.Booking, error) {
				return nil, booking.ErrItemUnavailable
			},
		}

		w := executeRequest(newTestRouter(svc), http.MethodPost, "/bookings",
			`{"itemId":10,"start":"2026-05-01T10:00:00Z","end":"2026-05-01T11:00:00Z"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DecideRequiresApproved", func(t *testing.T) {
		w := executeRequest(newTestRouter(&mockBookingService{}), http.MethodPatch, "/bookings/7", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DecidePassesVerdict", func(t *testing.T) {
		var gotApprove bool
		svc := &mockBookingService{
			decideFn: func(_ context.Context, id, _ int64, approve bool) (*booking.Booking, error) {
				gotApprove = approve
				b := *sample
				b.Status = booking.StatusApproved
				return &b, nil
			},
		}

		w := executeRequest(newTestRouter(svc), http.MethodPatch, "/bookings/7?approved=true", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, gotApprove)
		assert.Contains(t, w.Body.String(), `"status":"APPROVED"`)
	})

	t.Run("DecideBookerApprovingForbidden", func(t *testing.T) {
		svc := &mockBookingService{
			decideFn: func(context.Context, int64, int64, bool) (*booking.Booking, error) {
				return nil, booking.ErrOwnerApproveOnly
			},
		}

		w := executeRequest(newTestRouter(svc), http.MethodPatch, "/bookings/7?approved=true", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("DecideRace", func(t *testing.T) {
		svc := &mockBookingService{
			decideFn: func(context.Context, int64, int64, bool) (*booking.Booking, error) {
				return nil, booking.ErrDecisionConflict
			},
		}

		w := executeRequest(newTestRouter(svc), http.MethodPatch, "/bookings/7?approved=false", "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("ListUnknownState", func(t *testing.T) {
		called := false
		svc := &mockBookingService{
			listByBookerFn: func(context.Context, int64, booking.State, booking.Page) ([]*booking.Booking, error) {
				called = true
				return nil, nil
			},
		}

		w := executeRequest(newTestRouter(svc), http.MethodGet, "/bookings?state=BOGUS", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Unknown state: BOGUS"}`, w.Body.String())
		assert.False(t, called)
	})

	t.Run("ListDefaultsToAll", func(t *testing.T) {
		var gotState booking.State
		var gotPage booking.Page
		svc := &mockBookingService{
			listByBookerFn: func(_ context.Context, _ int64, state booking.State, page booking.Page) ([]*booking.Booking, error) {
				gotState, gotPage = state, page
				return []*booking.Booking{sample}, nil
			},
		}

		w := executeRequest(newTestRouter(svc), http.MethodGet, "/bookings", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, booking.StateAll, gotState)
		assert.Equal(t, booking.Page{}, gotPage)

		var resp []BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
	})

	t.Run("ListByOwnerWindow", func(t *testing.T) {
		var gotState booking.State
		var gotPage booking.Page
		svc := &mockBookingService{
			listByOwnerFn: func(_ context.Context, _ int64, state booking.State, page booking.Page) ([]*booking.Booking, error) {
				gotState, gotPage = state, page
				return nil, nil
			},
		}

		w := executeRequest(newTestRouter(svc), http.MethodGet, "/bookings/owner?state=waiting&from=5&size=5", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, booking.StateWaiting, gotState)
		assert.Equal(t, booking.Page{From: 5, Size: 5}, gotPage)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("ListRejectsNegativeSize", func(t *testing.T) {
		w := executeRequest(newTestRouter(&mockBookingService{}), http.MethodGet, "/bookings?size=-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
