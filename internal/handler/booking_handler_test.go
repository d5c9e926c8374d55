package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wanderdesk/service-bookings/internal/application"
	"github.com/wanderdesk/service-bookings/internal/middleware"
	"github.com/wanderdesk/service-bookings/internal/notifier"
	"github.com/wanderdesk/service-bookings/internal/repository"
	"github.com/wanderdesk/service-bookings/internal/response"
)

const testAdminKey = "test-admin-key"

// newTestRouter wires the full HTTP surface over the whole-document backend.
func newTestRouter(t *testing.T) (*gin.Engine, *notifier.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	repo := repository.NewDocumentBookingRepository(filepath.Join(t.TempDir(), "bookings.json"))
	hub := notifier.NewHub(log)
	service := application.NewBookingService(repo, hub, log, 100)

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())

	NewHealthHandler(service, "service-bookings").RegisterRoutes(router)
	NewBookingHandler(service, 10).RegisterRoutes(&router.RouterGroup)
	NewAdminHandler(service).RegisterRoutes(&router.RouterGroup, testAdminKey)
	NewLiveHandler(hub, log).RegisterRoutes(&router.RouterGroup)

	return router, hub
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), "body: %s", rec.Body.String())
	return rec, envelope
}

func createHotelViaAPI(t *testing.T, router *gin.Engine) map[string]any {
	t.Helper()
	rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/bookings", map[string]any{
		"booking_mode":   "hotel",
		"guest_name":     "Amira Hassan",
		"hotel_name":     "Grand Meridian",
		"city":           "Lisbon",
		"check_in_date":  "2026-09-10",
		"check_out_date": "2026-09-14",
		"nights":         4,
		"total_cost":     780.50,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, envelope.Success)
	return envelope.Data.(map[string]any)
}

func TestCreateBookingEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("created", func(t *testing.T) {
		data := createHotelViaAPI(t, router)
		assert.NotEmpty(t, data["id"])
		assert.True(t, strings.HasPrefix(data["reference"].(string), "HT"))
		assert.Equal(t, "pending", data["status"])
	})

	t.Run("validation failure is a failed envelope", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/bookings", map[string]any{
			"booking_mode": "cruise",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, envelope.Success)
		assert.Contains(t, envelope.Message, "booking_mode")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetBookingEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	created := createHotelViaAPI(t, router)

	t.Run("found", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/bookings/"+created["id"].(string), nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, envelope.Success)
		data := envelope.Data.(map[string]any)
		assert.Equal(t, created["reference"], data["reference"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/bookings/00000000-0000-0000-0000-000000000001", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, envelope.Success)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/bookings/not-a-uuid", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, envelope.Success)
	})
}

func TestListBookingsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	for i := 0; i < 5; i++ {
		createHotelViaAPI(t, router)
	}

	t.Run("paginated envelope", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/bookings?page=1&page_size=2", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, envelope.Success)

		items := envelope.Data.([]any)
		assert.Len(t, items, 2)

		meta := envelope.Meta.(map[string]any)
		assert.EqualValues(t, 1, meta["page"])
		assert.EqualValues(t, 2, meta["page_size"])
		assert.EqualValues(t, 5, meta["total"])
		assert.EqualValues(t, 3, meta["total_pages"])
	})

	t.Run("defaults applied", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/bookings", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		meta := envelope.Meta.(map[string]any)
		assert.EqualValues(t, 1, meta["page"])
		assert.EqualValues(t, 10, meta["page_size"])
	})

	t.Run("page beyond the last", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/bookings?page=40&page_size=2", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, envelope.Data)
		meta := envelope.Meta.(map[string]any)
		assert.EqualValues(t, 5, meta["total"])
	})

	t.Run("non-positive page rejected", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/bookings?page=0", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, envelope.Success)
	})

	t.Run("non-integer page rejected", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/bookings?page=abc", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, envelope.Success)
	})

	t.Run("unknown filter value rejected", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/bookings?booking_mode=cruise", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("search narrows results", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/bookings?search=lisbon", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		meta := envelope.Meta.(map[string]any)
		assert.EqualValues(t, 5, meta["total"])

		rec, envelope = doJSON(t, router, http.MethodGet, "/api/v1/bookings?search=zanzibar", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		meta = envelope.Meta.(map[string]any)
		assert.EqualValues(t, 0, meta["total"])
	})
}

func TestUpdateBookingEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	created := createHotelViaAPI(t, router)
	id := created["id"].(string)

	t.Run("patch applied", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodPatch, "/api/v1/bookings/"+id, map[string]any{
			"status":     "confirmed",
			"total_cost": 812.00,
		}, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, envelope.Success)
		data := envelope.Data.(map[string]any)
		assert.Equal(t, "confirmed", data["status"])
		assert.EqualValues(t, 812.00, data["total_cost"])
		assert.Equal(t, "Grand Meridian", data["hotel_name"], "untouched fields survive")
	})

	t.Run("empty patch rejected", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodPatch, "/api/v1/bookings/"+id, map[string]any{}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, envelope.Success)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodPatch, "/api/v1/bookings/00000000-0000-0000-0000-000000000001", map[string]any{
			"status": "confirmed",
		}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteBookingEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	created := createHotelViaAPI(t, router)
	id := created["id"].(string)

	rec, envelope := doJSON(t, router, http.MethodDelete, "/api/v1/bookings/"+id, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)

	// Idempotent failure: the second delete is NotFound, not success.
	rec, envelope = doJSON(t, router, http.MethodDelete, "/api/v1/bookings/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, envelope.Success)
}

func TestAdminSummaryEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	createHotelViaAPI(t, router)

	t.Run("requires the admin key", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/admin/summary", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, envelope.Success)

		rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/admin/summary", nil, map[string]string{
			middleware.AdminKeyHeader: "wrong-key",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("summary with the key", func(t *testing.T) {
		rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/admin/summary", nil, map[string]string{
			middleware.AdminKeyHeader: testAdminKey,
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, envelope.Success)

		data := envelope.Data.(map[string]any)
		assert.EqualValues(t, 1, data["total_bookings"])

		byStatus := data["by_status"].(map[string]any)
		assert.Len(t, byStatus, 4, "every status bucket present")
		assert.EqualValues(t, 1, byStatus["pending"])
		assert.EqualValues(t, 0, byStatus["cancelled"])

		byMode := data["by_mode"].(map[string]any)
		assert.Len(t, byMode, 4, "every mode bucket present")
		assert.EqualValues(t, 1, byMode["hotel"])
		assert.EqualValues(t, 0, byMode["train"])
	})
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLiveChannel(t *testing.T) {
	router, hub := newTestRouter(t)

	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 },
		2*time.Second, 10*time.Millisecond, "subscriber not registered")

	t.Run("mutation pushes a signal", func(t *testing.T) {
		createHotelViaAPI(t, router)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, message, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "changed", string(message))
	})

	t.Run("each mutation signals again", func(t *testing.T) {
		created := createHotelViaAPI(t, router)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, _, err := conn.ReadMessage()
		require.NoError(t, err)

		rec, _ := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%s", created["id"]), nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, message, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "changed", string(message))
	})

	t.Run("disconnect unsubscribes", func(t *testing.T) {
		require.NoError(t, conn.Close())
		require.Eventually(t, func() bool { return hub.Count() == 0 },
			2*time.Second, 10*time.Millisecond, "subscriber not removed after disconnect")
	})
}
