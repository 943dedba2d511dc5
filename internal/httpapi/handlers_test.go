package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/parking-platform/internal/db/dbtest"
	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/repository"
	"github.com/Leganyst/parking-platform/internal/service"
)

type apiFixture struct {
	server  *httptest.Server
	adminID string
	userID  string
	now     time.Time
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()

	store := repository.NewStore(dbtest.Open(t))
	loc, err := store.Locations.EnsureByName(ctx, repository.DefaultLocationName, repository.DefaultLocationCity)
	require.NoError(t, err)
	_, err = store.Slots.SeedDefaultLayout(ctx, loc.ID)
	require.NoError(t, err)

	admin := &model.User{DisplayName: "Admin", RoleCode: "admin"}
	require.NoError(t, store.Users.Create(ctx, admin))
	user := &model.User{DisplayName: "Asha", RoleCode: "user"}
	require.NoError(t, store.Users.Create(ctx, user))

	f := &apiFixture{
		adminID: admin.ID.String(),
		userID:  user.ID.String(),
		now:     time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	ps, err := service.NewParkingService(store, service.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)
	rs := service.NewReportService(store)

	router := NewRouter(NewHandler("parking-core", ps, rs), store.Users, prometheus.NewRegistry())
	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, userID string, body any) (int, Response) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, f.server.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func data(t *testing.T, r Response) map[string]any {
	t.Helper()
	m, ok := r.Data.(map[string]any)
	require.True(t, ok, "unexpected data %T", r.Data)
	return m
}

func TestAPI_ParkExitFlow(t *testing.T) {
	f := newAPIFixture(t)

	park := ParkRequest{
		LicensePlate: "kA01AB1234",
		VehicleType:  "CAR",
		OwnerName:    "Asha",
		PhoneNumber:  "9000000000",
		LocationID:   1,
	}
	code, resp := f.do(t, http.MethodPost, "/api/parking/park", f.userID, park)
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.True(t, resp.Success)
	parked := data(t, resp)
	assert.Equal(t, "S9", parked["slotNumber"])
	assert.Equal(t, "MEDIUM", parked["sizeClass"])
	assert.NotEmpty(t, resp.Meta.RequestID)

	code, resp = f.do(t, http.MethodPost, "/api/parking/park", "", park)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, resp.Success)

	code, resp = f.do(t, http.MethodGet, "/api/parking/status?licensePlate=KA01AB1234", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(t, resp)["isParked"])

	f.now = f.now.Add(90 * time.Minute)
	code, resp = f.do(t, http.MethodPost, "/api/parking/exit", "", ExitRequest{LicensePlate: "ka01ab1234"})
	require.Equal(t, http.StatusOK, code, resp.Error)
	exited := data(t, resp)
	assert.Equal(t, float64(2), exited["durationHours"])
	assert.Equal(t, float64(40), exited["totalAmount"])

	code, _ = f.do(t, http.MethodPost, "/api/parking/exit", "", ExitRequest{LicensePlate: "KA01AB1234"})
	assert.Equal(t, http.StatusNotFound, code)

	code, resp = f.do(t, http.MethodGet, "/api/bookings/"+parked["bookingNumber"].(string)+"/events", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data, 2)
}

func TestAPI_ValidationAndLookupErrors(t *testing.T) {
	f := newAPIFixture(t)

	code, _ := f.do(t, http.MethodPost, "/api/parking/park", "", ParkRequest{VehicleType: "CAR", LocationID: 1})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodPost, "/api/parking/park", "", ParkRequest{LicensePlate: "A1", VehicleType: "CAR", LocationID: 9})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.do(t, http.MethodGet, "/api/parking/status?licensePlate=NOPE", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.do(t, http.MethodPost, "/api/bookings/BK-missing/complete", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.do(t, http.MethodGet, "/api/parking/slots?locationId=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAPI_CompleteBooking(t *testing.T) {
	f := newAPIFixture(t)

	_, resp := f.do(t, http.MethodPost, "/api/parking/park", "", ParkRequest{LicensePlate: "BIKE1", VehicleType: "BIKE", LocationID: 1})
	number := data(t, resp)["bookingNumber"].(string)

	f.now = f.now.Add(61 * time.Minute)
	code, resp := f.do(t, http.MethodPost, "/api/bookings/"+number+"/complete", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(20), data(t, resp)["totalAmount"])

	code, _ = f.do(t, http.MethodPost, "/api/bookings/"+number+"/complete", "", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestAPI_SlotsPagination(t *testing.T) {
	f := newAPIFixture(t)

	code, resp := f.do(t, http.MethodGet, "/api/parking/slots?locationId=1&page=2&pageSize=8", "", nil)
	require.Equal(t, http.StatusOK, code)
	page := data(t, resp)
	assert.Equal(t, float64(20), page["total"])
	assert.Equal(t, true, page["hasNext"])
	assert.Equal(t, 3.0, page["totalPages"])
	items := page["items"].([]any)
	require.Len(t, items, 8)
	assert.Equal(t, "S9", items[0].(map[string]any)["slotNumber"])

	// номер страницы далеко за концом не должен ронять обработчик
	code, resp = f.do(t, http.MethodGet, "/api/parking/slots?locationId=1&page=184467440737095517&pageSize=100", "", nil)
	require.Equal(t, http.StatusOK, code)
	page = data(t, resp)
	assert.Empty(t, page["items"])
	assert.Equal(t, false, page["hasNext"])
}

func TestAPI_AdminReports(t *testing.T) {
	f := newAPIFixture(t)

	code, _ := f.do(t, http.MethodGet, "/api/admin/reports/usage?from=2025-03-01&to=2025-03-01", "", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = f.do(t, http.MethodGet, "/api/admin/reports/usage?from=2025-03-01&to=2025-03-01", f.userID, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = f.do(t, http.MethodGet, "/api/admin/reports/usage", "not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodGet, "/api/admin/reports/usage", "0b7f7c1e-3f1a-4a43-9d1c-5b8f2a9a1e11", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	f.do(t, http.MethodPost, "/api/parking/park", "", ParkRequest{LicensePlate: "CAR1", VehicleType: "CAR", LocationID: 1})
	f.now = f.now.Add(time.Hour)
	f.do(t, http.MethodPost, "/api/parking/exit", "", ExitRequest{LicensePlate: "CAR1"})

	code, resp := f.do(t, http.MethodGet, "/api/admin/reports/usage?from=2025-03-01&to=2025-03-01", f.adminID, nil)
	require.Equal(t, http.StatusOK, code, resp.Error)
	rep := data(t, resp)
	assert.Equal(t, float64(1), rep["totalBookings"])
	assert.Equal(t, float64(9), rep["peakHour"])
	assert.Equal(t, float64(20), rep["totalRevenue"])

	code, _ = f.do(t, http.MethodGet, "/api/admin/reports/usage?from=2025-03-02&to=2025-03-01", f.adminID, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodGet, "/api/admin/reports/usage?from=03/01/2025&to=2025-03-01", f.adminID, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = f.do(t, http.MethodGet, "/api/admin/locations/1/report", f.adminID, nil)
	require.Equal(t, http.StatusOK, code)
	loc := data(t, resp)
	assert.Equal(t, float64(20), loc["totalSlots"])
	assert.Equal(t, float64(20), loc["availableSlots"])
	assert.Equal(t, float64(20), loc["totalRevenue"])

	code, _ = f.do(t, http.MethodGet, "/api/admin/locations/5/report", f.adminID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	f := newAPIFixture(t)

	resp, err := http.Get(f.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(f.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `parking_http_requests_total{method="GET",route="/health",status="200"} 1`))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
