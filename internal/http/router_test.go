package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "backoffice/internal/config"
	"backoffice/internal/http/handlers"
	"backoffice/internal/services"
	"backoffice/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow  = time.Date(2024, time.May, 1, 10, 0, 0, 0, time.Local)
	seedData = store.Seed(testNow)
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine *gin.Engine
	store  *store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := store.NewWithSnapshot(store.NewMemoryBlob(nil), seedData)
	hd := &handlers.Handler{
		Store:    st,
		Secret:   []byte("router-test"),
		TokenTTL: time.Hour,
		Clock:    services.Clock(func() time.Time { return testNow }),
	}
	env := intconfig.Env{LoginRatePerMin: 60, CORSOrigins: "http://localhost:5173"}
	return &testServer{engine: NewRouter(env, hd), store: st}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, id, password string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"id": id, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	body := decode[map[string]any](t, w)
	assert.Equal(t, "ok", body["status"])
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/customers", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"id": "admin", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.login(t, "admin", "admin_password")
	w = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)
	assert.Equal(t, "Admin User", me["name"])
	assert.NotContains(t, me, "passwordHash")
}

func TestStaffCannotReachAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "ali.h", "staff_password")

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/customers", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/customers/C001", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/payments", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/expense-categories", token, nil).Code)

	manager := s.login(t, "hassan.o", "manager_password")
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/expense-categories", manager, nil).Code)
}

func TestCreateBookingReportsRuleViolation(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin", "admin_password")

	w := s.do(http.MethodPost, "/api/bookings", token, gin.H{
		"customerId": "C001",
		"packageId":  "P01",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[handlers.ErrorResponse](t, w)
	assert.Equal(t, "rule_violation", body.Code)
	details, ok := body.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "IncompleteRoomInfo", details["kind"])
	assert.Len(t, s.store.Bookings(), 7)
}

func TestCreateBookingAndFetchInvoice(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "ali.h", "staff_password")

	w := s.do(http.MethodPost, "/api/bookings", token, gin.H{
		"customerId": "C002",
		"packageId":  "P02",
		"roomType":   "Double",
		"meals":      "Breakfast",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	w = s.do(http.MethodGet, "/api/bookings/"+id+"/financials", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fin := decode[map[string]any](t, w)
	assert.EqualValues(t, 60000, fin["remainingBalance"])

	w = s.do(http.MethodGet, "/api/bookings/"+id+"/invoice", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Invoice-"+id+".pdf")
}

func TestUnknownResourcesAndRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin", "admin_password")

	w := s.do(http.MethodGet, "/api/bookings/B999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode[handlers.ErrorResponse](t, w).Code)

	w = s.do(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserCannotDeleteSelfOverHTTP(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin", "admin_password")
	w := s.do(http.MethodDelete, "/api/users/admin", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoomingListDownload(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin", "admin_password")

	w := s.do(http.MethodGet, "/api/reports/rooming-list?layout=guestList", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "hotelRoomingList.xlsx")

	w = s.do(http.MethodGet, "/api/reports/rooming-list?layout=grid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/reports/bookingList/pdf", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bookingList.pdf")
}

func TestPassportScanWithoutScanner(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin", "admin_password")
	w := s.do(http.MethodPost, "/api/customers/passport-scan", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "no multipart file")
}
