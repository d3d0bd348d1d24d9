package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkorchik/train-station-api/internal/repository"
	"github.com/vkorchik/train-station-api/internal/service"
)

// newJSONContext builds an echo context carrying the given JSON body.
func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// Validation failures must be rejected before any repository call, so
// a handler with a nil repo proves the order of checks.

func TestStationCreateRejectsOutOfRangeLatitude(t *testing.T) {
	h := NewStationHandler(nil)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/stations",
		`{"name":"North Hub","latitude":95,"longitude":10}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "latitude must be within [-90, 90]")
}

func TestStationCreateRejectsOutOfRangeLongitude(t *testing.T) {
	h := NewStationHandler(nil)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/stations",
		`{"name":"North Hub","latitude":45,"longitude":-200}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "longitude must be within [-180, 180]")
}

func TestStationCreateRequiresName(t *testing.T) {
	h := NewStationHandler(nil)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/stations",
		`{"name":"  ","latitude":45,"longitude":10}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name required")
}

func TestStationValidateAcceptsBoundaryCoordinates(t *testing.T) {
	for _, req := range []stationReq{
		{Name: "South Pole", Latitude: -90, Longitude: 0},
		{Name: "North Pole", Latitude: 90, Longitude: 0},
		{Name: "Date Line", Latitude: 0, Longitude: 180},
		{Name: "Anti Date Line", Latitude: 0, Longitude: -180},
	} {
		assert.Empty(t, req.validate(), "station %q", req.Name)
	}
}

func TestRouteCreateRejectsSameSourceAndDestination(t *testing.T) {
	h := NewRouteHandler(nil)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/routes",
		`{"source":3,"destination":3,"distance":120}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "source and destination must differ")
}

func TestRouteCreateRejectsZeroDistance(t *testing.T) {
	h := NewRouteHandler(nil)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/routes",
		`{"source":1,"destination":2,"distance":0}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "distance must be at least 1")
}

func TestTrainCreateRejectsZeroCargoCount(t *testing.T) {
	h := NewTrainHandler(nil)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/trains",
		`{"name":"Regional","cargo_count":0,"seats_per_cargo":40,"train_type":1}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cargo_count must be at least 1")
}

func TestTripCreateRejectsArrivalBeforeDeparture(t *testing.T) {
	h := NewTripHandler(nil)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/trips",
		`{"route":1,"train":1,"departure_time":"2026-09-01T12:00:00Z","arrival_time":"2026-09-01T10:00:00Z"}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "arrival_time must be after departure_time")
}

func TestTripListRejectsMalformedDateFilter(t *testing.T) {
	h := NewTripHandler(nil)
	c, rec := newJSONContext(t, http.MethodGet, "/v1/trips?departure_time=01-09-2026", "")

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestParseSearchQueryPassesFiltersThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet,
		"/v1/trips?source=kyiv&destination=lviv&departure_time=2026-09-01&arrival_time=2026-09-02", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	q, msg := parseSearchQuery(c)
	assert.Empty(t, msg)
	assert.Equal(t, repository.TripSearchQuery{
		Source:        "kyiv",
		Destination:   "lviv",
		DepartureDate: "2026-09-01",
		ArrivalDate:   "2026-09-02",
	}, q)
}

func TestOrderCreateRequiresAuthenticatedUser(t *testing.T) {
	h := &OrderHandler{}
	c, rec := newJSONContext(t, http.MethodPost, "/v1/orders", `{"tickets":[]}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		page     int
		pageSize int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "page=3&page_size=25", 3, 25},
		{"clamped to max", "page_size=500", 1, 100},
		{"garbage ignored", "page=zero&page_size=-4", 1, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/orders?"+tc.query, nil)
			c := e.NewContext(req, httptest.NewRecorder())
			page, size := pageParams(c)
			assert.Equal(t, tc.page, page)
			assert.Equal(t, tc.pageSize, size)
		})
	}
}

func TestCurrentUserIDHandlesClaimShapes(t *testing.T) {
	e := echo.New()
	newCtx := func(v interface{}) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if v != nil {
			c.Set("user_id", v)
		}
		return c
	}

	id, ok := currentUserID(newCtx(uint64(7)))
	assert.True(t, ok)
	assert.Equal(t, uint64(7), id)

	id, ok = currentUserID(newCtx(float64(12)))
	assert.True(t, ok)
	assert.Equal(t, uint64(12), id)

	id, ok = currentUserID(newCtx("31"))
	assert.True(t, ok)
	assert.Equal(t, uint64(31), id)

	_, ok = currentUserID(newCtx(nil))
	assert.False(t, ok)

	_, ok = currentUserID(newCtx("not-a-number"))
	assert.False(t, ok)
}

func TestWriteRepoErrMapsSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"trip not found", repository.ErrTripNotFound, http.StatusNotFound},
		{"station not found", repository.ErrStationNotFound, http.StatusNotFound},
		{"seat taken", repository.ErrSeatTaken, http.StatusConflict},
		{"email exists", repository.ErrEmailExists, http.StatusConflict},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"empty order", service.ErrEmptyOrder, http.StatusBadRequest},
		{"out of range", &service.OutOfRangeError{Field: "cargo", Value: 9, Max: 4}, http.StatusBadRequest},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(t, http.MethodGet, "/", "")
			require.NoError(t, writeRepoErr(c, tc.err))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestWriteRepoErrHidesInternalDetails(t *testing.T) {
	c, rec := newJSONContext(t, http.MethodGet, "/", "")
	require.NoError(t, writeRepoErr(c, assert.AnError))
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.Contains(t, rec.Body.String(), "internal error")
}
