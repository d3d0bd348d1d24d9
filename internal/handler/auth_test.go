package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkorchik/train-station-api/internal/config"
	"github.com/vkorchik/train-station-api/internal/repository"
	"github.com/vkorchik/train-station-api/internal/utils"
)

const testSecret = "test-secret"

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewRefreshTokenRepo(db)), mock, db
}

func TestLogoutWithBearerRevokesAllSessions(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	access, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", 15)
	require.NoError(t, err)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 3))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access.Token)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Logout(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutRejectsForgedBearer(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	forged, err := utils.NewAccessToken("some-other-secret", 42, "CUSTOMER", 15)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+forged.Token)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Logout(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// a forged token must never reach the token table
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutWithoutCredentialsRejected(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Logout(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "refresh_token or bearer token")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBearerSubjectClaimShapes(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 7, "ADMIN", 15)
	require.NoError(t, err)

	uid, ok := bearerSubject("Bearer "+access.Token, testSecret)
	assert.True(t, ok)
	assert.Equal(t, uint64(7), uid)

	_, ok = bearerSubject("", testSecret)
	assert.False(t, ok)

	_, ok = bearerSubject("Basic abc", testSecret)
	assert.False(t, ok)

	_, ok = bearerSubject("Bearer not-a-jwt", testSecret)
	assert.False(t, ok)
}
