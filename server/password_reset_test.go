package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return newServer(db, Config{JWTSecret: "test-secret", Environment: "test"}), mock
}

func TestForgotPassword_SameAnswerForUnknownEmail(t *testing.T) {
	s, mock := mockServer(t)

	mock.ExpectQuery("SELECT id FROM users WHERE email").
		WithArgs("ann@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
	mock.ExpectExec("INSERT INTO password_resets").
		WithArgs("user-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	known := doRequest(t, s, http.MethodPost, "/auth/forgot-password", `{"email":"Ann@Example.com"}`, nil)

	mock.ExpectQuery("SELECT id FROM users WHERE email").
		WithArgs("nobody@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	unknown := doRequest(t, s, http.MethodPost, "/auth/forgot-password", `{"email":"nobody@example.com"}`, nil)

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, known.Code, unknown.Code)
	assert.JSONEq(t, known.Body.String(), unknown.Body.String())
	assert.Contains(t, known.Body.String(), `"success":true`)
}

func expectReset(mock sqlmock.Sqlmock, jti, userID string) {
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE password_resets SET used = TRUE").
		WithArgs(jti, userID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reset-1"))
	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs(sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestResetPassword_TokenWorksOnce(t *testing.T) {
	s, mock := mockServer(t)
	token, jti, _, err := s.tokens.issue("user-1", "ann@example.com")
	require.NoError(t, err)
	body := `{"token":"` + token + `","password":"a-new-password"}`

	expectReset(mock, jti, "user-1")
	mock.ExpectExec("DELETE FROM sessions WHERE user_id").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	rec := doRequest(t, s, http.MethodPost, "/auth/reset-password", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Password updated")

	// the row is marked used, so the update matches nothing
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE password_resets SET used = TRUE").
		WithArgs(jti, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	rec = doRequest(t, s, http.MethodPost, "/auth/reset-password", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired reset token")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPassword_FailsWhenSessionsCannotBeRevoked(t *testing.T) {
	s, mock := mockServer(t)
	token, jti, _, err := s.tokens.issue("user-1", "ann@example.com")
	require.NoError(t, err)

	expectReset(mock, jti, "user-1")
	mock.ExpectExec("DELETE FROM sessions WHERE user_id").
		WithArgs("user-1").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	rec := doRequest(t, s, http.MethodPost, "/auth/reset-password", `{"token":"`+token+`","password":"a-new-password"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)

	require.NoError(t, mock.ExpectationsWereMet())
}
