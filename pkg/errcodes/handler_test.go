package errcodes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error struct {
		Code       string   `json:"code"`
		Message    string   `json:"message"`
		StatusCode int      `json:"status_code"`
		Details    []string `json:"details"`
	} `json:"error"`
}

func handle(t *testing.T, err error) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	NewHandler().Handle(err, c)

	body := errorBody{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func TestHandle(t *testing.T) {
	t.Parallel()

	t.Run("conflict", func(tt *testing.T) {
		rr, body := handle(tt, errors.WithStack(Conflict("Role is in use.")))
		assert.Equal(tt, http.StatusConflict, rr.Code)
		assert.Equal(tt, "conflict", body.Error.Code)
		assert.Equal(tt, "Role is in use.", body.Error.Message)
		assert.Empty(tt, body.Error.Details)
	})

	t.Run("internal error keeps details", func(tt *testing.T) {
		rr, body := handle(tt, InternalError("Register role failed", "Role name 'Admin' is already taken."))
		assert.Equal(tt, http.StatusInternalServerError, rr.Code)
		assert.Equal(tt, "internal_error", body.Error.Code)
		assert.Equal(tt, []string{"Role name 'Admin' is already taken."}, body.Error.Details)
	})

	t.Run("not found", func(tt *testing.T) {
		rr, body := handle(tt, NotFound("Role"))
		assert.Equal(tt, http.StatusNotFound, rr.Code)
		assert.Equal(tt, "Role not found.", body.Error.Message)
	})

	t.Run("generic errors are internal server errors", func(tt *testing.T) {
		rr, body := handle(tt, errors.New("boom"))
		assert.Equal(tt, http.StatusInternalServerError, rr.Code)
		assert.Equal(tt, "internal_server_error", body.Error.Code)
		assert.Equal(tt, "Internal Server Error", body.Error.Message)
	})

	t.Run("echo errors", func(tt *testing.T) {
		rr, body := handle(tt, echo.NewHTTPError(http.StatusTooManyRequests, "Too Many Requests"))
		assert.Equal(tt, http.StatusTooManyRequests, rr.Code)
		assert.Equal(tt, "too_many_requests", body.Error.Code)
	})
}

func TestErrorIs(t *testing.T) {
	t.Parallel()

	err := errors.WithStack(NotFound("Role"))
	assert.ErrorIs(t, err, NotFound("Role"))
	assert.NotErrorIs(t, err, NotFound("Brand"))

	var e *Error
	require.ErrorAs(t, InternalError("failed", "a", "b"), &e)
	assert.Equal(t, []string{"a", "b"}, e.Details)
}
