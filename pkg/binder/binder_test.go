package binder

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" mod:"trim" validate:"max=9"`
	Omit  string `json:"-"`
}

type permissionParams struct {
	Permissions []string `json:"permissions" validate:"dive,permission"`
}

type queryParams struct {
	Name  string `query:"name" json:"name" mod:"trim"`
	Limit int    `query:"limit" json:"limit" default:"50" validate:"min=1,max=100"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json and application/x-www-form-urlencoded", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})
}

func TestBind_Permissions(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("accepts permission names and blanks", func(tt *testing.T) {
		c := newContext(`{"permissions":["Permissions.Roles.View",""]}`, echo.MIMEApplicationJSON)
		p := permissionParams{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, []string{"Permissions.Roles.View", ""}, p.Permissions)
	})

	t.Run("rejects malformed permissions", func(tt *testing.T) {
		c := newContext(`{"permissions":["Roles.View"]}`, echo.MIMEApplicationJSON)
		p := permissionParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "should be in the format of Permissions.<Resource>.<Action>")
	})
}

func TestBind_Query(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("decodes and defaults query params", func(tt *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/?name=+Admin+", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		p := queryParams{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, "Admin", p.Name)
		assert.Equal(tt, 50, p.Limit)
	})

	t.Run("reports conversion errors", func(tt *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/?limit=lots", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		p := queryParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"limit" should be of type int`)
	})

	t.Run("rejects unknown query params", func(tt *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/?color=red", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		p := queryParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "color"`)
	})

	t.Run("requires a body on writes", func(tt *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Request body can't be empty.")
	})
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
