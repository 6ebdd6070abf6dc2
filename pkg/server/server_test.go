package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brandkeep/brandkeep/pkg/config"
	"github.com/brandkeep/brandkeep/pkg/database"
	"github.com/brandkeep/brandkeep/pkg/i18n"
	"github.com/brandkeep/brandkeep/pkg/migrations"
	"github.com/brandkeep/brandkeep/pkg/models"
	"github.com/brandkeep/brandkeep/pkg/permissions"
	"github.com/brandkeep/brandkeep/pkg/users"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type testServer struct {
	handler http.Handler
	db      *bun.DB
}

func newTestServer(t *testing.T, ratePerSecond float64) *testServer {
	t.Helper()

	cfg := config.NewForTest()
	cfg.RateLimitPerSecond = ratePerSecond

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	localizer, err := i18n.New(cfg.DefaultLocale)
	require.NoError(t, err)

	srv, err := New(cfg, db, localizer)
	require.NoError(t, err)

	return &testServer{handler: srv.Handler, db: db}
}

func (ts *testServer) createUser(t *testing.T, username, roleName string) {
	t.Helper()
	ctx := context.Background()

	role := new(models.Role)
	err := ts.db.NewSelect().
		Model(role).
		Where("normalized_name = ?", models.NormalizeName(roleName)).
		Scan(ctx)
	require.NoError(t, err)

	_, err = users.NewService(ts.db).Create(ctx, users.CreateUserOptions{
		Username: username,
		Password: "password123",
		RoleIDs:  []string{role.ID},
	})
	require.NoError(t, err)
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) login(t *testing.T, username string) string {
	t.Helper()

	rr := ts.do(t, http.MethodPost, "/auth/login", "", `{"username":"`+username+`","password":"password123"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := struct {
		Token string `json:"token"`
	}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

type roleBody struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	IsDefault   bool     `json:"is_default"`
	Permissions []string `json:"permissions"`
}

type errBody struct {
	Error struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestServer_RoleManagement(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 1000)
	ts.createUser(t, "root", permissions.RoleAdmin)
	token := ts.login(t, "root")

	rr := ts.do(t, http.MethodPost, "/roles", token, `{"name":"Editor","description":"Edits brands"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Role Editor Created.", decode[map[string]string](t, rr)["message"])

	rr = ts.do(t, http.MethodPost, "/roles", token, `{"name":"editor"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	eb := decode[errBody](t, rr)
	assert.Equal(t, "internal_error", eb.Error.Code)
	assert.Equal(t, []string{"Role name 'editor' is already taken."}, eb.Error.Details)

	rr = ts.do(t, http.MethodGet, "/roles", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]roleBody](t, rr)
	require.Len(t, list, 3)
	var editor roleBody
	for _, r := range list {
		if r.Name == "Editor" {
			editor = r
		}
	}
	require.NotEmpty(t, editor.ID)
	assert.False(t, editor.IsDefault)

	rr = ts.do(t, http.MethodPut, "/roles/"+editor.ID+"/permissions", token,
		`{"permissions":["Permissions.Brands.View","Permissions.Brands.Update",""]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Permissions Updated.", decode[map[string]string](t, rr)["message"])

	rr = ts.do(t, http.MethodGet, "/roles/"+editor.ID+"/permissions", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{permissions.BrandsUpdate, permissions.BrandsView}, decode[roleBody](t, rr).Permissions)

	rr = ts.do(t, http.MethodGet, "/roles/exists?name=EDITOR&exclude_id="+editor.ID, token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[map[string]bool](t, rr)["exists"])

	rr = ts.do(t, http.MethodDelete, "/roles/"+editor.ID, token, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Role Editor Deleted.", decode[map[string]string](t, rr)["message"])

	rr = ts.do(t, http.MethodGet, "/roles/"+editor.ID, token, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_DefaultRolesAreProtected(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 1000)
	ts.createUser(t, "root", permissions.RoleAdmin)
	token := ts.login(t, "root")

	rr := ts.do(t, http.MethodGet, "/auth/me", token, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var adminID string
	rr = ts.do(t, http.MethodGet, "/roles", token, "")
	for _, r := range decode[[]roleBody](t, rr) {
		if r.Name == permissions.RoleAdmin {
			adminID = r.ID
		}
	}
	require.NotEmpty(t, adminID)

	rr = ts.do(t, http.MethodDelete, "/roles/"+adminID, token, "")
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Not allowed to delete Admin Role.", decode[errBody](t, rr).Error.Message)

	rr = ts.do(t, http.MethodPost, "/roles", token, `{"id":"`+adminID+`","name":"Boss"}`)
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.do(t, http.MethodPut, "/roles/"+adminID+"/permissions", token, `{"permissions":["Permissions.Roles.View"]}`)
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, decode[errBody](t, rr).Error.Message, permissions.RoleClaimsEdit)
}

func TestServer_Permissions(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 1000)
	ts.createUser(t, "bob", permissions.RoleBasic)
	token := ts.login(t, "bob")

	rr := ts.do(t, http.MethodGet, "/roles", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.do(t, http.MethodGet, "/roles", token, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.do(t, http.MethodPost, "/roles", token, `{"name":"Sneaky"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.do(t, http.MethodPost, "/brands/search", token, `{"keyword":"shoe"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	page := decode[map[string]any](t, rr)
	assert.EqualValues(t, 0, page["total_count"])
	assert.EqualValues(t, 1, page["current_page"])
	assert.EqualValues(t, 10, page["page_size"])

	rr = ts.do(t, http.MethodPost, "/brands", token, `{"name":"Acme"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestServer_BrandSearch(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 1000)
	ts.createUser(t, "root", permissions.RoleAdmin)
	token := ts.login(t, "root")

	for _, name := range []string{"Zephyr", "acme", "Beacon"} {
		rr := ts.do(t, http.MethodPost, "/brands", token, `{"name":"`+name+`"}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr := ts.do(t, http.MethodPost, "/brands/search", token, `{"page_size":2}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	page := decode[struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
		TotalCount int  `json:"total_count"`
		HasNext    bool `json:"has_next_page"`
	}](t, rr)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "acme", page.Data[0].Name)
	assert.Equal(t, "Beacon", page.Data[1].Name)
	assert.Equal(t, 3, page.TotalCount)
	assert.True(t, page.HasNext)

	rr = ts.do(t, http.MethodPost, "/brands/search", token, `{"order_by":["color"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestServer_TestRoutes(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 1000)

	rr := ts.do(t, http.MethodPost, "/test/users", "", `{"username":"editor","password":"password123","roles":["basic"]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	token := ts.login(t, "editor")

	rr = ts.do(t, http.MethodPost, "/test/brands", "", `{"names":["Beta","alpha"]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = ts.do(t, http.MethodPost, "/brands/search", token, `{"keyword":"ALP"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	page := decode[map[string]any](t, rr)
	assert.EqualValues(t, 1, page["total_count"])

	rr = ts.do(t, http.MethodDelete, "/test/brands", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 2, decode[map[string]int](t, rr)["deleted"])

	rr = ts.do(t, http.MethodDelete, "/test/users", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, decode[map[string]int](t, rr)["deleted"])
}

func TestServer_RateLimit(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 1)

	rr := ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestServer_NotFound(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 1000)

	rr := ts.do(t, http.MethodGet, "/nope", "", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Page not found.", decode[errBody](t, rr).Error.Message)
}
