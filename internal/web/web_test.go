package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/fakeapi"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

type recordedEvent struct {
	topic string
	event events.Event
}

type recorder struct {
	got []recordedEvent
}

func (r *recorder) PublishEvent(_ context.Context, topic, _ string, event any) error {
	r.got = append(r.got, recordedEvent{topic: topic, event: event.(events.Event)})
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	out := make([]string, 0, len(r.got))
	for _, e := range r.got {
		out = append(out, e.event.Type)
	}
	return out
}

type testApp struct {
	t      *testing.T
	e      *echo.Echo
	api    *fakeapi.Server
	events *recorder
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	api := fakeapi.New(t.Cleanup, fakeapi.SampleProducts())
	client := apiclient.New(api.URL, 2*time.Second, nil)
	rec := &recorder{}

	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	e := echo.New()
	Register(e, &Deps{
		Templates: tmpl,
		Handler: &Handler{
			Catalog:  &catalog.Client{API: client},
			Auth:     auth.Gateway{API: client, Roles: auth.RolePolicy{AdminUsername: "johnd"}},
			Sessions: session.NewMemoryBackend(),
			Events:   events.Emitter{Publisher: rec},
		},
	})
	return &testApp{t: t, e: e, api: api, events: rec}
}

func (a *testApp) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(username string) *http.Cookie {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {fakeapi.Password}}, nil)
	require.Equal(a.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(a.t, "/products", rec.Header().Get(echo.HeaderLocation))

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			return ck
		}
	}
	a.t.Fatal("no session cookie")
	return nil
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/health/live", nil, nil).Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/health/ready", nil, nil).Code)

	rec := app.do(http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get(echo.HeaderLocation))
}

func TestProductsRequireLogin(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/products", "/products/1", "/admin/products/new"} {
		rec := app.do(http.MethodGet, target, nil, nil)
		assert.Equal(t, http.StatusFound, rec.Code, target)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation), target)
	}
	assert.Zero(t, app.api.Requests("GET /products"), "no fetch before the redirect")
}

func TestLoginFailures(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/login", url.Values{"username": {""}, "password": {"x"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter both username and password")
	assert.Zero(t, app.api.Requests("POST /auth/login"))

	rec = app.do(http.MethodPost, "/login", url.Values{"username": {"johnd"}, "password": {"wrong"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Contains(t, rec.Body.String(), `value="johnd"`)
	assert.Empty(t, app.events.got)
}

func TestLoginPageRedirectsWhenLoggedIn(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/login", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)

	ck := app.login("mor_2314")
	rec = app.do(http.MethodGet, "/login", nil, ck)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestListProductsAsUser(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("mor_2314")

	rec := app.do(http.MethodGet, "/products", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Foldsack No. 1 Backpack")
	assert.Contains(t, body, "Hard Drive")
	assert.Contains(t, body, "$22.30")
	assert.Contains(t, body, `<option value="electronics"`)
	assert.NotContains(t, body, "/admin/products/new", "users get no admin controls")
	assert.Contains(t, body, "mor_2314")
}

func TestListProductsFilters(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("mor_2314")

	rec := app.do(http.MethodGet, "/products?q=BACKPACK", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Backpack")
	assert.NotContains(t, rec.Body.String(), "Hard Drive")

	rec = app.do(http.MethodGet, "/products?category=electronics&max_price=64", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hard Drive")
	assert.NotContains(t, rec.Body.String(), "Backpack")

	rec = app.do(http.MethodGet, "/products?max_price=abc", nil, ck)
	assert.Contains(t, rec.Body.String(), "Backpack", "unparsable max price is ignored")

	rec = app.do(http.MethodGet, "/products?q=nothing-like-this", nil, ck)
	assert.Contains(t, rec.Body.String(), "No products found.")
	assert.Contains(t, rec.Body.String(), "Page 1 of 1")
}

func TestListProductsPagination(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("mor_2314")

	rec := app.do(http.MethodGet, "/products?size=2&page=2", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Page 2 of 2")
	assert.Contains(t, body, "Hard Drive")
	assert.NotContains(t, body, "Backpack")
	assert.Contains(t, body, "Previous")
}

func TestListProductsAsAdmin(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("johnd")

	rec := app.do(http.MethodGet, "/products", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/admin/products/new")
	assert.Contains(t, rec.Body.String(), "/admin/products/9/edit")
	assert.Equal(t, []string{"user_logged_in"}, app.events.types())
	assert.Equal(t, "admin", app.events.got[0].event.Role)
}

func TestProductDetail(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("mor_2314")

	rec := app.do(http.MethodGet, "/products/9", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "USB 3.0")

	rec = app.do(http.MethodGet, "/products/999", nil, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")

	rec = app.do(http.MethodGet, "/products/abc", nil, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserCannotMutate(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("mor_2314")

	form := url.Values{"title": {"Lamp"}, "price": {"12"}, "description": {"d"}, "category": {"home"}, "image": {"i"}}
	rec := app.do(http.MethodPost, "/admin/products/new", form, ck)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You can&#39;t edit products")
	assert.Zero(t, app.api.Requests("POST /products"))

	rec = app.do(http.MethodPost, "/admin/products/1/delete", nil, ck)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, app.api.Requests("DELETE /products/1"))
}

func TestAdminCreateProduct(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("johnd")

	rec := app.do(http.MethodGet, "/admin/products/new", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	form := url.Values{"title": {"Desk Lamp"}, "price": {"12.50"}, "description": {"warm light"}, "category": {"home"}, "image": {"https://img.example/lamp.jpg"}}
	rec = app.do(http.MethodPost, "/admin/products/new", form, ck)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/products", rec.Header().Get(echo.HeaderLocation))

	products := app.api.Products()
	last := products[len(products)-1]
	assert.Equal(t, "Desk Lamp", last.Title)
	assert.Equal(t, 12.5, last.Price)
	assert.Equal(t, 10, last.ID)
	assert.Equal(t, []string{"user_logged_in", "product_created"}, app.events.types())
	assert.Equal(t, events.TopicProduct, app.events.got[1].topic)
}

func TestAdminCreateProductValidation(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("johnd")

	form := url.Values{"title": {""}, "price": {"cheap"}, "description": {"d"}, "category": {"home"}, "image": {"i"}}
	rec := app.do(http.MethodPost, "/admin/products/new", form, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title required")
	assert.Contains(t, rec.Body.String(), "price must be a number")
	assert.Contains(t, rec.Body.String(), `value="cheap"`, "the form keeps what was typed")
	assert.Zero(t, app.api.Requests("POST /products"))
}

func TestAdminEditProduct(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("johnd")

	rec := app.do(http.MethodGet, "/admin/products/9/edit", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="64"`)

	form := url.Values{"title": {"WD 4TB"}, "price": {"99"}, "description": {"USB 3.0"}, "category": {"electronics"}, "image": {"i"}}
	rec = app.do(http.MethodPost, "/admin/products/9/edit", form, ck)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, "/products/9", nil, ck)
	assert.Contains(t, rec.Body.String(), "WD 4TB")

	rec = app.do(http.MethodPost, "/admin/products/999/edit", form, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodGet, "/admin/products/999/edit", nil, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminDeleteProduct(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("johnd")

	rec := app.do(http.MethodGet, "/admin/products/5/delete", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Naga Bracelet")

	rec = app.do(http.MethodPost, "/admin/products/5/delete", nil, ck)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, app.api.Products(), 3)

	rec = app.do(http.MethodPost, "/admin/products/5/delete", nil, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{"user_logged_in", "product_deleted"}, app.events.types())
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("mor_2314")

	rec := app.do(http.MethodPost, "/logout", nil, ck)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	rec = app.do(http.MethodGet, "/products", nil, ck)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, []string{"user_logged_in", "user_logged_out"}, app.events.types())
}

func TestSessionsAreIsolated(t *testing.T) {
	app := newTestApp(t)
	_ = app.login("johnd")

	rec := app.do(http.MethodGet, "/products", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code, "another browser stays logged out")

	bogus := &http.Cookie{Name: sessionCookie, Value: "not-a-uuid"}
	rec = app.do(http.MethodGet, "/products", nil, bogus)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestCatalogUnavailable(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("mor_2314")
	app.api.Close()

	rec := app.do(http.MethodGet, "/products", nil, ck)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to load products")
}

func TestCancelledRequestWritesNothing(t *testing.T) {
	app := newTestApp(t)
	ck := app.login("mor_2314")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/products", nil).WithContext(ctx)
	req.AddCookie(ck)
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)

	assert.Empty(t, rec.Body.String())
}
