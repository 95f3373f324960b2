package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/fakeapi"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

func newClient(url string) *Client {
	return &Client{API: apiclient.New(url, time.Second, nil)}
}

func TestListAll(t *testing.T) {
	api := fakeapi.New(t.Cleanup, fakeapi.SampleProducts())
	items, err := newClient(api.URL).ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fakeapi.SampleProducts(), items)
}

func TestGetByID(t *testing.T) {
	api := fakeapi.New(t.Cleanup, fakeapi.SampleProducts())
	c := newClient(api.URL)

	p, err := c.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "jewelery", p.Category)

	_, err = c.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUpdateDelete(t *testing.T) {
	api := fakeapi.New(t.Cleanup, fakeapi.SampleProducts())
	c := newClient(api.URL)
	ctx := context.Background()

	created, err := c.Create(ctx, models.Product{ID: 77, Title: "Lamp", Price: 12.5, Description: "d", Category: "home", Image: "i"})
	require.NoError(t, err)
	assert.Equal(t, 10, created.ID, "the api assigns the id")
	assert.Equal(t, 12.5, created.Price)

	updated, err := c.Update(ctx, created.ID, models.Product{Title: "Desk Lamp", Price: 14, Description: "d", Category: "home", Image: "i"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Desk Lamp", updated.Title)

	deleted, err := c.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", deleted.Title)

	_, err = c.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Update(ctx, 12345, models.Product{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newClient(url).ListAll(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).ListAll(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, "list", se.Op)
}

func TestDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).ListAll(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNetwork)
}

func TestCancelledContextIsNotNetworkError(t *testing.T) {
	api := fakeapi.New(t.Cleanup, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(api.URL).ListAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrNetwork)
}
