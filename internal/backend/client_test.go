package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/shared/apperr"
)

func newServer(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return backend.New(backend.Config{BaseURL: srv.URL + "/"})
}

func TestNotConfigured(t *testing.T) {
	c := backend.New(backend.Config{})
	assert.False(t, c.Configured())

	_, err := c.Categories(context.Background())
	assert.ErrorIs(t, err, backend.ErrNotConfigured)
	assert.Equal(t, http.StatusInternalServerError, apperr.HTTPStatus(backend.AsAppError(err)))
	assert.Equal(t, "API not configured", apperr.PublicMessage(backend.AsAppError(err)))
}

func TestDecodeEnvelopeAndBare(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/categories":
			_, _ = io.WriteString(w, `{"success":true,"data":[{"id":"c1","name":"Monitors"}]}`)
		case "/api/products/p1":
			_, _ = io.WriteString(w, `{"id":"p1","title":"ECG","status":"active"}`)
		default:
			http.NotFound(w, r)
		}
	})

	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []backend.Category{{ID: "c1", Name: "Monitors"}}, cats)

	p, err := c.Product(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "ECG", p.Title)
}

func TestAPIErrorCarriesMessage(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"success":false,"message":"Title already exists"}`)
	})

	_, err := c.CreateProduct(context.Background(), backend.ProductInput{Title: "x"})
	require.Error(t, err)
	assert.True(t, backend.IsAPIError(err))
	assert.Equal(t, http.StatusUnprocessableEntity, backend.StatusCode(err))

	ae := backend.AsAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperr.HTTPStatus(ae))
	assert.Equal(t, "Title already exists", apperr.PublicMessage(ae))
	assert.NoError(t, backend.IgnoreStatusCodes(err, http.StatusUnprocessableEntity))
	assert.Error(t, backend.IgnoreStatusCodes(err, http.StatusNotFound))
}

func TestMessageFrom(t *testing.T) {
	assert.Equal(t, "bad", backend.MessageFrom([]byte(`{"message":"bad"}`), 400))
	assert.Equal(t, "worse", backend.MessageFrom([]byte(`{"error":"worse"}`), 400))
	assert.Equal(t, "plain text", backend.MessageFrom([]byte("plain text"), 400))
	assert.Equal(t, "Bad Gateway", backend.MessageFrom([]byte("<html></html>"), 502))
	assert.Equal(t, "Not Found", backend.MessageFrom(nil, 404))
}

func TestTokenAndCreatedID(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"data":{"_id":"64ab"}}`)
	}).WithToken("jwt-abc")

	out, err := c.CreateProduct(context.Background(), backend.ProductInput{Title: "Ventilator", Category: "icu"})
	require.NoError(t, err)
	assert.Equal(t, "64ab", out.ID)
	assert.Equal(t, "Bearer jwt-abc", gotAuth)
	assert.Equal(t, "Ventilator", gotBody["title"])
}

func TestCreateColorMultipart(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products/p1/models/m1/colors", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Midnight", r.FormValue("name"))
		assert.Equal(t, "#112233", r.FormValue("code"))
		assert.Equal(t, "4", r.FormValue("stock"))

		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "midnight.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(b))
		_, _ = io.WriteString(w, `{"id":"col1"}`)
	})

	out, err := c.CreateColor(context.Background(), "p1", "m1", backend.ColorInput{
		Name:  "Midnight",
		Code:  "#112233",
		Stock: 4,
		Image: &backend.FilePart{Field: "image", Filename: "midnight.png", ContentType: "image/png", Body: strings.NewReader("PNGDATA")},
	})
	require.NoError(t, err)
	assert.Equal(t, "col1", out.ID)
}

func TestUpdateAndDeleteColor(t *testing.T) {
	var calls []string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "Dusk", r.FormValue("name"))
			_, _, err := r.FormFile("image")
			assert.ErrorIs(t, err, http.ErrMissingFile, "unchanged image is not resent")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.UpdateColor(context.Background(), "p1", "m1", "col1", backend.ColorInput{Name: "Dusk", Code: "#222"}))
	require.NoError(t, c.DeleteColor(context.Background(), "p1", "m1", "col2"))
	assert.Equal(t, []string{
		"PUT /api/products/p1/models/m1/colors/col1",
		"DELETE /api/products/p1/models/m1/colors/col2",
	}, calls)
}

func TestListParamsQuery(t *testing.T) {
	var gotQuery string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[]`)
	})
	_, err := c.Products(context.Background(), backend.ListParams{Category: "icu", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "category=icu&limit=5", gotQuery)
}

func TestTimeoutMapsToGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	c := backend.New(backend.Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})

	_, err := c.Contacts(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusGatewayTimeout, apperr.HTTPStatus(backend.AsAppError(err)))
}

func TestUnreachableMapsToBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := backend.New(backend.Config{BaseURL: url})
	_, err := c.Contacts(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, apperr.HTTPStatus(backend.AsAppError(err)))
}

func TestRawKeepsBodyAndStatus(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write(b)
	})
	resp, err := c.ForwardEnquiry(context.Background(), []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.JSONEq(t, `{"a":1}`, string(resp.Body))
}
