package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdeck/userdeck/internal/dao"
)

type recorder struct {
	mx   sync.Mutex
	reqs []*http.Request
	body [][]byte
}

func (r *recorder) add(req *http.Request) {
	r.mx.Lock()
	defer r.mx.Unlock()

	var raw []byte
	if req.Body != nil {
		raw, _ = readAll(req)
	}
	r.reqs = append(r.reqs, req)
	r.body = append(r.body, raw)
}

func readAll(req *http.Request) ([]byte, error) {
	var m json.RawMessage
	err := json.NewDecoder(req.Body).Decode(&m)
	return m, err
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *recorder) {
	t.Helper()

	rec := new(recorder)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(&ClientConfig{URL: srv.URL + "/v2/users/"}, zerolog.Nop())
	require.NoError(t, err)

	return c, rec
}

func TestClientList(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(TotalCountHeader, "25")
		_ = json.NewEncoder(w).Encode([]dao.User{{ID: "1", Name: "fred"}, {ID: "2", Name: "blee"}})
	})

	p, err := c.List(context.Background(), dao.Query{Page: 2, Limit: 10, SortBy: dao.SortName, Order: dao.OrderAsc})
	require.NoError(t, err)
	assert.Len(t, p.Users, 2)
	assert.True(t, p.HasTotal)
	assert.Equal(t, 25, p.Total)

	require.Len(t, rec.reqs, 1)
	req := rec.reqs[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/v2/users", req.URL.Path)
	assert.Equal(t, "2", req.URL.Query().Get("page"))
	assert.Equal(t, "10", req.URL.Query().Get("limit"))
	assert.Equal(t, "name", req.URL.Query().Get("sortBy"))
	assert.Equal(t, "asc", req.URL.Query().Get("order"))
	assert.NotEmpty(t, req.Header.Get(RequestIDHeader))
}

func TestClientListWithoutTotal(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1"}]`))
	})

	p, err := c.List(context.Background(), dao.Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.False(t, p.HasTotal)
	assert.Len(t, p.Users, 1)
}

func TestClientCount(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1"},{"id":"2"},{"id":"3"}]`))
	})

	n, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "99999", rec.reqs[0].URL.Query().Get("limit"))
}

func TestClientCreate(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"42","name":"fred","email":"fred@acme.io"}`))
	})

	u, err := c.Create(context.Background(), dao.User{
		ID:     "bogus",
		Name:   "fred",
		Email:  "fred@acme.io",
		Avatar: strings.Repeat("x", 3001),
	})
	require.NoError(t, err)
	assert.Equal(t, "42", u.ID)

	req := rec.reqs[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(rec.body[0], &sent))
	_, hasID := sent["id"]
	assert.False(t, hasID)
	assert.Equal(t, "https://ui-avatars.com/api/?name=fred&background=random", sent["avatar"])
}

func TestPrepareCreateKeepsShortAvatar(t *testing.T) {
	u := PrepareCreate(dao.User{ID: "1", Name: "Fred Blee", Avatar: "https://a/b.png"})
	assert.Empty(t, u.ID)
	assert.Equal(t, "https://a/b.png", u.Avatar)

	u = PrepareCreate(dao.User{Name: "Fred Blee", Avatar: strings.Repeat("x", 3001)})
	assert.Equal(t, "https://ui-avatars.com/api/?name=Fred+Blee&background=random", u.Avatar)
}

func TestClientUpdateDelete(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			_, _ = w.Write([]byte(`{"id":"7","name":"zorg"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"7"}`))
	})

	u, err := c.Update(context.Background(), "7", dao.User{Name: "zorg"})
	require.NoError(t, err)
	assert.Equal(t, "zorg", u.Name)
	require.NoError(t, c.Delete(context.Background(), "7"))

	require.Len(t, rec.reqs, 2)
	assert.Equal(t, http.MethodPut, rec.reqs[0].Method)
	assert.Equal(t, "/v2/users/7", rec.reqs[0].URL.Path)
	assert.Equal(t, http.MethodDelete, rec.reqs[1].Method)
	assert.Equal(t, "/v2/users/7", rec.reqs[1].URL.Path)

	require.ErrorIs(t, c.Delete(context.Background(), ""), dao.ErrInvalidArg)
	_, err = c.Update(context.Background(), "", dao.User{})
	require.ErrorIs(t, err, dao.ErrInvalidArg)
}

func TestClientServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	err := c.Delete(context.Background(), "9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServer))
	assert.True(t, errors.Is(err, dao.ErrNotFound))

	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusNotFound, herr.Status)
	assert.Equal(t, "not found", herr.Body)
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(&ClientConfig{URL: url}, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.Count(context.Background())
	require.ErrorIs(t, err, ErrTransport)

	var derr dao.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, ErrTransport, derr)
}

func TestClientDecodeError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := c.List(context.Background(), dao.Query{Page: 1, Limit: 10})
	require.ErrorIs(t, err, ErrDecode)
}

func TestNewClientURL(t *testing.T) {
	c, err := NewClient(&ClientConfig{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, c.URL())

	_, err = NewClient(&ClientConfig{URL: "ftp://nope"}, zerolog.Nop())
	require.ErrorIs(t, err, ErrInvalidURL)

	_, err = NewClient(nil, zerolog.Nop())
	require.Error(t, err)

	require.NoError(t, c.SwitchURL("http://localhost:9999/users/"))
	assert.Equal(t, "http://localhost:9999/users", c.URL())
	require.Error(t, c.SwitchURL("bozo"))
}

func TestProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "endpoints.ini")
	require.NoError(t, os.WriteFile(path, []byte(`
[staging]
url = https://staging.example.com/v2/users
timeout = 5s

[local]
url = http://localhost:3000/users
`), 0600))

	p := NewProfiles()
	require.NoError(t, p.Load(path))
	assert.Equal(t, []string{"default", "local", "staging"}, p.Names())

	e, err := p.Get("staging")
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com/v2/users", e.URL)
	assert.Equal(t, "5s", e.Timeout)

	e, err = p.Get("")
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, e.URL)

	_, err = p.Get("bozo")
	require.Error(t, err)

	require.NoError(t, p.Load(filepath.Join(dir, "missing.ini")))
}

func TestProfilesInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.ini")
	require.NoError(t, os.WriteFile(path, []byte("[bad]\ntimeout = 1s\n"), 0600))

	require.Error(t, NewProfiles().Load(path))
}
