package handler_test

// Test support: an echo instance wired exactly like main() wires the
// real server, plus in-memory fakes for the account and post stores so
// the flows can run without MySQL.

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-board/internal/config"
	"github.com/iliyamo/student-board/internal/handler"
	"github.com/iliyamo/student-board/internal/middleware"
	"github.com/iliyamo/student-board/internal/model"
	"github.com/iliyamo/student-board/internal/queue"
	"github.com/iliyamo/student-board/internal/repository"
	"github.com/iliyamo/student-board/internal/router"
	"github.com/iliyamo/student-board/internal/view"
)

var testCfg = config.Config{
	Env:           "test",
	SessionSecret: "test-secret",
	SessionTTLMin: 10,
	BcryptCost:    4,
}

type fakeAccounts struct {
	accounts map[string]model.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: map[string]model.Account{}}
}

func (f *fakeAccounts) Create(_ context.Context, a model.Account) error {
	if _, ok := f.accounts[a.ID]; ok {
		return repository.ErrDuplicateID
	}
	f.accounts[a.ID] = a
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (model.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return model.Account{}, sql.ErrNoRows
	}
	return a, nil
}

// fakePosts hands out strictly increasing timestamps so "newest first"
// ordering is deterministic even within a fast test run.
type fakePosts struct {
	nextID uint64
	seq    int64
	posts  map[uint64]model.Post
}

func newFakePosts() *fakePosts { return &fakePosts{posts: map[uint64]model.Post{}} }

func (f *fakePosts) tick() time.Time {
	f.seq++
	return time.Unix(1_700_000_000+f.seq, 0).UTC()
}

func (f *fakePosts) List(context.Context) ([]model.Post, error) {
	out := make([]model.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakePosts) Create(_ context.Context, title, content, authorID string) (model.Post, error) {
	f.nextID++
	now := f.tick()
	p := model.Post{ID: f.nextID, Title: title, Content: content, AuthorID: authorID, CreatedAt: now, UpdatedAt: now}
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakePosts) GetByID(_ context.Context, id uint64) (model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return model.Post{}, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakePosts) Update(_ context.Context, id uint64, title, content string) error {
	p, ok := f.posts[id]
	if !ok {
		return repository.ErrPostNotFound
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = f.tick()
	f.posts[id] = p
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id uint64) error {
	if _, ok := f.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePosts) Search(_ context.Context, query, scope string) ([]model.Post, error) {
	all, _ := f.List(context.Background())
	out := make([]model.Post, 0)
	for _, p := range all {
		var match bool
		switch scope {
		case "title":
			match = strings.Contains(p.Title, query)
		case "content":
			match = strings.Contains(p.Content, query)
		default:
			match = strings.Contains(p.Title, query) || strings.Contains(p.Content, query)
		}
		if match {
			out = append(out, p)
		}
	}
	return out, nil
}

// newApp assembles the application the way cmd/server does, with the
// fakes in place of MySQL, no Redis cache, and activity events captured
// into the returned slice instead of RabbitMQ.
func newApp(t *testing.T, accounts *fakeAccounts, posts *fakePosts) (*echo.Echo, *[]queue.PostActivityEvent) {
	t.Helper()

	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("view.NewRenderer: %v", err)
	}

	events := &[]queue.PostActivityEvent{}
	b := handler.NewBoardHandler(posts, nil)
	b.Publish = func(_ context.Context, ev queue.PostActivityEvent) error {
		*events = append(*events, ev)
		return nil
	}

	e := echo.New()
	e.Renderer = renderer
	e.Use(middleware.Session(testCfg.SessionSecret))
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(testCfg, accounts))
	router.RegisterBoard(e, b, nil)
	return e, events
}

func get(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postForm(e *echo.Echo, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// register creates an account through the real registration flow.
func register(t *testing.T, e *echo.Echo, id, password string) {
	t.Helper()
	rec := postForm(e, "/register", url.Values{
		"id":        {id},
		"password":  {password},
		"name":      {"Name " + id},
		"school":    {"Test School"},
		"birthdate": {"2000-01-01"},
	})
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("register %s: got %d -> %q, want 302 -> /login", id, rec.Code, rec.Header().Get("Location"))
	}
}

// login runs the login flow and returns the issued session cookie.
func login(t *testing.T, e *echo.Echo, id, password string) *http.Cookie {
	t.Helper()
	rec := postForm(e, "/login", url.Values{"id": {id}, "password": {password}})
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("login %s: got %d -> %q, want 302 -> /", id, rec.Code, rec.Header().Get("Location"))
	}
	ck := cookieByName(rec, middleware.SessionCookie)
	if ck == nil || ck.Value == "" {
		t.Fatalf("login %s: no session cookie issued", id)
	}
	return ck
}

func redirectsTo(t *testing.T, rec *httptest.ResponseRecorder, target string) {
	t.Helper()
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != target {
		t.Fatalf("got %d -> %q, want 302 -> %q", rec.Code, rec.Header().Get("Location"), target)
	}
}
