package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/student-board/internal/config"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{Enabled: true, TTL: 30 * time.Second, Prefix: "board"}
}

// cacheCtx builds an echo context the way the router delivers one to
// the middleware: concrete request URL, registered route pattern and
// bound path parameters.
func cacheCtx(method, target, pattern string, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(pattern)
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func TestBoardCacheKeyPerURL(t *testing.T) {
	b := NewBoardCache(testCacheConfig(), nil)

	// Two posts share the /board/read/:id route pattern but must never
	// share a cache entry.
	c1, _ := cacheCtx(http.MethodGet, "/board/read/1", "/board/read/:id", map[string]string{"id": "1"})
	c2, _ := cacheCtx(http.MethodGet, "/board/read/2", "/board/read/:id", map[string]string{"id": "2"})
	if b.key("0", c1) == b.key("0", c2) {
		t.Fatalf("different posts map to the same cache key %s", b.key("0", c1))
	}

	// The same URL always maps to the same key within a generation.
	c1b, _ := cacheCtx(http.MethodGet, "/board/read/1", "/board/read/:id", map[string]string{"id": "1"})
	if b.key("0", c1) != b.key("0", c1b) {
		t.Errorf("same URL produced different keys")
	}

	// The query string is part of the key: different searches differ.
	s1, _ := cacheCtx(http.MethodGet, "/board/search?query=a&filter=all", "/board/search", nil)
	s2, _ := cacheCtx(http.MethodGet, "/board/search?query=b&filter=all", "/board/search", nil)
	if b.key("0", s1) == b.key("0", s2) {
		t.Errorf("different queries map to the same cache key")
	}

	// Bumping the generation orphans every key.
	if b.key("0", c1) == b.key("1", c1) {
		t.Errorf("generation bump did not change the key")
	}
}

func TestBoardCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"text/html; charset=UTF-8"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte("<html>post</html>"))
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, body, ok := decodePayload(payload)
	if !ok {
		t.Fatalf("decodePayload rejected its own encoding")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if gotHdr.Get("Content-Type") != "text/html; charset=UTF-8" {
		t.Errorf("header lost in round trip: %v", gotHdr)
	}
	if string(body) != "<html>post</html>" {
		t.Errorf("body = %q", body)
	}

	for _, garbage := range [][]byte{nil, []byte("short"), []byte("12345678 not a header")} {
		if _, _, _, ok := decodePayload(garbage); ok {
			t.Errorf("decodePayload accepted garbage %q", garbage)
		}
	}
}

// eligibility drives the middleware with a Redis client pointed at a
// closed port: every Redis call fails fast, which the cache treats as
// a miss, so the eligibility decisions are still observable through
// the X-Cache header the miss path sets.
func runCacheRequest(t *testing.T, c echo.Context) {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	mw := NewBoardCache(testCacheConfig(), rdb).Middleware()
	err := mw(func(c echo.Context) error { return c.String(http.StatusOK, "page") })(c)
	if err != nil {
		t.Fatalf("middleware chain: %v", err)
	}
}

func TestBoardCacheServesAnonymousGets(t *testing.T) {
	c, rec := cacheCtx(http.MethodGet, "/board", "/board", nil)
	runCacheRequest(t, c)
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("anonymous GET did not go through the cache")
	}
	if rec.Body.String() != "page" {
		t.Errorf("cached path altered the response body: %q", rec.Body.String())
	}
}

func TestBoardCacheBypassesAuthenticated(t *testing.T) {
	c, rec := cacheCtx(http.MethodGet, "/board", "/board", nil)
	c.Set(ctxAccountID, "u1")
	runCacheRequest(t, c)
	if rec.Header().Get("X-Cache") != "" {
		t.Errorf("authenticated request went through the cache")
	}
}

func TestBoardCacheBypassesFlashBearers(t *testing.T) {
	c, rec := cacheCtx(http.MethodGet, "/board", "/board", nil)
	c.Request().AddCookie(&http.Cookie{Name: FlashCookie, Value: "notice"})
	runCacheRequest(t, c)
	if rec.Header().Get("X-Cache") != "" {
		t.Errorf("flash-bearing request went through the cache")
	}
}

func TestBoardCacheBypassesNonGet(t *testing.T) {
	c, rec := cacheCtx(http.MethodPost, "/board/create", "/board/create", nil)
	runCacheRequest(t, c)
	if rec.Header().Get("X-Cache") != "" {
		t.Errorf("POST request went through the cache")
	}
}

func TestBoardCacheDisabledIsPassthrough(t *testing.T) {
	// No Redis client at all: the middleware must be a transparent
	// passthrough, and Invalidate must be a safe no-op.
	var b *BoardCache
	b.Invalidate(nil)

	b = NewBoardCache(config.CacheConfig{Enabled: false}, nil)
	c, rec := cacheCtx(http.MethodGet, "/board", "/board", nil)
	err := b.Middleware()(func(c echo.Context) error { return c.String(http.StatusOK, "page") })(c)
	if err != nil {
		t.Fatalf("middleware chain: %v", err)
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Errorf("disabled cache still marked the response")
	}
	if rec.Body.String() != "page" {
		t.Errorf("disabled cache altered the response")
	}
}
