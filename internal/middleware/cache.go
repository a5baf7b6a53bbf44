package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/student-board/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }
func (cw *captureWriter) Write(b []byte) (int, error) {
    cw.buf.Write(b)
    return cw.ResponseWriter.Write(b)
}

// FlashCookie carries a one-shot user notice across a redirect. It is
// written and consumed by the handlers; the cache only checks for its
// presence so flash responses are never served from cache.
const FlashCookie = "flash"

// BoardCache caches rendered board pages in Redis for anonymous
// readers. Entries are keyed by route+query plus a generation counter
// that every post mutation bumps, so a write immediately orphans all
// cached pages instead of waiting for the TTL. With no Redis client
// the cache is a no-op and every read goes to the database.
type BoardCache struct {
    cfg config.CacheConfig
    rdb *redis.Client
}

func NewBoardCache(cfg config.CacheConfig, rdb *redis.Client) *BoardCache {
    return &BoardCache{cfg: cfg, rdb: rdb}
}

func (b *BoardCache) enabled() bool { return b != nil && b.cfg.Enabled && b.rdb != nil }

// Invalidate bumps the generation counter, orphaning every cached
// page at once. Called after create/edit/delete. Failures are ignored:
// the TTL still bounds staleness.
func (b *BoardCache) Invalidate(ctx context.Context) {
    if !b.enabled() {
        return
    }
    _ = b.rdb.Incr(ctx, b.cfg.Prefix+":gen").Err()
}

func (b *BoardCache) generation(ctx context.Context) string {
    g, err := b.rdb.Get(ctx, b.cfg.Prefix+":gen").Result()
    if err != nil {
        return "0"
    }
    return g
}

// key builds a stable cache key from the generation and the request
// URL. The concrete URL path is used, not the registered route
// pattern: every :id value must get its own entry.
func (b *BoardCache) key(gen string, c echo.Context) string {
    sum := sha1.Sum([]byte(c.Request().URL.Path + "?" + c.Request().URL.RawQuery))
    return fmt.Sprintf("%s:%s:%x", b.cfg.Prefix, gen, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdrJSON)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:8+len(hdrJSON)], hdrJSON)
    copy(out[8+len(hdrJSON):], body)
    return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    hdr := make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, hdr, bs[8+hlen:], true
}

// Middleware returns the echo middleware serving and filling the cache.
// Only anonymous GET requests without a pending flash notice are
// eligible: authenticated pages vary per caller (navbar, edit links)
// and flash responses clear a cookie, neither of which may be replayed
// to other readers.
func (b *BoardCache) Middleware() echo.MiddlewareFunc {
    if !b.enabled() {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := b.cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            if _, authed := AccountID(c); authed {
                return next(c)
            }
            if ck, err := c.Cookie(FlashCookie); err == nil && ck.Value != "" {
                return next(c)
            }

            ctx := c.Request().Context()
            key := b.key(b.generation(ctx), c)

            if bs, err := b.rdb.Get(ctx, key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    for k, vals := range hdr {
                        if strings.EqualFold(k, "Content-Length") {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    _, _ = c.Response().Write(body)
                    return nil
                }
            }

            // Miss: capture the rendered page while streaming it out.
            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if cw.status == http.StatusOK {
                hdr := make(http.Header, len(c.Response().Header()))
                for k, vals := range c.Response().Header() {
                    // Set-Cookie is per-caller state and must never be replayed.
                    if strings.EqualFold(k, "Set-Cookie") {
                        continue
                    }
                    vv := make([]string, len(vals))
                    copy(vv, vals)
                    hdr[k] = vv
                }
                if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
                    _ = b.rdb.SetEx(context.Background(), key, payload, ttl).Err()
                }
            }
            return nil
        }
    }
}
