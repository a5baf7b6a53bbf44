package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"               // HTTP status codes and cookie handling
    "time"                  // cookie expiry timestamps

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/student-board/internal/utils" // session token parsing
)

// SessionCookie is the name of the cookie that carries the signed
// session token. The server holds no session table; the token alone
// identifies the caller on every request.
const SessionCookie = "session"

// ctxAccountID is the echo context key under which Session stores the
// authenticated account id.
const ctxAccountID = "account_id"

// Session returns an Echo middleware that resolves the session cookie
// into a caller identity for every request.  The provided secret must
// match the one used when issuing tokens.  An absent, malformed or
// expired cookie is not an error: the request simply proceeds as an
// anonymous caller and protected routes decide what to do about it.
func Session(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Look up the session cookie.  Guests have none; that is
            // the normal case for every public page.
            ck, err := c.Cookie(SessionCookie)
            if err == nil && ck.Value != "" {
                // Validate the signature and expiry and recover the
                // bound account id.  A token that fails validation is
                // treated exactly like no token at all, so a forged or
                // stale cookie degrades to an anonymous request.
                if id, perr := utils.ParseSessionToken(secret, ck.Value); perr == nil {
                    c.Set(ctxAccountID, id)
                }
            }
            return next(c)
        }
    }
}

// RequireSession returns a middleware that redirects anonymous callers
// to the login page.  It must run after Session so the identity has
// already been resolved.  Authenticated callers pass through untouched.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
    return func(c echo.Context) error {
        if _, ok := AccountID(c); !ok {
            return c.Redirect(http.StatusFound, "/login")
        }
        return next(c)
    }
}

// AccountID extracts the authenticated account id stored by Session.
// The second return value is false for anonymous callers.
func AccountID(c echo.Context) (string, bool) {
    v, ok := c.Get(ctxAccountID).(string)
    if !ok || v == "" {
        return "", false
    }
    return v, true
}

// SetSessionCookie attaches a freshly issued session token to the
// response. The cookie is HttpOnly so scripts cannot read the token.
func SetSessionCookie(c echo.Context, token string, exp time.Time) {
    c.SetCookie(&http.Cookie{
        Name:     SessionCookie,
        Value:    token,
        Path:     "/",
        Expires:  exp,
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    })
}

// ClearSessionCookie removes the session cookie from the caller.
// Clearing an absent cookie is harmless, which keeps logout idempotent.
func ClearSessionCookie(c echo.Context) {
    c.SetCookie(&http.Cookie{
        Name:     SessionCookie,
        Value:    "",
        Path:     "/",
        MaxAge:   -1,
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    })
}
