package handler

import (
    "context"      // provides context with cancellation for DB calls
    "database/sql" // sentinel errors such as sql.ErrNoRows
    "errors"       // errors.Is for sentinel comparison
    "net/http"     // HTTP status codes and primitives
    "strings"      // string manipulation utilities
    "time"         // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/student-board/internal/config"     // app configuration
    "github.com/iliyamo/student-board/internal/middleware" // session cookie helpers
    "github.com/iliyamo/student-board/internal/model"      // account entity
    "github.com/iliyamo/student-board/internal/repository" // sentinel errors
    "github.com/iliyamo/student-board/internal/utils"      // hashing and session tokens
)

// AccountStore is the slice of the credential store the auth handlers
// need. *repository.AccountRepo satisfies it; tests supply fakes.
type AccountStore interface {
    Create(ctx context.Context, a model.Account) error
    GetByID(ctx context.Context, id string) (model.Account, error)
}

// loginFailedNotice is shown for every failed login. It deliberately
// does not distinguish an unknown id from a wrong password.
const loginFailedNotice = "Login failed. Check your id and password."

// AuthHandler bundles dependencies for the register/login/logout flows.
type AuthHandler struct {
    Cfg      config.Config
    Accounts AccountStore
}

func NewAuthHandler(cfg config.Config, accounts AccountStore) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Accounts: accounts}
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
    return c.Render(http.StatusOK, "register.html", pageData(c))
}

// Register creates an account from the submitted form. A duplicate id
// is a recoverable conflict surfaced on the form, never a fault.
func (h *AuthHandler) Register(c echo.Context) error {
    id := strings.TrimSpace(c.FormValue("id"))
    password := c.FormValue("password")
    name := strings.TrimSpace(c.FormValue("name"))
    school := strings.TrimSpace(c.FormValue("school"))
    birthdate := strings.TrimSpace(c.FormValue("birthdate"))
    if id == "" || password == "" || name == "" || school == "" || birthdate == "" {
        return redirectWithFlash(c, "All fields are required.", "/register")
    }
    // bcrypt only consumes the first 72 bytes and errors beyond that,
    // so an over-long password is a form problem, not a server fault.
    if len(password) > 72 {
        return redirectWithFlash(c, "Password is too long (72 characters max).", "/register")
    }

    hash, err := utils.HashPassword(password, h.Cfg.BcryptCost)
    if err != nil {
        return echo.NewHTTPError(http.StatusInternalServerError, "hash password failed")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    err = h.Accounts.Create(ctx, model.Account{
        ID:           id,
        PasswordHash: hash,
        Name:         name,
        School:       school,
        Birthdate:    birthdate,
    })
    if err != nil {
        if errors.Is(err, repository.ErrDuplicateID) {
            return redirectWithFlash(c, "That id is already taken.", "/register")
        }
        return echo.NewHTTPError(http.StatusInternalServerError, "create account failed")
    }

    return redirectWithFlash(c, "Registration complete. Please log in.", "/login")
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
    return c.Render(http.StatusOK, "login.html", pageData(c))
}

// Login verifies credentials and issues the session cookie. Both the
// unknown-id and wrong-password paths fall through to the same notice.
func (h *AuthHandler) Login(c echo.Context) error {
    id := strings.TrimSpace(c.FormValue("id"))
    password := c.FormValue("password")
    if id == "" || password == "" {
        return redirectWithFlash(c, loginFailedNotice, "/login")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    a, err := h.Accounts.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return redirectWithFlash(c, loginFailedNotice, "/login")
        }
        return echo.NewHTTPError(http.StatusInternalServerError, "query failed")
    }
    if !utils.VerifyPassword(a.PasswordHash, password) {
        return redirectWithFlash(c, loginFailedNotice, "/login")
    }

    tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, a.ID, h.Cfg.SessionTTLMin)
    if err != nil {
        return echo.NewHTTPError(http.StatusInternalServerError, "issue session failed")
    }
    middleware.SetSessionCookie(c, tok.Token, tok.Exp)

    return redirectWithFlash(c, "Logged in.", "/")
}

// Logout clears the session cookie. A caller with no session is simply
// sent to the login page; logging out twice is not an error.
func (h *AuthHandler) Logout(c echo.Context) error {
    if _, ok := middleware.AccountID(c); !ok {
        return c.Redirect(http.StatusFound, "/login")
    }
    middleware.ClearSessionCookie(c)
    return redirectWithFlash(c, "Logged out.", "/login")
}
