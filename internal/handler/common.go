package handler // handler defines http handlers

import (
    "net/http" // status codes and cookie handling
    "net/url"  // escaping flash text for cookie transport
    "strconv"  // string-to-integer conversion for path params

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/student-board/internal/middleware" // session identity helpers
    "github.com/iliyamo/student-board/internal/view"       // page data passed to templates
)

// setFlash stores a notice for the next rendered page.
func setFlash(c echo.Context, msg string) {
    c.SetCookie(&http.Cookie{
        Name:     middleware.FlashCookie,
        Value:    url.QueryEscape(msg),
        Path:     "/",
        MaxAge:   60,
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    })
}

// popFlash returns the pending notice, if any, and clears it so it is
// shown exactly once.
func popFlash(c echo.Context) string {
    ck, err := c.Cookie(middleware.FlashCookie)
    if err != nil || ck.Value == "" {
        return ""
    }
    c.SetCookie(&http.Cookie{
        Name:     middleware.FlashCookie,
        Value:    "",
        Path:     "/",
        MaxAge:   -1,
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    })
    msg, err := url.QueryUnescape(ck.Value)
    if err != nil {
        return ""
    }
    return msg
}

// redirectWithFlash sets a notice and redirects in one step. Every
// recoverable failure in the application ends up here: the user sees
// the notice on the target page instead of an error response.
func redirectWithFlash(c echo.Context, msg, target string) error {
    setFlash(c, msg)
    return c.Redirect(http.StatusFound, target)
}

// pageData builds the view data shared by all templates: the caller's
// identity for the navigation bar and the pending flash notice.
func pageData(c echo.Context) view.Data {
    id, _ := middleware.AccountID(c)
    return view.Data{AccountID: id, Flash: popFlash(c)}
}

// postID parses the :id path parameter.
func postID(c echo.Context) (uint64, error) {
    return strconv.ParseUint(c.Param("id"), 10, 64)
}

// Home renders the landing page.
func Home(c echo.Context) error {
    return c.Render(http.StatusOK, "index.html", pageData(c))
}
