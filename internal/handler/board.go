// Package handler defines HTTP handlers for the board flows: listing,
// reading, searching, and the ownership-gated create/edit/delete.
// Mutations follow a single shape: resolve the caller, load the post,
// ask the authorization guard, perform the store operation, then
// notify the activity queue and invalidate the read cache. Denials
// surface as a notice plus a redirect to the board list, never as a
// hard error.
package handler

import (
    "context"      // context passed through to store and queue calls
    "database/sql" // sentinel errors such as sql.ErrNoRows
    "errors"       // errors.Is for sentinel comparison
    "net/http"     // status code constants
    "strings"      // trimming form and query input
    "time"         // event timestamps

    "github.com/labstack/echo/v4" // echo provides request/response handling

    "github.com/iliyamo/student-board/internal/auth"       // authorization guard
    "github.com/iliyamo/student-board/internal/middleware" // session identity and read cache
    "github.com/iliyamo/student-board/internal/model"      // post entity
    "github.com/iliyamo/student-board/internal/queue"      // activity event payloads
    "github.com/iliyamo/student-board/internal/repository" // sentinel errors
    queue_publisher "github.com/iliyamo/student-board/internal/service"
)

// PostStore is the slice of the board store the handlers need.
// *repository.PostRepo satisfies it; tests supply fakes.
type PostStore interface {
    List(ctx context.Context) ([]model.Post, error)
    Create(ctx context.Context, title, content, authorID string) (model.Post, error)
    GetByID(ctx context.Context, id uint64) (model.Post, error)
    Update(ctx context.Context, id uint64, title, content string) error
    Delete(ctx context.Context, id uint64) error
    Search(ctx context.Context, query, scope string) ([]model.Post, error)
}

// BoardHandler bundles dependencies for the board endpoints. Publish
// is best-effort: a broker outage must never fail a board request.
type BoardHandler struct {
    Posts   PostStore
    Cache   *middleware.BoardCache
    Publish func(ctx context.Context, ev queue.PostActivityEvent) error
}

func NewBoardHandler(posts PostStore, cache *middleware.BoardCache) *BoardHandler {
    return &BoardHandler{
        Posts:   posts,
        Cache:   cache,
        Publish: queue_publisher.PublishPostActivity,
    }
}

// afterMutation runs the bookkeeping shared by create/edit/delete:
// publish the activity event (errors ignored, already logged by the
// publisher) and orphan any cached board pages.
func (h *BoardHandler) afterMutation(c echo.Context, action string, p model.Post) {
    if h.Publish != nil {
        _ = h.Publish(c.Request().Context(), queue.PostActivityEvent{
            Action:     action,
            PostID:     p.ID,
            Title:      p.Title,
            AuthorID:   p.AuthorID,
            OccurredAt: time.Now().UTC().Format(time.RFC3339),
        })
    }
    h.Cache.Invalidate(c.Request().Context())
}

// List handles GET /board: all posts, newest first, public.
func (h *BoardHandler) List(c echo.Context) error {
    posts, err := h.Posts.List(c.Request().Context())
    if err != nil {
        return echo.NewHTTPError(http.StatusInternalServerError, "list posts failed")
    }
    data := pageData(c)
    data.Posts = posts
    return c.Render(http.StatusOK, "board.html", data)
}

// ShowCreate renders the new-post form. The route is session-gated.
func (h *BoardHandler) ShowCreate(c echo.Context) error {
    return c.Render(http.StatusOK, "create_post.html", pageData(c))
}

// Create handles POST /board/create. The post is owned by the session
// identity; the form cannot choose an author.
func (h *BoardHandler) Create(c echo.Context) error {
    accountID, ok := middleware.AccountID(c)
    if !ok {
        return c.Redirect(http.StatusFound, "/login")
    }
    title := strings.TrimSpace(c.FormValue("title"))
    content := strings.TrimSpace(c.FormValue("content"))
    if title == "" || content == "" {
        return redirectWithFlash(c, "Title and content are required.", "/board/create")
    }

    p, err := h.Posts.Create(c.Request().Context(), title, content, accountID)
    if err != nil {
        return echo.NewHTTPError(http.StatusInternalServerError, "create post failed")
    }

    h.afterMutation(c, "created", p)
    return c.Redirect(http.StatusFound, "/board")
}

// Read handles GET /board/read/:id. Public; an unknown id silently
// redirects back to the list.
func (h *BoardHandler) Read(c echo.Context) error {
    id, err := postID(c)
    if err != nil {
        return c.Redirect(http.StatusFound, "/board")
    }
    p, err := h.Posts.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.Redirect(http.StatusFound, "/board")
        }
        return echo.NewHTTPError(http.StatusInternalServerError, "load post failed")
    }
    data := pageData(c)
    data.Post = p
    return c.Render(http.StatusOK, "read_post.html", data)
}

// loadOwned loads a post and applies the authorization guard for the
// current caller. The bool result reports whether the caller may
// proceed; when it is false an error response has already been sent.
func (h *BoardHandler) loadOwned(c echo.Context, verb string) (model.Post, bool, error) {
    accountID, _ := middleware.AccountID(c)
    id, err := postID(c)
    if err != nil {
        return model.Post{}, false, redirectWithFlash(c, "You cannot "+verb+" this post.", "/board")
    }
    p, err := h.Posts.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Post{}, false, redirectWithFlash(c, "You cannot "+verb+" this post.", "/board")
        }
        return model.Post{}, false, echo.NewHTTPError(http.StatusInternalServerError, "load post failed")
    }
    if !auth.CanMutate(accountID, p) {
        return model.Post{}, false, redirectWithFlash(c, "You cannot "+verb+" this post.", "/board")
    }
    return p, true, nil
}

// ShowEdit renders the edit form after the ownership check.
func (h *BoardHandler) ShowEdit(c echo.Context) error {
    p, ok, err := h.loadOwned(c, "edit")
    if !ok {
        return err
    }
    data := pageData(c)
    data.Post = p
    return c.Render(http.StatusOK, "edit_post.html", data)
}

// Edit handles POST /board/edit/:id: same guard as ShowEdit, then the
// store refreshes updated_at while created_at stays untouched.
func (h *BoardHandler) Edit(c echo.Context) error {
    p, ok, err := h.loadOwned(c, "edit")
    if !ok {
        return err
    }
    title := strings.TrimSpace(c.FormValue("title"))
    content := strings.TrimSpace(c.FormValue("content"))
    if title == "" || content == "" {
        return redirectWithFlash(c, "Title and content are required.", "/board/edit/"+c.Param("id"))
    }

    if err := h.Posts.Update(c.Request().Context(), p.ID, title, content); err != nil {
        if errors.Is(err, repository.ErrPostNotFound) {
            return redirectWithFlash(c, "You cannot edit this post.", "/board")
        }
        return echo.NewHTTPError(http.StatusInternalServerError, "update post failed")
    }

    p.Title = title
    h.afterMutation(c, "edited", p)
    return c.Redirect(http.StatusFound, "/board")
}

// Delete handles GET /board/delete/:id with the same guard as edit.
func (h *BoardHandler) Delete(c echo.Context) error {
    p, ok, err := h.loadOwned(c, "delete")
    if !ok {
        return err
    }
    if err := h.Posts.Delete(c.Request().Context(), p.ID); err != nil {
        if errors.Is(err, repository.ErrPostNotFound) {
            return redirectWithFlash(c, "You cannot delete this post.", "/board")
        }
        return echo.NewHTTPError(http.StatusInternalServerError, "delete post failed")
    }

    h.afterMutation(c, "deleted", p)
    return c.Redirect(http.StatusFound, "/board")
}

// Search handles GET /board/search. An empty query is not a search at
// all: the caller is sent back to the unfiltered list. filter selects
// the matched columns and defaults to both.
func (h *BoardHandler) Search(c echo.Context) error {
    query := strings.TrimSpace(c.QueryParam("query"))
    if query == "" {
        return c.Redirect(http.StatusFound, "/board")
    }
    filter := strings.ToLower(strings.TrimSpace(c.QueryParam("filter")))
    if filter != "title" && filter != "content" {
        filter = "all"
    }

    posts, err := h.Posts.Search(c.Request().Context(), query, filter)
    if err != nil {
        return echo.NewHTTPError(http.StatusInternalServerError, "search posts failed")
    }

    data := pageData(c)
    data.Posts = posts
    data.Query = query
    data.Filter = filter
    return c.Render(http.StatusOK, "search_results.html", data)
}
