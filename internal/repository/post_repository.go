package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/student-board/internal/model"
)

// PostRepo persists board posts in the 'post' table.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postColumns = "id, title, content, author_id, created_at, updated_at"

// List returns all posts, newest first.
func (r *PostRepo) List(ctx context.Context) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM post ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// Create inserts a post and returns it with the assigned id and
// store-set timestamps.
func (r *PostRepo) Create(ctx context.Context, title, content, authorID string) (model.Post, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO post (title, content, author_id) VALUES (?,?,?)",
		title, content, authorID)
	if err != nil {
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a post by id. Returns sql.ErrNoRows when absent.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM post WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Update replaces title and content and refreshes updated_at.
// created_at and author_id are never touched.
func (r *PostRepo) Update(ctx context.Context, id uint64, title, content string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE post SET title=?, content=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		title, content, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete removes a post by id.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM post WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Search returns posts whose title and/or content contain query as a
// substring, newest first. scope selects the matched columns: "title",
// "content", or anything else for both. Matching uses a plain LIKE so
// case behavior follows the store's collation. Callers must not pass
// an empty query; the handler redirects that case to the full list.
func (r *PostRepo) Search(ctx context.Context, query, scope string) ([]model.Post, error) {
	like := "%" + query + "%"

	var cond string
	args := []any{}
	switch scope {
	case "title":
		cond = "title LIKE ?"
		args = append(args, like)
	case "content":
		cond = "content LIKE ?"
		args = append(args, like)
	default: // "all"
		cond = "(title LIKE ? OR content LIKE ?)"
		args = append(args, like, like)
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM post WHERE "+cond+" ORDER BY created_at DESC, id DESC",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]model.Post, error) {
	out := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
