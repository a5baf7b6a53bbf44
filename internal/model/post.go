package model

import "time"

// Post represents a board entry as stored in the `post` table.
// Posts are created by authenticated users and can only be edited
// or deleted by their author.  The store assigns the numeric ID on
// insert; IDs are never reused.
//
// Fields:
//  ID        – primary key identifier, assigned by the store.
//  Title     – post title, required.
//  Content   – post body, required.
//  AuthorID  – account ID of the author, immutable after creation.
//  CreatedAt – timestamp of creation, immutable.
//  UpdatedAt – refreshed whenever title or content is edited.
type Post struct {
    ID        uint64    // post.id
    Title     string    // post.title
    Content   string    // post.content
    AuthorID  string    // post.author_id
    CreatedAt time.Time // post.created_at
    UpdatedAt time.Time // post.updated_at
}
