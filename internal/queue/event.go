// Package queue defines message payloads exchanged over the message broker.
package queue

// PostActivityEvent is published whenever a board post is created,
// edited or deleted. It contains enough information for downstream
// consumers to log or audit board activity without querying the
// primary database.
type PostActivityEvent struct {
    Action     string `json:"action"` // created | edited | deleted
    PostID     uint64 `json:"post_id"`
    Title      string `json:"title"`
    AuthorID   string `json:"author_id"`
    OccurredAt string `json:"occurred_at"`
}
