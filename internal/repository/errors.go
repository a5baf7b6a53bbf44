// Package repository defines error types that are reused across
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between failure scenarios and translate
// them into user-facing behavior. For example, ErrDuplicateID
// signals a registration conflict that should be shown to the user
// as "id already taken", while ErrPostNotFound indicates that an
// edit or delete targeted a post that no longer exists.
package repository

import "errors"

// ErrDuplicateID is returned when an account insert collides with
// an existing account id. Handlers should surface this as a notice
// on the registration form, not as a server fault.
var ErrDuplicateID = errors.New("account id already exists")

// ErrPostNotFound is returned when an update or delete matched no
// post row. Handlers should translate this into a notice and a
// redirect back to the board list.
var ErrPostNotFound = errors.New("post not found")
