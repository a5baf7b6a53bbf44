// Package auth holds the authorization rules of the board. The rules
// are deliberately tiny: the only privileged relationship in the
// system is authorship of a post.
package auth

import "github.com/iliyamo/student-board/internal/model"

// CanMutate reports whether the caller identified by accountID may
// edit or delete the given post. An empty accountID means the caller
// has no session and can never mutate. Edit and delete use this same
// check; there is no separate rule for either.
func CanMutate(accountID string, post model.Post) bool {
	return accountID != "" && accountID == post.AuthorID
}
