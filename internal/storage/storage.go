package storage

import "errors"

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrUserNotFound = errors.New("user not found")
)

// DefaultUserID and DefaultUserName back notes created without an explicit
// owner. The owner row is upserted on every such write.
const (
	DefaultUserID   = "user-1"
	DefaultUserName = "Default User"
)

type CreateNoteParams struct {
	Title   string
	Content string
	UserID  string
}

type UpdateNoteParams struct {
	Title   string
	Content string
}

type UpsertUserParams struct {
	ID   string
	Name string
}
