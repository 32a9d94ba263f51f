package memory_test

import (
	"context"
	"testing"
	"time"

	"notesapp/internal/storage"
	"notesapp/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNote_OwnerMissing(t *testing.T) {
	s := memory.New()

	_, err := s.CreateNote(context.Background(), storage.CreateNoteParams{
		Title:  "T",
		UserID: "nobody",
	})
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestCreateNote_RoundTrip(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "Ann")
	require.NoError(t, err)

	created, err := s.CreateNote(ctx, storage.CreateNoteParams{
		Title:   "T",
		Content: "C",
		UserID:  user.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	fetched, err := s.GetNote(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", fetched.Title)
	assert.Equal(t, "C", fetched.Content)
	assert.Equal(t, user.ID, fetched.UserID)
	require.NotNil(t, fetched.User)
	assert.Equal(t, "Ann", fetched.User.Name)
}

func TestGetNote_NotFound(t *testing.T) {
	s := memory.New()

	_, err := s.GetNote(context.Background(), "missing")
	require.ErrorIs(t, err, storage.ErrNoteNotFound)
}

func TestListNotes_NewestFirst(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "Ann")
	require.NoError(t, err)

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		_, err := s.CreateNote(ctx, storage.CreateNoteParams{Title: title, UserID: user.ID})
		require.NoError(t, err)
	}

	notes, err := s.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "third", notes[0].Title)
	assert.Equal(t, "second", notes[1].Title)
	assert.Equal(t, "first", notes[2].Title)
}

func TestListNotes_Empty(t *testing.T) {
	s := memory.New()

	notes, err := s.ListNotes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestUpdateNote(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "Ann")
	require.NoError(t, err)
	created, err := s.CreateNote(ctx, storage.CreateNoteParams{Title: "old", Content: "old", UserID: user.ID})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	updated, err := s.UpdateNote(ctx, created.ID, storage.UpdateNoteParams{Title: "new", Content: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateNote_NotFound(t *testing.T) {
	s := memory.New()

	_, err := s.UpdateNote(context.Background(), "missing", storage.UpdateNoteParams{Title: "x"})
	require.ErrorIs(t, err, storage.ErrNoteNotFound)
}

func TestDeleteNote(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "Ann")
	require.NoError(t, err)
	created, err := s.CreateNote(ctx, storage.CreateNoteParams{Title: "T", UserID: user.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteNote(ctx, created.ID))

	_, err = s.GetNote(ctx, created.ID)
	require.ErrorIs(t, err, storage.ErrNoteNotFound)

	require.ErrorIs(t, s.DeleteNote(ctx, created.ID), storage.ErrNoteNotFound)
}

func TestCreateNoteForUser_UpsertsOwner(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	owner := storage.UpsertUserParams{ID: "user-1", Name: "Default User"}
	note, err := s.CreateNoteForUser(ctx, owner, storage.CreateNoteParams{Title: "T"})
	require.NoError(t, err)
	require.NotNil(t, note.User)
	assert.Equal(t, "user-1", note.User.ID)
	assert.Equal(t, "Default User", note.User.Name)

	// Re-posting with the same id and a different name renames the owner
	// instead of duplicating it.
	owner.Name = "Renamed"
	_, err = s.CreateNoteForUser(ctx, owner, storage.CreateNoteParams{Title: "T2"})
	require.NoError(t, err)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Renamed", users[0].Name)
	assert.Len(t, users[0].Notes, 2)
}

func TestListUsers_IncludesNotes(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	ann, err := s.CreateUser(ctx, "Ann")
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "Bob")
	require.NoError(t, err)

	_, err = s.CreateNote(ctx, storage.CreateNoteParams{Title: "anns", UserID: ann.ID})
	require.NoError(t, err)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	byID := map[string][]string{}
	for _, u := range users {
		for _, n := range u.Notes {
			byID[u.ID] = append(byID[u.ID], n.Title)
		}
		assert.NotNil(t, u.Notes)
	}
	assert.Equal(t, []string{"anns"}, byID[ann.ID])
	assert.Empty(t, byID[bob.ID])
}
