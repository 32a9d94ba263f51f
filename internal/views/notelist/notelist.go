// Package notelist models the note list view: a cached list of notes plus
// the transient UI state around it (create dialog, edit draft). All state
// here is non-authoritative — every mutation goes through the API and the
// list is re-fetched afterwards, so the view only ever shows committed data.
package notelist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"notesapp/internal/models"
	notesclient "notesapp/pkg/client/notes"
	"notesapp/pkg/logger/sl"

	"github.com/yuin/goldmark"
)

// SkeletonRows is how many placeholder rows render while the first fetch is
// in flight.
const SkeletonRows = 5

var ErrIncompleteForm = errors.New("title, content and author are required")

// Form holds the new-note dialog fields.
type Form struct {
	Title   string
	Content string
	Author  string
}

// Draft is the single in-place edit buffer. At most one note is in edit mode
// at a time.
type Draft struct {
	NoteID  string
	Title   string
	Content string
}

// Row is one rendered list entry: either a loading skeleton or a note,
// possibly in edit mode.
type Row struct {
	Skeleton bool
	Note     models.Note
	Editing  bool
}

type View struct {
	client *notesclient.Client
	log    *slog.Logger
	md     goldmark.Markdown

	loading    bool
	notes      []models.Note
	dialogOpen bool
	form       Form
	editing    *Draft
}

func New(client *notesclient.Client, log *slog.Logger) *View {
	return &View{
		client:  client,
		log:     log,
		md:      goldmark.New(),
		loading: true,
	}
}

// Load performs the initial fetch. Until it completes, Rows returns
// skeleton placeholders.
func (v *View) Load(ctx context.Context) error {
	if err := v.refetch(ctx); err != nil {
		return err
	}
	v.loading = false
	return nil
}

func (v *View) Loading() bool { return v.loading }

// Rows returns what the list currently displays.
func (v *View) Rows() []Row {
	if v.loading {
		rows := make([]Row, SkeletonRows)
		for i := range rows {
			rows[i] = Row{Skeleton: true}
		}
		return rows
	}

	rows := make([]Row, 0, len(v.notes))
	for _, n := range v.notes {
		rows = append(rows, Row{
			Note:    n,
			Editing: v.editing != nil && v.editing.NoteID == n.ID,
		})
	}
	return rows
}

func (v *View) Notes() []models.Note { return v.notes }

// ContentHTML renders a note's markdown content for display.
func (v *View) ContentHTML(n models.Note) (string, error) {
	var buf strings.Builder
	if err := v.md.Convert([]byte(n.Content), &buf); err != nil {
		return "", fmt.Errorf("render content: %w", err)
	}
	return buf.String(), nil
}

// --- create dialog ---

func (v *View) OpenDialog()      { v.dialogOpen = true }
func (v *View) CloseDialog()     { v.dialogOpen = false }
func (v *View) DialogOpen() bool { return v.dialogOpen }

func (v *View) SetForm(form Form) { v.form = form }
func (v *View) FormValue() Form   { return v.form }

// CanSubmit reports whether the create form is complete; submission stays
// disabled until all three fields are filled in.
func (v *View) CanSubmit() bool {
	return v.form.Title != "" && v.form.Content != "" && v.form.Author != ""
}

// Submit creates the note, then closes the dialog, clears the form and
// re-fetches the list.
func (v *View) Submit(ctx context.Context) error {
	if !v.CanSubmit() {
		return ErrIncompleteForm
	}

	_, err := v.client.CreateNote(ctx, notesclient.CreateNoteRequest{
		Title:    v.form.Title,
		Content:  v.form.Content,
		UserName: v.form.Author,
	})
	if err != nil {
		v.log.Error("failed to create note", sl.Err(err))
		return err
	}

	v.dialogOpen = false
	v.form = Form{}
	return v.refetch(ctx)
}

// --- in-place edit ---

// StartEdit copies the note into the edit buffer. Starting a new edit
// silently discards any unsaved prior draft.
func (v *View) StartEdit(id string) bool {
	for _, n := range v.notes {
		if n.ID == id {
			v.editing = &Draft{NoteID: n.ID, Title: n.Title, Content: n.Content}
			return true
		}
	}
	return false
}

func (v *View) EditingDraft() (Draft, bool) {
	if v.editing == nil {
		return Draft{}, false
	}
	return *v.editing, true
}

func (v *View) SetDraft(title, content string) {
	if v.editing == nil {
		return
	}
	v.editing.Title = title
	v.editing.Content = content
}

// SaveEdit persists the draft, then clears the edit slot and re-fetches.
func (v *View) SaveEdit(ctx context.Context) error {
	if v.editing == nil {
		return errors.New("no note is being edited")
	}

	_, err := v.client.UpdateNote(ctx, v.editing.NoteID, notesclient.UpdateNoteRequest{
		Title:   v.editing.Title,
		Content: v.editing.Content,
	})
	if err != nil {
		v.log.Error("failed to update note", sl.Err(err))
		return err
	}

	v.editing = nil
	return v.refetch(ctx)
}

func (v *View) CancelEdit() { v.editing = nil }

// --- delete ---

func (v *View) Delete(ctx context.Context, id string) error {
	if err := v.client.DeleteNote(ctx, id); err != nil {
		v.log.Error("failed to delete note", sl.Err(err))
		return err
	}
	if v.editing != nil && v.editing.NoteID == id {
		v.editing = nil
	}
	return v.refetch(ctx)
}

// refetch discards the cached list and reloads it from the API.
func (v *View) refetch(ctx context.Context) error {
	notes, err := v.client.ListNotes(ctx)
	if err != nil {
		v.log.Error("failed to fetch notes", sl.Err(err))
		return err
	}
	v.notes = notes
	return nil
}
