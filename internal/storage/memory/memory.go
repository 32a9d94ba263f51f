// Package memory implements the note store over an in-process map. It backs
// the test suite and local development (STORAGE_DRIVER=memory).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"notesapp/internal/models"
	"notesapp/internal/storage"

	"github.com/google/uuid"
)

type noteRecord struct {
	note models.Note
	seq  uint64
}

type Storage struct {
	mu    sync.RWMutex
	notes map[string]noteRecord
	users map[string]string
	seq   uint64
}

func New() *Storage {
	return &Storage{
		notes: make(map[string]noteRecord),
		users: make(map[string]string),
	}
}

func (s *Storage) ListNotes(_ context.Context) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := s.sortedNotes()
	notes := make([]models.Note, 0, len(sorted))
	for _, n := range sorted {
		notes = append(notes, s.withOwner(n))
	}
	return notes, nil
}

func (s *Storage) GetNote(_ context.Context, id string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.notes[id]
	if !ok {
		return nil, storage.ErrNoteNotFound
	}
	n := s.withOwner(rec.note)
	return &n, nil
}

func (s *Storage) CreateNote(_ context.Context, params storage.CreateNoteParams) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[params.UserID]; !ok {
		return nil, storage.ErrUserNotFound
	}
	n := s.insertNote(params)
	return &n, nil
}

func (s *Storage) CreateNoteForUser(_ context.Context, owner storage.UpsertUserParams, params storage.CreateNoteParams) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[owner.ID] = owner.Name
	params.UserID = owner.ID
	n := s.insertNote(params)
	return &n, nil
}

func (s *Storage) UpdateNote(_ context.Context, id string, params storage.UpdateNoteParams) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.notes[id]
	if !ok {
		return nil, storage.ErrNoteNotFound
	}
	rec.note.Title = params.Title
	rec.note.Content = params.Content
	rec.note.UpdatedAt = time.Now().UTC()
	s.notes[id] = rec

	n := s.withOwner(rec.note)
	return &n, nil
}

func (s *Storage) DeleteNote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return storage.ErrNoteNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *Storage) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := s.sortedNotes()

	users := make([]models.User, 0, len(s.users))
	for id, name := range s.users {
		u := models.User{ID: id, Name: name, Notes: []models.Note{}}
		for _, n := range notes {
			if n.UserID == id {
				u.Notes = append(u.Notes, n)
			}
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Storage) CreateUser(_ context.Context, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := models.User{ID: uuid.NewString(), Name: name}
	s.users[u.ID] = u.Name
	return &u, nil
}

func (s *Storage) UpsertUser(_ context.Context, id, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[id] = name
	return &models.User{ID: id, Name: name}, nil
}

// insertNote requires s.mu to be held for writing and the owner to exist.
func (s *Storage) insertNote(params storage.CreateNoteParams) models.Note {
	now := time.Now().UTC()
	s.seq++
	rec := noteRecord{
		note: models.Note{
			ID:        uuid.NewString(),
			Title:     params.Title,
			Content:   params.Content,
			CreatedAt: now,
			UpdatedAt: now,
			UserID:    params.UserID,
		},
		seq: s.seq,
	}
	s.notes[rec.note.ID] = rec
	return s.withOwner(rec.note)
}

// sortedNotes requires s.mu to be held. Newest first; the insertion sequence
// breaks ties between notes created within the same clock tick.
func (s *Storage) sortedNotes() []models.Note {
	records := make([]noteRecord, 0, len(s.notes))
	for _, rec := range s.notes {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.note.CreatedAt.Equal(b.note.CreatedAt) {
			return a.note.CreatedAt.After(b.note.CreatedAt)
		}
		return a.seq > b.seq
	})
	notes := make([]models.Note, 0, len(records))
	for _, rec := range records {
		notes = append(notes, rec.note)
	}
	return notes
}

// withOwner returns a copy of the note with its owning user embedded.
func (s *Storage) withOwner(n models.Note) models.Note {
	if name, ok := s.users[n.UserID]; ok {
		n.User = &models.User{ID: n.UserID, Name: name}
	}
	return n
}
