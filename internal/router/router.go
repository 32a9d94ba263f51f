// Package router mounts the HTTP surface of the service. Extracted from main
// so tests and the view layer can run against the same routes.
package router

import (
	"context"
	"log/slog"
	"net/http"

	"notesapp/internal/handlers/note/delete"
	"notesapp/internal/handlers/note/get"
	noteGetAll "notesapp/internal/handlers/note/getall"
	noteSave "notesapp/internal/handlers/note/save"
	"notesapp/internal/handlers/note/update"
	userGetAll "notesapp/internal/handlers/user/getall"
	userSave "notesapp/internal/handlers/user/save"
	"notesapp/internal/models"
	"notesapp/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Storage is the union of the per-handler store interfaces; both the
// postgres and memory implementations satisfy it.
type Storage interface {
	ListNotes(ctx context.Context) ([]models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	CreateNote(ctx context.Context, params storage.CreateNoteParams) (*models.Note, error)
	CreateNoteForUser(ctx context.Context, owner storage.UpsertUserParams, params storage.CreateNoteParams) (*models.Note, error)
	UpdateNote(ctx context.Context, id string, params storage.UpdateNoteParams) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, name string) (*models.User, error)
}

func New(log *slog.Logger, store Storage) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Route("/notes", func(r chi.Router) {
		r.Get("/", noteGetAll.New(log, store))
		r.Post("/", noteSave.New(log, store))
		r.Get("/{id}", get.New(log, store))
		r.Put("/{id}", update.New(log, store))
		r.Delete("/{id}", delete.New(log, store))
	})

	router.Route("/users", func(r chi.Router) {
		r.Get("/", userGetAll.New(log, store))
		r.Post("/", userSave.New(log, store))
	})

	return router
}
