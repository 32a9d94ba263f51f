package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"notesapp/internal/models"
	"notesapp/internal/storage"
	"notesapp/pkg/api/response"
	"notesapp/pkg/logger/sl"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type NoteGetter interface {
	GetNote(ctx context.Context, id string) (*models.Note, error)
}

func New(log *slog.Logger, noteGetter NoteGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.get.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		noteID := chi.URLParam(r, "id")

		note, err := noteGetter.GetNote(r.Context(), noteID)
		if errors.Is(err, storage.ErrNoteNotFound) {
			log.Info("note not found", slog.String("note_id", noteID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Note not found"))
			return
		}
		if err != nil {
			log.Error("failed to get note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to fetch note"))
			return
		}

		log.Info("note delivered", slog.String("note_id", noteID))
		render.JSON(w, r, note)
	}
}
