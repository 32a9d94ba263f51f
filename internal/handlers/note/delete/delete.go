package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"notesapp/internal/storage"
	"notesapp/pkg/api/response"
	"notesapp/pkg/logger/sl"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type NoteDeleter interface {
	DeleteNote(ctx context.Context, id string) error
}

func New(log *slog.Logger, noteDeleter NoteDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.delete.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		noteID := chi.URLParam(r, "id")

		err := noteDeleter.DeleteNote(r.Context(), noteID)
		if errors.Is(err, storage.ErrNoteNotFound) {
			log.Info("note not found", slog.String("note_id", noteID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Note not found"))
			return
		}
		if err != nil {
			log.Error("failed to delete note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to delete note"))
			return
		}

		log.Info("note successfully deleted", slog.String("note_id", noteID))
		render.JSON(w, r, response.Message("Note deleted successfully"))
	}
}
