package getall

import (
	"context"
	"log/slog"
	"net/http"

	"notesapp/internal/models"
	"notesapp/pkg/api/response"
	"notesapp/pkg/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type AllNoteGetter interface {
	ListNotes(ctx context.Context) ([]models.Note, error)
}

func New(log *slog.Logger, allNoteGetter AllNoteGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.getall.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		notes, err := allNoteGetter.ListNotes(r.Context())
		if err != nil {
			log.Error("failed to get notes", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to fetch notes"))
			return
		}
		if notes == nil {
			notes = []models.Note{}
		}

		log.Info("notes delivered", slog.Int("count", len(notes)))
		render.JSON(w, r, notes)
	}
}
