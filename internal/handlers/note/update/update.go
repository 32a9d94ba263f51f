package update

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
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

type NoteUpdater interface {
	UpdateNote(ctx context.Context, id string, params storage.UpdateNoteParams) (*models.Note, error)
}

func New(log *slog.Logger, noteUpdater NoteUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.update.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		noteID := chi.URLParam(r, "id")

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Failed to update note"))
			return
		}
		log.Info("decoded request", slog.Any("request", req))

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		note, err := noteUpdater.UpdateNote(r.Context(), noteID, storage.UpdateNoteParams{
			Title:   req.Title,
			Content: req.Content,
		})
		if errors.Is(err, storage.ErrNoteNotFound) {
			log.Info("note not found", slog.String("note_id", noteID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Note not found"))
			return
		}
		if err != nil {
			log.Error("failed to update note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to update note"))
			return
		}

		log.Info("note successfully updated", slog.String("note_id", noteID))
		render.JSON(w, r, note)
	}
}
