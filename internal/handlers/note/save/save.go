package save

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"notesapp/internal/models"
	"notesapp/internal/storage"
	"notesapp/pkg/api/response"
	"notesapp/pkg/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type NoteSaver interface {
	CreateNote(ctx context.Context, params storage.CreateNoteParams) (*models.Note, error)
	CreateNoteForUser(ctx context.Context, owner storage.UpsertUserParams, params storage.CreateNoteParams) (*models.Note, error)
}

func New(log *slog.Logger, noteSaver NoteSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.save.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Failed to create note"))
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

		owner := storage.UpsertUserParams{ID: req.UserID, Name: req.UserName}
		if owner.ID == "" {
			owner.ID = storage.DefaultUserID
			if owner.Name == "" {
				owner.Name = storage.DefaultUserName
			}
		}

		params := storage.CreateNoteParams{
			Title:   req.Title,
			Content: req.Content,
			UserID:  owner.ID,
		}

		// A supplied (or defaulted) name means the owner is upserted
		// alongside the note; a bare userId must reference an existing user.
		var note *models.Note
		var err error
		if owner.Name != "" {
			note, err = noteSaver.CreateNoteForUser(r.Context(), owner, params)
		} else {
			note, err = noteSaver.CreateNote(r.Context(), params)
		}
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Info("owner does not exist", slog.String("user_id", owner.ID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Failed to create note"))
			return
		}
		if err != nil {
			log.Error("failed to create note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to create note"))
			return
		}

		log.Info("note successfully created", slog.String("note_id", note.ID))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, note)
	}
}
