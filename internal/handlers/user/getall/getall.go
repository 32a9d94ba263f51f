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

type AllUserGetter interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

func New(log *slog.Logger, allUserGetter AllUserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.getall.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		users, err := allUserGetter.ListUsers(r.Context())
		if err != nil {
			log.Error("failed to get users", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to fetch users"))
			return
		}
		if users == nil {
			users = []models.User{}
		}

		log.Info("users delivered", slog.Int("count", len(users)))
		render.JSON(w, r, users)
	}
}
