package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bukafresh-client/internal/http/response"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
)

// Pinger проверяет доступность бэкенда.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	log    *slog.Logger
	pinger Pinger
}

func New(log *slog.Logger, pinger Pinger) *Handler {
	return &Handler{
		log:    log,
		pinger: pinger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	if err := h.pinger.Ping(r.Context()); err != nil {
		h.log.Warn("backend is unreachable", slog.String("op", op), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":  "ok",
		"backend": "reachable",
	}))
}
