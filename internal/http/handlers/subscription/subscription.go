// Package subscription реализует HTTP-обработчики подписок локального API.
package subscription

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bukafresh-client/internal/http/response"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
	subscriptionservice "github.com/magabrotheeeer/bukafresh-client/internal/services/subscription"
)

// Service описывает операции с подписками.
type Service interface {
	Current(ctx context.Context) (*models.Subscription, error)
	All(ctx context.Context) ([]models.Subscription, error)
	Create(ctx context.Context, req models.CreateSubscriptionRequest) (models.Subscription, error)
	Pause(ctx context.Context, id string) (models.Subscription, error)
	Resume(ctx context.Context, id string) (models.Subscription, error)
	Cancel(ctx context.Context, id string) (models.Subscription, error)
	Activate(ctx context.Context, id string) (models.Subscription, error)
	Delete(ctx context.Context, id string) error
	HasActiveSubscription(ctx context.Context) bool
	IsPaused(ctx context.Context) bool
	IsCancelled(ctx context.Context) bool
}

// CurrentResponse — текущая подписка и признаки её статуса.
type CurrentResponse struct {
	Subscription *models.Subscription `json:"subscription"`
	Active       bool                 `json:"active"`
	Paused       bool                 `json:"paused"`
	Cancelled    bool                 `json:"cancelled"`
}

// Handler обрабатывает запросы подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Current godoc
// @Summary Текущая подписка
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/current [get]
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.subscription.Current")

	sub, err := h.service.Current(r.Context())
	if err != nil {
		log.Info("failed to load current subscription", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	ctx := r.Context()
	render.JSON(w, r, response.StatusOKWithData(CurrentResponse{
		Subscription: sub,
		Active:       h.service.HasActiveSubscription(ctx),
		Paused:       h.service.IsPaused(ctx),
		Cancelled:    h.service.IsCancelled(ctx),
	}))
}

// List godoc
// @Summary Все подписки пользователя
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response
// @Router /subscriptions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.subscription.List")

	subs, err := h.service.All(r.Context())
	if err != nil {
		log.Info("failed to load subscriptions", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	render.JSON(w, r, response.StatusOKWithData(subs))
}

// Create godoc
// @Summary Создание подписки
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body models.CreateSubscriptionRequest true "Тариф и период оплаты"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Router /subscriptions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.subscription.Create")

	var req models.CreateSubscriptionRequest
	if err := response.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r)
		return
	}
	sub, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Info("failed to create subscription", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("subscription created", slog.String("id", sub.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(sub))
}

// Transition godoc
// @Summary Смена статуса подписки
// @Tags Subscriptions
// @Produce  json
// @Param id path string true "Идентификатор подписки"
// @Param action path string true "pause, resume, cancel или activate"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/{id}/{action} [post]
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.subscription.Transition")

	id := chi.URLParam(r, "id")
	action := subscriptionservice.Action(chi.URLParam(r, "action"))

	var call func(context.Context, string) (models.Subscription, error)
	switch action {
	case subscriptionservice.ActionPause:
		call = h.service.Pause
	case subscriptionservice.ActionResume:
		call = h.service.Resume
	case subscriptionservice.ActionCancel:
		call = h.service.Cancel
	case subscriptionservice.ActionActivate:
		call = h.service.Activate
	default:
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("unknown action"))
		return
	}

	sub, err := call(r.Context(), id)
	if err != nil {
		log.Info("subscription action failed", slog.String("action", string(action)), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("subscription action succeeded", slog.String("action", string(action)), slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(sub))
}

// Remove godoc
// @Summary Удаление подписки в статусе PENDING или INACTIVE
// @Tags Subscriptions
// @Produce  json
// @Param id path string true "Идентификатор подписки"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Router /subscriptions/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.subscription.Remove")

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		log.Info("failed to delete subscription", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("subscription deleted", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": id,
	}))
}
