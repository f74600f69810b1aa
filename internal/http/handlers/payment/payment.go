// Package payment реализует HTTP-обработчики платежей локального API.
package payment

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
	paymentservice "github.com/magabrotheeeer/bukafresh-client/internal/services/payment"
)

type Service interface {
	Process(ctx context.Context, req models.ProcessPaymentRequest) (models.Payment, error)
	UserPayments(ctx context.Context) ([]models.Payment, error)
	Payment(ctx context.Context, id string) (models.Payment, error)
	SubscriptionPayments(ctx context.Context, subscriptionID string) ([]models.Payment, error)
}

// PaymentView — платеж с признаками статуса.
type PaymentView struct {
	models.Payment
	Successful bool `json:"successful"`
	Pending    bool `json:"pending"`
	Failed     bool `json:"failed"`
}

func view(p models.Payment) PaymentView {
	return PaymentView{
		Payment:    p,
		Successful: paymentservice.IsPaymentSuccessful(p),
		Pending:    paymentservice.IsPaymentPending(p),
		Failed:     paymentservice.IsPaymentFailed(p),
	}
}

func views(ps []models.Payment) []PaymentView {
	out := make([]PaymentView, 0, len(ps))
	for _, p := range ps {
		out = append(out, view(p))
	}
	return out
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// Create godoc
// @Summary Инициация платежа прямым дебетом
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.ProcessPaymentRequest true "Реквизиты платежа"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Router /payments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.Create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ProcessPaymentRequest
	if err := response.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r)
		return
	}
	p, err := h.service.Process(r.Context(), req)
	if err != nil {
		log.Info("payment failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(view(p)))
}

// List godoc
// @Summary Платежи пользователя
// @Tags Payments
// @Produce  json
// @Success 200 {object} response.Response
// @Router /payments [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.List"
	ps, err := h.service.UserPayments(r.Context())
	if err != nil {
		h.log.Info("failed to load payments", slog.String("op", op), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(views(ps)))
}

// Read godoc
// @Summary Платеж по идентификатору
// @Tags Payments
// @Produce  json
// @Param id path string true "Идентификатор платежа"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /payments/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.Read"
	p, err := h.service.Payment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.log.Info("failed to load payment", slog.String("op", op), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(view(p)))
}

// BySubscription godoc
// @Summary Платежи по подписке
// @Tags Payments
// @Produce  json
// @Param id path string true "Идентификатор подписки"
// @Success 200 {object} response.Response
// @Router /subscriptions/{id}/payments [get]
func (h *Handler) BySubscription(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.BySubscription"
	ps, err := h.service.SubscriptionPayments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.log.Info("failed to load subscription payments", slog.String("op", op), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(views(ps)))
}
