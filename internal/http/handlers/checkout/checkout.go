// Package checkout реализует HTTP-обработчики мастера оформления подписки.
// Все обработчики, меняющие состояние, возвращают снимок мастера.
package checkout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bukafresh-client/internal/catalog"
	"github.com/magabrotheeeer/bukafresh-client/internal/http/response"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/validate"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
	checkoutservice "github.com/magabrotheeeer/bukafresh-client/internal/services/checkout"
)

// Wizard описывает мастер оформления.
type Wizard interface {
	Reset()
	NextStep() int
	PrevStep() int
	SetStep(n int) error
	SelectPackage(p models.Package)
	SetDeliveryFrequency(f models.DeliveryFrequency) error
	SetDeliveryAddress(a *models.Address)
	SetDeliveryDay(day string)
	SetPendingPlanChange(c *models.PlanChange)
	AddAddOn(item models.AddOn)
	RemoveAddOn(productID string)
	UpdateAddOnQuantity(productID string, qty int)
	CanProceed(account models.AccountForm) bool
	Snapshot() checkoutservice.Snapshot
	Submit(ctx context.Context, account models.AccountForm) (checkoutservice.Confirmation, error)
}

// PackageRequest выбирает пакет по имени из каталога.
type PackageRequest struct {
	Name string `json:"name" validate:"required"`
}

// FrequencyRequest задаёт частоту доставки.
type FrequencyRequest struct {
	Frequency models.DeliveryFrequency `json:"frequency" validate:"required"`
}

// DeliveryDayRequest задаёт день доставки.
type DeliveryDayRequest struct {
	Day string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
}

// StepRequest — переход к шагу.
type StepRequest struct {
	Step int `json:"step"`
}

// QuantityRequest — новое количество товара.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CanProceedResponse — ответ проверки текущего шага.
type CanProceedResponse struct {
	Step       int  `json:"step"`
	CanProceed bool `json:"canProceed"`
}

// Handler обрабатывает запросы мастера.
type Handler struct {
	log      *slog.Logger
	wizard   Wizard
	validate *validator.Validate
}

// New создает обработчик.
func New(log *slog.Logger, wizard Wizard) *Handler {
	return &Handler{
		log:      log,
		wizard:   wizard,
		validate: validate.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// decode читает и валидирует тело. При ошибке ответ уже записан.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	if err := response.Decode(r, dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return false
	}
	return true
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(h.wizard.Snapshot()))
}

// Get возвращает снимок мастера.
// @Summary Состояние мастера оформления
// @Tags Checkout
// @Produce  json
// @Success 200 {object} response.Response
// @Router /checkout [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.snapshot(w, r)
}

// Reset возвращает мастер в начальное состояние.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.logger(r, "handlers.checkout.Reset").Info("checkout reset")
	h.wizard.Reset()
	h.snapshot(w, r)
}

// SelectPackage godoc
// @Summary Выбор пакета
// @Tags Checkout
// @Accept  json
// @Produce  json
// @Param request body PackageRequest true "Имя пакета"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /checkout/package [put]
func (h *Handler) SelectPackage(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.SelectPackage")

	var req PackageRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	pkg, ok := catalog.Find(req.Name)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("package not found"))
		return
	}
	h.wizard.SelectPackage(pkg)
	h.snapshot(w, r)
}

// SetFrequency задаёт частоту доставки.
func (h *Handler) SetFrequency(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.SetFrequency")

	var req FrequencyRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	if err := h.wizard.SetDeliveryFrequency(req.Frequency); err != nil {
		response.Fail(w, r, err)
		return
	}
	h.snapshot(w, r)
}

// SetAddress задаёт адрес доставки.
func (h *Handler) SetAddress(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.SetAddress")

	var req models.Address
	if !h.decode(w, r, log, &req) {
		return
	}
	h.wizard.SetDeliveryAddress(&req)
	h.snapshot(w, r)
}

// SetDeliveryDay задаёт день доставки.
func (h *Handler) SetDeliveryDay(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.SetDeliveryDay")

	var req DeliveryDayRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	h.wizard.SetDeliveryDay(req.Day)
	h.snapshot(w, r)
}

// SetPlanChange запоминает запрошенную смену тарифа.
func (h *Handler) SetPlanChange(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.SetPlanChange")

	var req models.PlanChange
	if !h.decode(w, r, log, &req) {
		return
	}
	h.wizard.SetPendingPlanChange(&req)
	h.snapshot(w, r)
}

// ClearPlanChange сбрасывает смену тарифа.
func (h *Handler) ClearPlanChange(w http.ResponseWriter, r *http.Request) {
	h.wizard.SetPendingPlanChange(nil)
	h.snapshot(w, r)
}

// AddAddOn добавляет товар.
func (h *Handler) AddAddOn(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.AddAddOn")

	var req models.AddOn
	if !h.decode(w, r, log, &req) {
		return
	}
	h.wizard.AddAddOn(req)
	h.snapshot(w, r)
}

// UpdateAddOn меняет количество товара; 0 удаляет его.
func (h *Handler) UpdateAddOn(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.UpdateAddOn")

	var req QuantityRequest
	if err := response.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r)
		return
	}
	h.wizard.UpdateAddOnQuantity(chi.URLParam(r, "productID"), req.Quantity)
	h.snapshot(w, r)
}

// RemoveAddOn удаляет товар.
func (h *Handler) RemoveAddOn(w http.ResponseWriter, r *http.Request) {
	h.wizard.RemoveAddOn(chi.URLParam(r, "productID"))
	h.snapshot(w, r)
}

// NextStep переходит на следующий шаг.
func (h *Handler) NextStep(w http.ResponseWriter, r *http.Request) {
	h.wizard.NextStep()
	h.snapshot(w, r)
}

// PrevStep возвращается на предыдущий шаг.
func (h *Handler) PrevStep(w http.ResponseWriter, r *http.Request) {
	h.wizard.PrevStep()
	h.snapshot(w, r)
}

// SetStep возвращается к пройденному шагу.
func (h *Handler) SetStep(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.SetStep")

	var req StepRequest
	if err := response.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r)
		return
	}
	if err := h.wizard.SetStep(req.Step); err != nil {
		response.Fail(w, r, err)
		return
	}
	h.snapshot(w, r)
}

// CanProceed проверяет заполненность текущего шага. Для шага аккаунта
// данные формы передаются в теле.
func (h *Handler) CanProceed(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.CanProceed")

	var account models.AccountForm
	if r.ContentLength != 0 {
		if err := response.Decode(r, &account); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			response.BadRequest(w, r)
			return
		}
	}
	render.JSON(w, r, response.StatusOKWithData(CanProceedResponse{
		Step:       h.wizard.Snapshot().Step,
		CanProceed: h.wizard.CanProceed(account),
	}))
}

// Submit godoc
// @Summary Создание аккаунта на шаге оформления
// @Tags Checkout
// @Accept  json
// @Produce  json
// @Param request body models.AccountForm true "Данные аккаунта"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /checkout/submit [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.checkout.Submit")

	var account models.AccountForm
	if err := response.Decode(r, &account); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r)
		return
	}

	conf, err := h.wizard.Submit(r.Context(), account)
	if err != nil {
		log.Info("checkout submit failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("checkout account created")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(conf))
}
