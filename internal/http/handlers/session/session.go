// Package session реализует HTTP-обработчики сессии локального API:
// вход, выход, регистрация и состояние текущей сессии.
package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bukafresh-client/internal/http/response"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/validate"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

// Service описывает операции сессии, которые использует обработчик.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	User() *models.User
	Loading() bool
	TokenExpired() (bool, error)
}

// Status — состояние сессии.
type Status struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
	Loading       bool         `json:"loading"`
	TokenExpired  bool         `json:"tokenExpired"`
}

// Handler обрабатывает запросы сессии.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Login godoc
// @Summary Вход
// @Tags Session
// @Accept  json
// @Produce  json
// @Param request body models.LoginRequest true "Учетные данные"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /session/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.session.Login")

	var req models.LoginRequest
	if err := response.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Info("login failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("login success", slog.String("user_id", user.UserID))
	render.JSON(w, r, response.StatusOKWithData(user))
}

// Register godoc
// @Summary Регистрация аккаунта
// @Tags Session
// @Accept  json
// @Produce  json
// @Param request body models.RegisterRequest true "Данные аккаунта"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /session/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.session.Register")

	var req models.RegisterRequest
	if err := response.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	msg, err := h.service.Register(r.Context(), req)
	if err != nil {
		log.Info("registration failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": msg,
		"email":   req.Email,
	}))
}

// Logout godoc
// @Summary Выход
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response
// @Router /session/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.session.Logout")

	if err := h.service.Logout(r.Context()); err != nil {
		log.Error("logout failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(Status{}))
}

// Status godoc
// @Summary Состояние сессии
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response
// @Router /session [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.session.Status")

	st := Status{
		Authenticated: h.service.IsAuthenticated(),
		User:          h.service.User(),
		Loading:       h.service.Loading(),
	}
	if st.Authenticated {
		expired, err := h.service.TokenExpired()
		if err != nil {
			log.Debug("token is not inspectable", sl.Err(err))
		}
		st.TokenExpired = expired
	}
	render.JSON(w, r, response.StatusOKWithData(st))
}
