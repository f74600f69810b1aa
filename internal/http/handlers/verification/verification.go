// Package verification реализует HTTP-обработчики экрана подтверждения почты.
//
// Экран для одной ссылки (token и userId) создаётся один раз и
// переиспользуется: повторный запрос с той же ссылкой возвращает уже
// полученный результат, а не подтверждает почту второй раз.
package verification

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bukafresh-client/internal/http/response"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
	verificationservice "github.com/magabrotheeeer/bukafresh-client/internal/services/verification"
)

// maxFlows — сколько экранов помнит обработчик. Старые вытесняются первыми.
const maxFlows = 256

// ResendRequest — тело запроса повторной отправки письма. Token и UserID
// указывают экран, состояние которого вернуть в ответе.
type ResendRequest struct {
	Email  string `json:"email"`
	Token  string `json:"token,omitempty"`
	UserID string `json:"userId,omitempty"`
}

// Handler обрабатывает запросы подтверждения почты.
type Handler struct {
	log           *slog.Logger
	verifier      verificationservice.Verifier
	redirectDelay time.Duration

	mu    sync.Mutex
	flows map[string]*verificationservice.Flow
	order []string
}

// New создает обработчик.
func New(log *slog.Logger, verifier verificationservice.Verifier, redirectDelay time.Duration) *Handler {
	return &Handler{
		log:           log,
		verifier:      verifier,
		redirectDelay: redirectDelay,
		flows:         make(map[string]*verificationservice.Flow),
	}
}

func flowKey(token, userID string) string {
	return token + "\x00" + userID
}

// flow возвращает экран для ссылки, создавая его при первом обращении.
func (h *Handler) flow(token, userID string) *verificationservice.Flow {
	if token == "" {
		return verificationservice.NewFlow(h.verifier, "", userID, h.redirectDelay, h.log)
	}
	key := flowKey(token, userID)
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.flows[key]; ok {
		return f
	}
	f := verificationservice.NewFlow(h.verifier, token, userID, h.redirectDelay, h.log)
	h.flows[key] = f
	h.order = append(h.order, key)
	if len(h.order) > maxFlows {
		delete(h.flows, h.order[0])
		h.order = h.order[1:]
	}
	return f
}

// existing возвращает уже открытый экран ссылки или отдельный экран без
// токена. Новых экранов для ссылки не создаёт.
func (h *Handler) existing(token, userID string) *verificationservice.Flow {
	if token != "" {
		h.mu.Lock()
		f, ok := h.flows[flowKey(token, userID)]
		h.mu.Unlock()
		if ok {
			return f
		}
	}
	return verificationservice.NewFlow(h.verifier, "", "", h.redirectDelay, h.log)
}

// Verify godoc
// @Summary Подтверждение почты по ссылке
// @Tags Verification
// @Produce  json
// @Param token query string false "Токен из письма"
// @Param userId query string false "Идентификатор пользователя"
// @Success 200 {object} response.Response
// @Router /verify-email [get]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.verification.Verify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	view := h.flow(q.Get("token"), q.Get("userId")).Run(r.Context())
	log.Info("verification screen", slog.String("state", string(view.State)))
	render.JSON(w, r, response.StatusOKWithData(view))
}

// Resend godoc
// @Summary Повторная отправка письма подтверждения
// @Tags Verification
// @Accept  json
// @Produce  json
// @Param request body ResendRequest true "Адрес почты"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /verify-email/resend [post]
func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.verification.Resend"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req ResendRequest
	if err := response.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r)
		return
	}

	f := h.existing(req.Token, req.UserID)
	if err := f.Resend(r.Context(), req.Email); err != nil {
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(f.View()))
}
