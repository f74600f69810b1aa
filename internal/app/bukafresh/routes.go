package bukafresh

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "github.com/magabrotheeeer/bukafresh-client/internal/docs"
	cataloghandler "github.com/magabrotheeeer/bukafresh-client/internal/http/handlers/catalog"
	checkouthandler "github.com/magabrotheeeer/bukafresh-client/internal/http/handlers/checkout"
	"github.com/magabrotheeeer/bukafresh-client/internal/http/handlers/health"
	paymenthandler "github.com/magabrotheeeer/bukafresh-client/internal/http/handlers/payment"
	profilehandler "github.com/magabrotheeeer/bukafresh-client/internal/http/handlers/profile"
	sessionhandler "github.com/magabrotheeeer/bukafresh-client/internal/http/handlers/session"
	subscriptionhandler "github.com/magabrotheeeer/bukafresh-client/internal/http/handlers/subscription"
	verificationhandler "github.com/magabrotheeeer/bukafresh-client/internal/http/handlers/verification"
	"github.com/magabrotheeeer/bukafresh-client/internal/http/middlewarectx"
)

// Лимит запросов к локальному API.
const (
	localRateLimit = 20
	localBurst     = 40
)

// RegisterRoutes регистрирует все маршруты локального API.
func (a *App) RegisterRoutes(r chi.Router) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	session := sessionhandler.New(a.logger, a.Session)
	verification := verificationhandler.New(a.logger, a.Session, a.cfg.RedirectDelay)
	checkout := checkouthandler.New(a.logger, a.Checkout)
	subscriptions := subscriptionhandler.New(a.logger, a.Subscriptions)
	payments := paymenthandler.New(a.logger, a.Payments)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimit(rate.NewLimiter(localRateLimit, localBurst), a.logger))

		// Открытые конечные точки
		r.Get("/health", health.New(a.logger, a.API).ServeHTTP)
		r.Get("/packages", cataloghandler.List)
		r.Get("/packages/{name}", cataloghandler.Read)

		r.Get("/session", session.Status)
		r.Post("/session/login", session.Login)
		r.Post("/session/register", session.Register)
		r.Post("/session/logout", session.Logout)

		r.Get("/verify-email", verification.Verify)
		r.Post("/verify-email/resend", verification.Resend)

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkout.Get)
			r.Delete("/", checkout.Reset)
			r.Put("/package", checkout.SelectPackage)
			r.Put("/frequency", checkout.SetFrequency)
			r.Put("/address", checkout.SetAddress)
			r.Put("/delivery-day", checkout.SetDeliveryDay)
			r.Put("/plan-change", checkout.SetPlanChange)
			r.Delete("/plan-change", checkout.ClearPlanChange)
			r.Post("/addons", checkout.AddAddOn)
			r.Patch("/addons/{productID}", checkout.UpdateAddOn)
			r.Delete("/addons/{productID}", checkout.RemoveAddOn)
			r.Post("/step/next", checkout.NextStep)
			r.Post("/step/prev", checkout.PrevStep)
			r.Put("/step", checkout.SetStep)
			r.Post("/can-proceed", checkout.CanProceed)
			r.Post("/submit", checkout.Submit)
		})

		// Группа, требующая открытой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireSession(a.Session, a.logger))
			r.Get("/profile", profilehandler.New(a.logger, a.Profile).ServeHTTP)

			r.Get("/subscriptions", subscriptions.List)
			r.Post("/subscriptions", subscriptions.Create)
			r.Get("/subscriptions/current", subscriptions.Current)
			r.Delete("/subscriptions/{id}", subscriptions.Remove)
			r.Post("/subscriptions/{id}/{action}", subscriptions.Transition)
			r.Get("/subscriptions/{id}/payments", payments.BySubscription)

			r.Post("/payments", payments.Create)
			r.Get("/payments", payments.List)
			r.Get("/payments/{id}", payments.Read)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
