package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/swifteats/checkout/internal/checkout/infra/httpx/middlewares"
	"github.com/swifteats/checkout/internal/pkg/metrics"
)

// NewRouter assembles the checkout HTTP surface.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/checkout", func(r chi.Router) {
		r.Use(middlewares.RequireCustomer)

		r.Post("/cart", handler.StartCart)
		r.Get("/cart", handler.GetCart)
		r.Put("/cart/items/{itemID}", handler.UpdateItem)
		r.Delete("/cart/items/{itemID}", handler.RemoveItem)

		r.Put("/address", handler.SetAddress)
		r.Get("/addresses", handler.ListAddresses)
		r.Put("/payment-method", handler.SetPayment)
		r.Put("/tip", handler.SetTip)
		r.Put("/instructions", handler.SetInstructions)

		r.Post("/promo", handler.ApplyPromo)
		r.Delete("/promo", handler.ClearPromo)

		r.Post("/validate", handler.Validate)
		r.Post("/submit", handler.Submit)
	})

	// One server span per request; route handlers add client spans via
	// the instrumented outbound transports.
	return otelhttp.NewHandler(r, "checkout-http")
}
