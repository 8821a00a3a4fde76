package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
)

// HeaderCustomerID carries the session principal. Authentication itself
// lives in the edge gateway; by the time a request reaches this service
// the header is trusted.
const HeaderCustomerID = "X-Customer-Id"

// ctxKey is unexported so no other package can collide with our keys.
type ctxKey string

const customerIDKey ctxKey = "customer_id"

// RequireCustomer rejects requests without a customer principal and
// stores the ID in the context for handlers.
func RequireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderCustomerID)
		if id == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "missing_customer",
				"message": HeaderCustomerID + " header is required",
			})
			return
		}
		ctx := context.WithValue(r.Context(), customerIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CustomerID extracts the principal stored by RequireCustomer. Empty when
// the middleware did not run.
func CustomerID(ctx context.Context) string {
	id, _ := ctx.Value(customerIDKey).(string)
	return id
}
