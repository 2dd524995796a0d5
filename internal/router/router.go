package router

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quest-maker/auth-service/internal/handler"
	"github.com/quest-maker/auth-service/internal/middleware"
	"github.com/quest-maker/auth-service/internal/token"
)

// Deps bundles what the router wires together.
type Deps struct {
	Handler *handler.Handler
	Auth    *middleware.Auth
}

// New creates and configures the mux router with all routes.
func New(deps *Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(handlers.CompressHandler)
	r.Use(handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	))
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)

	h := deps.Handler
	needToken := deps.Auth.RequireScope(token.ScopeAccessToken)

	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/", h.Create).Methods("POST")
	auth.Handle("/", needToken(http.HandlerFunc(h.Read))).Methods("GET")
	auth.Handle("/", needToken(http.HandlerFunc(h.Update))).Methods("PUT")
	auth.Handle("/deactivate/", needToken(http.HandlerFunc(h.Deactivate))).Methods("DELETE")
	auth.Handle("/change-password/", needToken(http.HandlerFunc(h.ChangePassword))).Methods("PUT")

	r.HandleFunc("/token/", h.IssueToken).Methods("POST")

	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.HandleFunc("/readyz", h.Ready).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
