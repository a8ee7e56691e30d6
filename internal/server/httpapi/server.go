// Package httpapi exposes the credential service over HTTP: a mux router
// with the login, refresh and provisioning endpoints behind the X-API-KEY
// gate.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dkovalev/authvault/internal/logging"
	"github.com/dkovalev/authvault/internal/server/accounts"
)

type Server struct {
	address string
	logger  logging.Logger
	service *accounts.Service
	apiKey  string
}

func NewServer(address string, l logging.Logger, service *accounts.Service, apiKey string) *Server {
	return &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		service: service,
		apiKey:  apiKey,
	}
}

// Router assembles the route table. Everything under /jwt-auth/api/ sits
// behind the API-key gate; /health does not.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	api := r.PathPrefix("/jwt-auth/api").Subrouter()
	api.Use(s.apiKeyMiddleware)
	api.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods("POST")
	api.HandleFunc("/user/add", s.handleAddOrUpdateUser).Methods("POST")

	return r
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = srv.Shutdown(context.Background())
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
