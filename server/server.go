// Package server contains the runnable ll1gen server, which serves the
// grammar analysis API described by the routes built up in Server.Init.
//
// server:
//   - POST   /api/v1/login              - log in with username/password, get a bearer token
//   - DELETE /api/v1/login/{id}         - log out (ends the session the token refers to)
//   - POST   /api/v1/tokens             - issue a fresh bearer token for the logged-in account
//   - POST   /api/v1/accounts           - create a new account (admin auth required)
//   - GET    /api/v1/accounts           - get all accounts (admin auth required)
//   - GET    /api/v1/accounts/{id}      - get info on an account (auth required)
//   - PUT    /api/v1/accounts/{id}      - update an account (auth required)
//   - DELETE /api/v1/accounts/{id}      - delete an account (auth required)
//   - POST   /api/v1/grammars           - submit a grammar for compilation (auth required)
//   - GET    /api/v1/grammars           - get all grammars owned by the caller (auth required)
//   - GET    /api/v1/grammars/{id}      - get a grammar's stored rules and compile diagnostics (auth required)
//   - PUT    /api/v1/grammars/{id}      - replace a grammar's rules and recompile it (auth required)
//   - DELETE /api/v1/grammars/{id}      - delete a grammar (auth required)
//   - POST   /api/v1/grammars/{id}/recognize - test a string against a grammar (auth required)
//   - GET    /api/v1/info               - get version info on the server
package server

import (
	"net/http"

	"github.com/dekarrin/ll1gen/server/accounts"
	"github.com/dekarrin/ll1gen/server/api"
	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/grammars"
	"github.com/dekarrin/ll1gen/server/middle"
	"github.com/go-chi/chi/v5"
)

// Server is the runnable ll1gen HTTP server. The zero value is not ready to
// use; call New to construct one from a Config.
type Server struct {
	api    api.API
	db     dao.Store
	router chi.Router
}

// New creates and fully initializes a Server from cfg, connecting to its
// configured persistence layer.
func New(cfg Config) (Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return Server{}, err
	}

	srv := Server{
		db: db,
		api: api.API{
			Accounts:    accounts.Service{DB: db},
			Grammars:    grammars.Service{DB: db},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}

	srv.router = srv.buildRouter()

	return srv, nil
}

// Close releases any resources, such as open DB connections, held by the
// Server.
func (srv Server) Close() error {
	return srv.db.Close()
}

// Accounts returns the account service backing the Server, for use by
// callers that need to provision accounts (such as a bootstrap admin) before
// or alongside serving requests.
func (srv Server) Accounts() accounts.Service {
	return srv.api.Accounts
}

// ServeHTTP allows Server to be used directly as an http.Handler.
func (srv Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	srv.router.ServeHTTP(w, req)
}

// ListenAndServe starts the server listening on the given address. It blocks
// until the server shuts down or encounters a fatal error.
func (srv Server) ListenAndServe(address string) error {
	httpSrv := &http.Server{
		Addr:    address,
		Handler: srv.router,
	}
	return httpSrv.ListenAndServe()
}

func (srv Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middle.DontPanic())

	accountsRepo := srv.db.Accounts()
	secret := srv.api.Secret
	unauthDelay := srv.api.UnauthDelay

	optionalAuth := middle.OptionalAuth(accountsRepo, secret, unauthDelay, dao.Account{})
	requiredAuth := middle.RequireAuth(accountsRepo, secret, unauthDelay, dao.Account{})

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.With(optionalAuth).Get("/info", srv.api.HTTPGetInfo())

		r.With(optionalAuth).Post("/login", srv.api.HTTPCreateLogin())
		r.With(requiredAuth).Delete("/login/{id}", srv.api.HTTPDeleteLogin())
		r.With(requiredAuth).Post("/tokens", srv.api.HTTPCreateToken())

		r.With(requiredAuth).Post("/accounts", srv.api.HTTPCreateAccount())
		r.With(requiredAuth).Get("/accounts", srv.api.HTTPGetAllAccounts())
		r.With(requiredAuth).Get("/accounts/{id}", srv.api.HTTPGetAccount())
		r.With(requiredAuth).Put("/accounts/{id}", srv.api.HTTPUpdateAccount())
		r.With(requiredAuth).Delete("/accounts/{id}", srv.api.HTTPDeleteAccount())

		r.With(requiredAuth).Post("/grammars", srv.api.HTTPCreateGrammar())
		r.With(requiredAuth).Get("/grammars", srv.api.HTTPGetAllGrammars())
		r.With(requiredAuth).Get("/grammars/{id}", srv.api.HTTPGetGrammar())
		r.With(requiredAuth).Put("/grammars/{id}", srv.api.HTTPUpdateGrammar())
		r.With(requiredAuth).Delete("/grammars/{id}", srv.api.HTTPDeleteGrammar())
		r.With(requiredAuth).Post("/grammars/{id}/recognize", srv.api.HTTPRecognize())
	})

	return r
}
