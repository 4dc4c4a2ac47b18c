// Package api provides HTTP API endpoints for the ll1gen server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/ll1gen/server/accounts"
	"github.com/dekarrin/ll1gen/server/grammars"
	"github.com/dekarrin/ll1gen/server/result"
	"github.com/dekarrin/ll1gen/server/serr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"
)

// requireIDParam gets the ID of the main entity being referenced in the URI
// and returns it. It panics if the key is not there or is not parsable.
func requireIDParam(r *http.Request) uuid.UUID {
	id, err := getURLParam(r, "id", uuid.Parse)
	if err != nil {
		panic(err.Error())
	}
	return id
}

func getURLParam[E any](r *http.Request, key string, parse func(string) (E, error)) (val E, err error) {
	valStr := chi.URLParam(r, key)
	if valStr == "" {
		return val, fmt.Errorf("parameter does not exist")
	}

	val, err = parse(valStr)
	if err != nil {
		return val, serr.New("", serr.ErrBadArgument)
	}
	return val, nil
}

// API holds parameters for endpoints needed to run and the two service
// layers that perform most of the actual logic. To use API, create one and
// then assign the result of its HTTP* methods as handlers to a router or
// some other kind of server mux.
//
// This is exclusively an API for serving external requests. For direct
// programmatic access into the backend of an ll1gen server via Go code, see
// [accounts.Service] and [grammars.Service].
type API struct {
	// Accounts is the service that performs account actions requested via
	// the API.
	Accounts accounts.Service

	// Grammars is the service that performs grammar actions requested via
	// the API.
	Grammars grammars.Service

	// UnauthDelay is the amount of time that a request will pause before
	// responding with an HTTP-403, HTTP-401, or HTTP-500, to deprioritize
	// such requests from processing and I/O.
	UnauthDelay time.Duration

	// Secret is the secret used to sign JWT tokens.
	Secret []byte
}

// v must be a pointer to a type. Will return error such that
// errors.Is(err, serr.ErrBodyUnmarshal) returns true if it is a problem
// decoding the JSON itself.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

// EndpointFunc is a function that handles an API request and produces a
// Result describing how to respond. Panics raised within one are recovered
// by the router built around it and converted to an HTTP-500.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint wraps ep with panic recovery, response marshaling, logging, and
// the unauthorized-request delay, producing a handler usable directly with
// a chi router.
func (api API) Endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		if r.Status == 0 {
			result.InternalServerError("endpoint result was never populated").Log(req)
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		if err := r.PrepareMarshaledResponse(); err != nil {
			newResp := result.Err(r.Status, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
			newResp.Log(req)
			newResp.WriteResponse(w)
			return
		}

		r.Log(req)

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(api.UnauthDelay)
		}

		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.Log(req)
		r.WriteResponse(w)
		return true
	}
	return false
}
