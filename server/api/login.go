package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/middle"
	"github.com/dekarrin/ll1gen/server/result"
	"github.com/dekarrin/ll1gen/server/serr"
	"github.com/dekarrin/ll1gen/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that logs in an account with a
// username and password and returns the bearer token for it.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return api.Endpoint(api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	if err := parseJSON(req, &loginData); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if loginData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	acc, err := api.Accounts.Login(req.Context(), loginData.Username, loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "account '%s': %s", loginData.Username, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, acc)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{Token: tok, AccountID: acc.ID.String()}
	return result.Created(resp, "account '"+acc.Username+"' successfully logged in")
}

// HTTPDeleteLogin returns a HandlerFunc that logs out the account with the
// given ID. Only an admin can log out an account other than their own.
//
// The handler requires the request context to contain the logged-in
// account of the client making the request.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return api.Endpoint(api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	if id != acc.ID && acc.Role != dao.Admin {
		var otherStr string
		other, err := api.Accounts.GetAccount(req.Context(), id.String())
		if err != nil {
			if !errors.Is(err, serr.ErrNotFound) {
				return result.InternalServerError("retrieve account for perm checking: %s", err.Error())
			}
			otherStr = fmt.Sprintf("%s", id)
		} else {
			otherStr = "'" + other.Username + "'"
		}

		return result.Forbidden("account '%s' (role %s) logout of account %s: forbidden", acc.Username, acc.Role, otherStr)
	}

	loggedOut, err := api.Accounts.Logout(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not log out account: " + err.Error())
	}

	var otherStr string
	if id != acc.ID {
		otherStr = "account '" + loggedOut.Username + "'"
	} else {
		otherStr = "self"
	}

	return result.NoContent("account '%s' successfully logged out %s", acc.Username, otherStr)
}

// HTTPCreateToken returns a HandlerFunc that issues a fresh bearer token for
// the account the client is currently logged in as.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return api.Endpoint(api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	tok, err := token.Generate(api.Secret, acc)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{Token: tok, AccountID: acc.ID.String()}
	return result.Created(resp, "account '"+acc.Username+"' successfully created new token")
}
