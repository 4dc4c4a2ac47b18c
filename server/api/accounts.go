package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/middle"
	"github.com/dekarrin/ll1gen/server/result"
	"github.com/dekarrin/ll1gen/server/serr"
)

func accountToModel(acc dao.Account) AccountModel {
	m := AccountModel{
		URI:            PathPrefix + "/accounts/" + acc.ID.String(),
		ID:             acc.ID.String(),
		Username:       acc.Username,
		Role:           acc.Role.String(),
		Created:        acc.Created.Format(time.RFC3339),
		Modified:       acc.Modified.Format(time.RFC3339),
		LastLogoutTime: acc.LastLogoutTime.Format(time.RFC3339),
		LastLoginTime:  acc.LastLoginTime.Format(time.RFC3339),
	}
	if acc.Email != nil {
		m.Email = acc.Email.Address
	}
	return m
}

// HTTPGetAllAccounts returns a HandlerFunc that retrieves all existing
// accounts. Only an admin account can call this endpoint.
func (api API) HTTPGetAllAccounts() http.HandlerFunc {
	return api.Endpoint(api.epGetAllAccounts)
}

// GET /accounts: get all accounts (admin auth required).
func (api API) epGetAllAccounts(req *http.Request) result.Result {
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	if acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s): forbidden", acc.Username, acc.Role)
	}

	all, err := api.Accounts.GetAllAccounts(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]AccountModel, len(all))
	for i := range all {
		resp[i] = accountToModel(all[i])
	}

	return result.OK(resp, "account '%s' got all accounts", acc.Username)
}

// HTTPCreateAccount returns a HandlerFunc that creates a new account entity.
// Only an admin account can directly create new accounts with a role other
// than the default.
func (api API) HTTPCreateAccount() http.HandlerFunc {
	return api.Endpoint(api.epCreateAccount)
}

func (api API) epCreateAccount(req *http.Request) result.Result {
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	if acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) creation of new account: forbidden", acc.Username, acc.Role)
	}

	var createAcc AccountModel
	if err := parseJSON(req, &createAcc); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createAcc.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if createAcc.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	role := dao.Unverified
	var err error
	if createAcc.Role != "" {
		role, err = dao.ParseRole(createAcc.Role)
		if err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}

	newAcc, err := api.Accounts.CreateAccount(req.Context(), createAcc.Username, createAcc.Password, createAcc.Email, role)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("Account with that username already exists", "account '%s' already exists", createAcc.Username)
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(accountToModel(newAcc), "account '%s' successfully created new account '%s'", acc.Username, newAcc.Username)
}

// HTTPGetAccount returns a HandlerFunc that retrieves a single account by
// ID. Accounts may retrieve their own info; only an admin may retrieve
// another account's.
func (api API) HTTPGetAccount() http.HandlerFunc {
	return api.Endpoint(api.epGetAccount)
}

func (api API) epGetAccount(req *http.Request) result.Result {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	if id != acc.ID && acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) retrieval of account %s: forbidden", acc.Username, acc.Role, id)
	}

	other, err := api.Accounts.GetAccount(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(accountToModel(other), "account '%s' got account '%s'", acc.Username, other.Username)
}

// HTTPUpdateAccount returns a HandlerFunc that updates the username, email,
// and role of the account with the given ID. Only an admin may change role,
// and only an admin may update an account other than their own.
func (api API) HTTPUpdateAccount() http.HandlerFunc {
	return api.Endpoint(api.epUpdateAccount)
}

func (api API) epUpdateAccount(req *http.Request) result.Result {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	if id != acc.ID && acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) update of account %s: forbidden", acc.Username, acc.Role, id)
	}

	var upd AccountModel
	if err := parseJSON(req, &upd); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	role := acc.Role
	if upd.Role != "" {
		if acc.Role != dao.Admin {
			return result.Forbidden("account '%s' (role %s) change of role: forbidden", acc.Username, acc.Role)
		}
		var err error
		role, err = dao.ParseRole(upd.Role)
		if err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}

	updated, err := api.Accounts.UpdateAccount(req.Context(), id.String(), upd.Username, upd.Email, role)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("Account with that username already exists", "account '%s' already exists", upd.Username)
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(accountToModel(updated), "account '%s' updated account '%s'", acc.Username, updated.Username)
}

// HTTPDeleteAccount returns a HandlerFunc that deletes the account with the
// given ID. Only an admin may delete an account other than their own.
func (api API) HTTPDeleteAccount() http.HandlerFunc {
	return api.Endpoint(api.epDeleteAccount)
}

func (api API) epDeleteAccount(req *http.Request) result.Result {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	if id != acc.ID && acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) deletion of account %s: forbidden", acc.Username, acc.Role, id)
	}

	deleted, err := api.Accounts.DeleteAccount(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(accountToModel(deleted), "account '%s' deleted account '%s'", acc.Username, deleted.Username)
}
