package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dekarrin/ll1gen/internal/util"
	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/middle"
	"github.com/dekarrin/ll1gen/server/result"
	"github.com/dekarrin/ll1gen/server/serr"
)

func grammarToModel(g dao.Grammar) GrammarModel {
	m := GrammarModel{
		URI:          PathPrefix + "/grammars/" + g.ID.String(),
		ID:           g.ID.String(),
		OwnerID:      g.OwnerID.String(),
		Name:         g.Name,
		CompiledOK:   g.CompiledOK,
		CompiledDiag: g.CompiledDiag,
		Created:      g.Created.Format(time.RFC3339),
		Modified:     g.Modified.Format(time.RFC3339),
	}
	if g.Start != 0 {
		m.Start = string(g.Start)
	}
	m.Rules = make([]RuleSpecModel, len(g.Rules))
	for i, r := range g.Rules {
		m.Rules[i] = RuleSpecModel{LHS: string(r.LHS), RHS: r.RHS}
	}
	return m
}

func rulesFromModel(rules []RuleSpecModel) ([]dao.RuleSpec, error) {
	specs := make([]dao.RuleSpec, len(rules))
	var badIndexes []string
	for i, r := range rules {
		lhs := []rune(r.LHS)
		if len(lhs) != 1 {
			badIndexes = append(badIndexes, "rules["+strconv.Itoa(i)+"]")
			continue
		}
		specs[i] = dao.RuleSpec{LHS: lhs[0], RHS: r.RHS}
	}
	if len(badIndexes) > 0 {
		return nil, errors.New(util.MakeTextList(badIndexes) + " must each have an lhs of exactly one character")
	}
	return specs, nil
}

// HTTPGetAllGrammars returns a HandlerFunc that retrieves all grammars owned
// by the logged-in account.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return api.Endpoint(api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) result.Result {
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	all, err := api.Grammars.GetAllGrammarsByOwner(req.Context(), acc.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]GrammarModel, len(all))
	for i := range all {
		resp[i] = grammarToModel(all[i])
	}

	return result.OK(resp, "account '%s' got all grammars", acc.Username)
}

// HTTPCreateGrammar returns a HandlerFunc that submits a new grammar
// definition owned by the logged-in account. It is compiled immediately.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return api.Endpoint(api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	var in GrammarModel
	if err := parseJSON(req, &in); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	rules, err := rulesFromModel(in.Rules)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	g, err := api.Grammars.CreateGrammar(req.Context(), acc.ID, in.Name, rules)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("A grammar with that name already exists", "grammar '%s' already exists", in.Name)
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(grammarToModel(g), "account '%s' created grammar '%s'", acc.Username, g.Name)
}

// HTTPGetGrammar returns a HandlerFunc that retrieves a single grammar by
// ID. Only the owner or an admin may retrieve it.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return api.Endpoint(api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	g, err := api.Grammars.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if g.OwnerID != acc.ID && acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) retrieval of grammar %s: forbidden", acc.Username, acc.Role, id)
	}

	return result.OK(grammarToModel(g), "account '%s' got grammar '%s'", acc.Username, g.Name)
}

// HTTPUpdateGrammar returns a HandlerFunc that replaces the rule list of a
// grammar and recompiles it. Only the owner or an admin may update it.
func (api API) HTTPUpdateGrammar() http.HandlerFunc {
	return api.Endpoint(api.epUpdateGrammar)
}

func (api API) epUpdateGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	existing, err := api.Grammars.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}
	if existing.OwnerID != acc.ID && acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) update of grammar %s: forbidden", acc.Username, acc.Role, id)
	}

	var in GrammarModel
	if err := parseJSON(req, &in); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	rules, err := rulesFromModel(in.Rules)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	updated, err := api.Grammars.UpdateGrammarRules(req.Context(), id.String(), rules)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(grammarToModel(updated), "account '%s' updated grammar '%s'", acc.Username, updated.Name)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes the grammar with the
// given ID. Only the owner or an admin may delete it.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return api.Endpoint(api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	existing, err := api.Grammars.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}
	if existing.OwnerID != acc.ID && acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) deletion of grammar %s: forbidden", acc.Username, acc.Role, id)
	}

	deleted, err := api.Grammars.DeleteGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(grammarToModel(deleted), "account '%s' deleted grammar '%s'", acc.Username, deleted.Name)
}

// HTTPRecognize returns a HandlerFunc that tests a string of input against
// a stored grammar. Only the owner or an admin may run it.
func (api API) HTTPRecognize() http.HandlerFunc {
	return api.Endpoint(api.epRecognize)
}

func (api API) epRecognize(req *http.Request) result.Result {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	existing, err := api.Grammars.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}
	if existing.OwnerID != acc.ID && acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) recognition against grammar %s: forbidden", acc.Username, acc.Role, id)
	}

	var in RecognizeRequest
	if err := parseJSON(req, &in); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	accepted, err := api.Grammars.Recognize(req.Context(), id.String(), in.Input)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := RecognizeResponse{Input: in.Input, Accepted: accepted}
	return result.OK(resp, "account '%s' tested input against grammar '%s': accepted=%v", acc.Username, existing.Name, accepted)
}
