// Package grammars has services for submitting, compiling, and running
// grammar definitions against the ll1gen analysis pipeline, decoupled from
// the API that accesses it.
package grammars

import (
	"context"
	"errors"

	"github.com/dekarrin/ll1gen/internal/ll1/grammar"
	"github.com/dekarrin/ll1gen/internal/ll1/parser"
	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/serr"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Service is a service for interacting with and modifying grammar
// definitions held by the ll1gen server. It performs the actions requested,
// compiling grammars against the analysis pipeline and persisting both the
// definitions and their compile outcome.
//
// The zero-value of Service is not ready to be used; assign a valid DAO
// store to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store
}

// toRuleSpecs converts a Grammar's storage-model rule list into the form
// accepted by the analysis pipeline's Build function.
func toRuleSpecs(rules []dao.RuleSpec) []grammar.RuleSpec {
	specs := make([]grammar.RuleSpec, len(rules))
	for i, r := range rules {
		specs[i] = grammar.RuleSpec{LHS: r.LHS, RHS: r.RHS}
	}
	return specs
}

// normalizeRules canonicalizes each rule's LHS and RHS to Unicode NFC form,
// so that two characters which render identically but are encoded as
// different codepoint sequences (a precomposed accented letter vs. a base
// letter plus combining mark, for instance) are always treated as the same
// grammar symbol.
func normalizeRules(rules []dao.RuleSpec) []dao.RuleSpec {
	out := make([]dao.RuleSpec, len(rules))
	for i, r := range rules {
		lhs := norm.NFC.String(string(r.LHS))
		rhs := norm.NFC.String(r.RHS)
		lhsRunes := []rune(lhs)
		if len(lhsRunes) > 0 {
			out[i] = dao.RuleSpec{LHS: lhsRunes[0], RHS: rhs}
		} else {
			out[i] = dao.RuleSpec{LHS: r.LHS, RHS: rhs}
		}
	}
	return out
}

// compile attempts to build and assemble a parser from rules, returning
// whether it succeeded and, if not, a message describing why.
func compile(rules []dao.RuleSpec) (ok bool, diag string) {
	g, err := grammar.Build(toRuleSpecs(rules))
	if err != nil {
		return false, err.Error()
	}

	if _, err := parser.New(g); err != nil {
		return false, err.Error()
	}

	return true, ""
}

// CreateGrammar submits a new named grammar definition owned by ownerID. It
// is compiled immediately so that CompiledOK and CompiledDiag are accurate
// as soon as the grammar is created; a grammar that fails to compile is
// still stored, so that the submitter can inspect and correct it.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If a grammar with that name
// already exists for the owner, it will match serr.ErrAlreadyExists. If the
// error occured due to an unexpected problem with the DB, it will match
// serr.ErrDB. Finally, if one of the arguments is invalid, it will match
// serr.ErrBadArgument.
func (svc Service) CreateGrammar(ctx context.Context, ownerID uuid.UUID, name string, rules []dao.RuleSpec) (dao.Grammar, error) {
	if name == "" {
		return dao.Grammar{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}
	if len(rules) == 0 {
		return dao.Grammar{}, serr.New("rules cannot be empty", serr.ErrBadArgument)
	}
	rules = normalizeRules(rules)

	_, err := svc.DB.Grammars().GetByOwnerAndName(ctx, ownerID, name)
	if err == nil {
		return dao.Grammar{}, serr.New("a grammar with that name already exists", serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.Grammar{}, serr.WrapDB("", err)
	}

	ok, diag := compile(rules)

	newGrammar := dao.Grammar{
		OwnerID:      ownerID,
		Name:         name,
		Start:        rules[0].LHS,
		Rules:        rules,
		CompiledOK:   ok,
		CompiledDiag: diag,
	}

	g, err := svc.DB.Grammars().Create(ctx, newGrammar)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Grammar{}, serr.ErrAlreadyExists
		}
		return dao.Grammar{}, serr.WrapDB("could not create grammar", err)
	}

	return g, nil
}

// GetGrammar returns the grammar with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if
// there is an issue with one of the arguments, it will match
// serr.ErrBadArgument.
func (svc Service) GetGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not get grammar", err)
	}

	return g, nil
}

// GetAllGrammarsByOwner returns all grammars owned by ownerID.
func (svc Service) GetAllGrammarsByOwner(ctx context.Context, ownerID uuid.UUID) ([]dao.Grammar, error) {
	gs, err := svc.DB.Grammars().GetAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}

	return gs, nil
}

// UpdateGrammarRules replaces the rule list of the grammar with the given ID
// and recompiles it, refreshing CompiledOK and CompiledDiag. Returns the
// updated grammar.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with the given
// ID exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if one
// of the arguments is invalid, it will match serr.ErrBadArgument.
func (svc Service) UpdateGrammarRules(ctx context.Context, id string, rules []dao.RuleSpec) (dao.Grammar, error) {
	if len(rules) == 0 {
		return dao.Grammar{}, serr.New("rules cannot be empty", serr.ErrBadArgument)
	}
	rules = normalizeRules(rules)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	existing, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.New("grammar not found", serr.ErrNotFound)
		}
		return dao.Grammar{}, serr.WrapDB("", err)
	}

	ok, diag := compile(rules)

	existing.Start = rules[0].LHS
	existing.Rules = rules
	existing.CompiledOK = ok
	existing.CompiledDiag = diag

	updated, err := svc.DB.Grammars().Update(ctx, uuidID, existing)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.New("grammar not found", serr.ErrNotFound)
		}
		return dao.Grammar{}, serr.WrapDB("", err)
	}

	return updated, nil
}

// DeleteGrammar deletes the grammar with the given ID. It returns the
// deleted grammar just after it was deleted.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if
// there is an issue with one of the arguments, it will match
// serr.ErrBadArgument.
func (svc Service) DeleteGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not delete grammar", err)
	}

	return g, nil
}

// Recognize parses input against the grammar with the given ID and reports
// whether it is accepted.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the grammar's rules do not
// currently compile to a usable parser, it will match serr.ErrBadArgument,
// with CompiledDiag from the stored grammar describing why.
func (svc Service) Recognize(ctx context.Context, id string, input string) (accepted bool, err error) {
	g, err := svc.GetGrammar(ctx, id)
	if err != nil {
		return false, err
	}

	built, buildErr := grammar.Build(toRuleSpecs(g.Rules))
	if buildErr != nil {
		return false, serr.New("grammar does not compile: "+buildErr.Error(), serr.ErrBadArgument)
	}

	p, parseErr := parser.New(built)
	if parseErr != nil {
		return false, serr.New("grammar does not compile: "+parseErr.Error(), serr.ErrBadArgument)
	}

	return p.Parse([]rune(norm.NFC.String(input))), nil
}
