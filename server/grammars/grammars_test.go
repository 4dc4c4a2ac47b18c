package grammars

import (
	"context"
	"testing"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/dao/inmem"
	"github.com/dekarrin/ll1gen/server/serr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestService() Service {
	return Service{DB: inmem.NewDatastore()}
}

// arithRules is a small grammar for sums of "i" terminals: E=TX, X=+TX, X=,
// T=iY, Y=*iY, Y=.
var arithRules = []dao.RuleSpec{
	{LHS: 'E', RHS: "TX"},
	{LHS: 'X', RHS: "+TX"},
	{LHS: 'X', RHS: ""},
	{LHS: 'T', RHS: "iY"},
	{LHS: 'Y', RHS: "*iY"},
	{LHS: 'Y', RHS: ""},
}

func Test_Service_CreateGrammar(t *testing.T) {
	testCases := []struct {
		name       string
		grammar    string
		rules      []dao.RuleSpec
		expectErr  error
		expectOK   bool
		expectDiag bool
	}{
		{
			name:     "valid LL(1) grammar",
			grammar:  "arith",
			rules:    arithRules,
			expectOK: true,
		},
		{
			name:    "blank name",
			grammar: "",
			rules:   arithRules,

			expectErr: serr.ErrBadArgument,
		},
		{
			name:      "no rules",
			grammar:   "empty",
			rules:     nil,
			expectErr: serr.ErrBadArgument,
		},
		{
			name:    "ambiguous grammar still stores, just not OK",
			grammar: "ambiguous",
			rules: []dao.RuleSpec{
				{LHS: 'S', RHS: "a"},
				{LHS: 'S', RHS: "a"},
			},
			expectDiag: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := newTestService()
			owner := uuid.New()

			g, err := svc.CreateGrammar(context.Background(), owner, tc.grammar, tc.rules)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.grammar, g.Name)
			assert.Equal(owner, g.OwnerID)
			if tc.expectOK {
				assert.True(g.CompiledOK)
				assert.Empty(g.CompiledDiag)
			}
			if tc.expectDiag {
				assert.False(g.CompiledOK)
				assert.NotEmpty(g.CompiledDiag)
			}
		})
	}
}

func Test_Service_CreateGrammar_duplicateName(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	_, err := svc.CreateGrammar(ctx, owner, "arith", arithRules)
	assert.NoError(err)

	_, err = svc.CreateGrammar(ctx, owner, "arith", arithRules)
	assert.ErrorIs(err, serr.ErrAlreadyExists)
}

func Test_Service_CreateGrammar_normalizesRules(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	// "é" as an NFD combining sequence (e + combining acute) should be
	// normalized to its NFC precomposed form on store.
	decomposed := []dao.RuleSpec{
		{LHS: 'E', RHS: "é"},
	}

	g, err := svc.CreateGrammar(ctx, owner, "accented", decomposed)
	assert.NoError(err)
	assert.Equal("é", g.Rules[0].RHS)
}

func Test_Service_GetGrammar(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.CreateGrammar(ctx, owner, "arith", arithRules)
	assert.NoError(err)

	got, err := svc.GetGrammar(ctx, created.ID.String())
	assert.NoError(err)
	assert.Equal(created.ID, got.ID)

	_, err = svc.GetGrammar(ctx, uuid.New().String())
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_GetAllGrammarsByOwner(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.New()
	otherOwner := uuid.New()

	_, err := svc.CreateGrammar(ctx, owner, "arith", arithRules)
	assert.NoError(err)
	_, err = svc.CreateGrammar(ctx, otherOwner, "arith-copy", arithRules)
	assert.NoError(err)

	gs, err := svc.GetAllGrammarsByOwner(ctx, owner)
	assert.NoError(err)
	assert.Len(gs, 1)
	assert.Equal("arith", gs[0].Name)
}

func Test_Service_UpdateGrammarRules(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.CreateGrammar(ctx, owner, "arith", []dao.RuleSpec{
		{LHS: 'S', RHS: "a"},
		{LHS: 'S', RHS: "a"},
	})
	assert.NoError(err)
	assert.False(created.CompiledOK)

	updated, err := svc.UpdateGrammarRules(ctx, created.ID.String(), arithRules)
	assert.NoError(err)
	assert.True(updated.CompiledOK)
	assert.Equal(arithRules, updated.Rules)

	_, err = svc.UpdateGrammarRules(ctx, created.ID.String(), nil)
	assert.ErrorIs(err, serr.ErrBadArgument)
}

func Test_Service_DeleteGrammar(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.CreateGrammar(ctx, owner, "arith", arithRules)
	assert.NoError(err)

	deleted, err := svc.DeleteGrammar(ctx, created.ID.String())
	assert.NoError(err)
	assert.Equal(created.ID, deleted.ID)

	_, err = svc.GetGrammar(ctx, created.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_Recognize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		accepted bool
	}{
		{name: "single term", input: "i", accepted: true},
		{name: "sum", input: "i+i+i", accepted: true},
		{name: "product", input: "i*i", accepted: true},
		{name: "empty input rejected", input: "", accepted: false},
		{name: "trailing operator rejected", input: "i+", accepted: false},
	}

	svc := newTestService()
	ctx := context.Background()
	owner := uuid.New()
	created, err := svc.CreateGrammar(ctx, owner, "arith", arithRules)
	if err != nil {
		t.Fatalf("setup: CreateGrammar failed: %v", err)
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			accepted, err := svc.Recognize(ctx, created.ID.String(), tc.input)
			assert.NoError(err)
			assert.Equal(tc.accepted, accepted)
		})
	}
}

func Test_Service_Recognize_uncompilableGrammar(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.CreateGrammar(ctx, owner, "ambiguous", []dao.RuleSpec{
		{LHS: 'S', RHS: "a"},
		{LHS: 'S', RHS: "a"},
	})
	assert.NoError(err)

	_, err = svc.Recognize(ctx, created.ID.String(), "a")
	assert.ErrorIs(err, serr.ErrBadArgument)
}
