// Package dao provides data access objects for use in the ll1gen server.
package dao

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories.
type Store interface {
	Accounts() AccountRepository
	Grammars() GrammarRepository
	Close() error
}

// Role is the permission level of an Account.
type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

// AccountRepository stores the accounts authorized to submit and compile
// grammars against the service.
type AccountRepository interface {
	// Create creates a new Account. All attributes except for auto-generated
	// fields are taken from the provided Account.
	Create(ctx context.Context, acc Account) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	GetAll(ctx context.Context) ([]Account, error)
	Update(ctx context.Context, id uuid.UUID, acc Account) (Account, error)
	Delete(ctx context.Context, id uuid.UUID) (Account, error)
	Close() error
}

type Account struct {
	ID             uuid.UUID     // PK, NOT NULL
	Username       string        // UNIQUE, NOT NULL
	Password       string        // NOT NULL
	Email          *mail.Address // NOT NULL
	Role           Role          // NOT NULL
	Created        time.Time     // NOT NULL
	Modified       time.Time
	LastLogoutTime time.Time // NOT NULL DEFAULT NOW()
	LastLoginTime  time.Time // NOT NULL
}

// GrammarRepository stores named grammar definitions submitted by accounts,
// along with the diagnostics produced the last time the definition was
// compiled.
type GrammarRepository interface {
	Create(ctx context.Context, g Grammar) (Grammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (Grammar, error)
	GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (Grammar, error)
	GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]Grammar, error)
	GetAll(ctx context.Context) ([]Grammar, error)
	Update(ctx context.Context, id uuid.UUID, g Grammar) (Grammar, error)
	Delete(ctx context.Context, id uuid.UUID) (Grammar, error)
	Close() error
}

// Grammar is a stored grammar definition, in the textual (lhs_char, rhs_string)
// rule-pair form accepted by the analysis pipeline, plus a cache of the
// outcome of the last time it was compiled.
type Grammar struct {
	ID      uuid.UUID // PK, NOT NULL
	OwnerID uuid.UUID // FK (Many-to-One Account.ID), NOT NULL
	Name    string    // UNIQUE per owner, NOT NULL
	Start   rune      // NOT NULL, lhs char of the start symbol

	// Rules is the grammar's rule list in (lhs, rhs) pair form, the same
	// textual convention accepted directly by the analysis pipeline.
	Rules []RuleSpec

	// CompiledOK records whether the last compile attempt succeeded, and
	// CompiledDiag holds the error message if it did not. A Grammar is
	// compiled lazily on read by the grammars service, not by the DAO.
	CompiledOK   bool
	CompiledDiag string

	Created  time.Time
	Modified time.Time
}

// RuleSpec mirrors internal/ll1/grammar.RuleSpec without importing it, so
// that the storage model has no dependency on the analysis pipeline's types.
type RuleSpec struct {
	LHS rune
	RHS string
}
