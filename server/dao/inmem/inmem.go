// Package inmem provides in-memory implementations of the dao repositories.
package inmem

import (
	"fmt"

	"github.com/dekarrin/ll1gen/server/dao"
)

type store struct {
	accounts *InMemoryAccountsRepository
	grammars *InMemoryGrammarsRepository
}

func NewDatastore() dao.Store {
	st := &store{
		accounts: NewAccountsRepository(),
		grammars: NewGrammarsRepository(),
	}
	return st
}

func (s *store) Accounts() dao.AccountRepository {
	return s.accounts
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Close() error {
	var err error
	var nextErr error

	nextErr = s.accounts.Close()
	if nextErr != err {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}
	nextErr = s.grammars.Close()
	if nextErr != err {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}

	return err
}
