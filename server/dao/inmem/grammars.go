package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/google/uuid"
)

func NewGrammarsRepository() *InMemoryGrammarsRepository {
	return &InMemoryGrammarsRepository{
		grammars:    make(map[uuid.UUID]dao.Grammar),
		byNameIndex: make(map[uuid.UUID]map[string]uuid.UUID),
	}
}

type InMemoryGrammarsRepository struct {
	grammars map[uuid.UUID]dao.Grammar

	// byNameIndex maps ownerID -> name -> grammarID, since names only need to
	// be unique within a single owner's grammars.
	byNameIndex map[uuid.UUID]map[string]uuid.UUID
}

func (r *InMemoryGrammarsRepository) Close() error {
	return nil
}

func (r *InMemoryGrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	g.ID = newUUID

	owned := r.byNameIndex[g.OwnerID]
	if owned == nil {
		owned = make(map[string]uuid.UUID)
	}
	if _, ok := owned[g.Name]; ok {
		return dao.Grammar{}, dao.ErrConstraintViolation
	}

	g.Created = time.Now()
	g.Modified = g.Created

	r.grammars[g.ID] = g
	owned[g.Name] = g.ID
	r.byNameIndex[g.OwnerID] = owned

	return g, nil
}

func (r *InMemoryGrammarsRepository) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	all := make([]dao.Grammar, 0, len(r.grammars))
	for k := range r.grammars {
		all = append(all, r.grammars[k])
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID.String() < all[j].ID.String()
	})

	return all, nil
}

func (r *InMemoryGrammarsRepository) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]dao.Grammar, error) {
	var owned []dao.Grammar
	for _, id := range r.byNameIndex[ownerID] {
		owned = append(owned, r.grammars[id])
	}

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].Name < owned[j].Name
	})

	return owned, nil
}

func (r *InMemoryGrammarsRepository) Update(ctx context.Context, id uuid.UUID, g dao.Grammar) (dao.Grammar, error) {
	existing, ok := r.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	owned := r.byNameIndex[g.OwnerID]
	if g.Name != existing.Name || g.OwnerID != existing.OwnerID {
		if owned != nil {
			if _, ok := owned[g.Name]; ok {
				return dao.Grammar{}, dao.ErrConstraintViolation
			}
		}
	}

	g.Modified = time.Now()

	if owned == nil {
		owned = make(map[string]uuid.UUID)
	}
	delete(r.byNameIndex[existing.OwnerID], existing.Name)
	owned[g.Name] = g.ID
	r.byNameIndex[g.OwnerID] = owned
	r.grammars[g.ID] = g

	return g, nil
}

func (r *InMemoryGrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	g, ok := r.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return g, nil
}

func (r *InMemoryGrammarsRepository) GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (dao.Grammar, error) {
	id, ok := r.byNameIndex[ownerID][name]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return r.grammars[id], nil
}

func (r *InMemoryGrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	g, ok := r.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	delete(r.byNameIndex[g.OwnerID], g.Name)
	delete(r.grammars, g.ID)

	return g, nil
}
