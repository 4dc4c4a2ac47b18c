package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/google/uuid"
)

type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		start_symbol TEXT NOT NULL,
		rules TEXT NOT NULL,
		compiled_ok INTEGER NOT NULL,
		compiled_diag TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		UNIQUE(owner_id, name)
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := nowUnix()

	_, err = repo.db.ExecContext(ctx, `INSERT INTO grammars
		(id, owner_id, name, start_symbol, rules, compiled_ok, compiled_diag, created, modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(g.OwnerID),
		g.Name,
		string(g.Start),
		convertToDB_RuleSpecs(g.Rules),
		convertToDB_Bool(g.CompiledOK),
		g.CompiledDiag,
		now,
		now,
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *GrammarsDB) scanRow(row interface {
	Scan(dest ...interface{}) error
}, g *dao.Grammar) error {
	var id, ownerID, start, rules string
	var compiledOK int
	var created, modified int64

	if err := row.Scan(&id, &ownerID, &g.Name, &start, &rules, &compiledOK, &g.CompiledDiag, &created, &modified); err != nil {
		return wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &g.ID); err != nil {
		return err
	}
	if err := convertFromDB_UUID(ownerID, &g.OwnerID); err != nil {
		return err
	}
	if len(start) > 0 {
		g.Start = []rune(start)[0]
	}
	if err := convertFromDB_RuleSpecs(rules, &g.Rules); err != nil {
		return err
	}
	g.CompiledOK = compiledOK != 0
	if err := convertFromDB_Time(created, &g.Created); err != nil {
		return err
	}
	if err := convertFromDB_Time(modified, &g.Modified); err != nil {
		return err
	}

	return nil
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	var g dao.Grammar
	row := repo.db.QueryRowContext(ctx, `SELECT id, owner_id, name, start_symbol, rules, compiled_ok, compiled_diag, created, modified FROM grammars WHERE id = ?;`, convertToDB_UUID(id))
	if err := repo.scanRow(row, &g); err != nil {
		return g, err
	}
	return g, nil
}

func (repo *GrammarsDB) GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (dao.Grammar, error) {
	var g dao.Grammar
	row := repo.db.QueryRowContext(ctx, `SELECT id, owner_id, name, start_symbol, rules, compiled_ok, compiled_diag, created, modified FROM grammars WHERE owner_id = ? AND name = ?;`, convertToDB_UUID(ownerID), name)
	if err := repo.scanRow(row, &g); err != nil {
		return g, err
	}
	return g, nil
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	return repo.query(ctx, `SELECT id, owner_id, name, start_symbol, rules, compiled_ok, compiled_diag, created, modified FROM grammars ORDER BY id;`)
}

func (repo *GrammarsDB) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]dao.Grammar, error) {
	return repo.query(ctx, `SELECT id, owner_id, name, start_symbol, rules, compiled_ok, compiled_diag, created, modified FROM grammars WHERE owner_id = ? ORDER BY name;`, convertToDB_UUID(ownerID))
}

func (repo *GrammarsDB) query(ctx context.Context, q string, args ...interface{}) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Grammar
	for rows.Next() {
		var g dao.Grammar
		if err := repo.scanRow(rows, &g); err != nil {
			return all, err
		}
		all = append(all, g)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *GrammarsDB) Update(ctx context.Context, id uuid.UUID, g dao.Grammar) (dao.Grammar, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE grammars SET id=?, owner_id=?, name=?, start_symbol=?, rules=?, compiled_ok=?, compiled_diag=?, modified=? WHERE id=?;`,
		convertToDB_UUID(g.ID),
		convertToDB_UUID(g.OwnerID),
		g.Name,
		string(g.Start),
		convertToDB_RuleSpecs(g.Rules),
		convertToDB_Bool(g.CompiledOK),
		g.CompiledDiag,
		nowUnix(),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, g.ID)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *GrammarsDB) Close() error {
	return nil
}

func convertToDB_Bool(b bool) int {
	if b {
		return 1
	}
	return 0
}
