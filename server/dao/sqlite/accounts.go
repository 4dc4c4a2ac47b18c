package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/google/uuid"
)

type AccountsDB struct {
	db *sql.DB
}

func (repo *AccountsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role INTEGER NOT NULL,
		email TEXT NOT NULL,
		last_logout_time INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *AccountsDB) Create(ctx context.Context, acc dao.Account) (dao.Account, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Account{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO accounts (id, username, password, role, email, last_logout_time) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}

	_, err = stmt.ExecContext(ctx,
		convertToDB_UUID(newUUID),
		acc.Username,
		acc.Password,
		convertToDB_Role(acc.Role),
		convertToDB_Email(acc.Email),
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *AccountsDB) GetAll(ctx context.Context) ([]dao.Account, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, username, password, role, email, last_logout_time FROM accounts ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Account

	for rows.Next() {
		var acc dao.Account
		var id, role, email string
		var logout int64

		if err := rows.Scan(&id, &acc.Username, &acc.Password, &role, &email, &logout); err != nil {
			return nil, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &acc.ID); err != nil {
			return all, err
		}
		if err := convertFromDB_Email(email, &acc.Email); err != nil {
			return all, err
		}
		if err := convertFromDB_Role(role, &acc.Role); err != nil {
			return all, err
		}
		if err := convertFromDB_Time(logout, &acc.LastLogoutTime); err != nil {
			return all, err
		}

		all = append(all, acc)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *AccountsDB) Update(ctx context.Context, id uuid.UUID, acc dao.Account) (dao.Account, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE accounts SET id=?, username=?, password=?, role=?, email=?, last_logout_time=? WHERE id=?;`,
		convertToDB_UUID(acc.ID),
		acc.Username,
		acc.Password,
		convertToDB_Role(acc.Role),
		convertToDB_Email(acc.Email),
		convertToDB_Time(acc.LastLogoutTime),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Account{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, acc.ID)
}

func (repo *AccountsDB) GetByUsername(ctx context.Context, username string) (dao.Account, error) {
	acc := dao.Account{Username: username}
	var id, role, email string
	var logout int64

	row := repo.db.QueryRowContext(ctx, `SELECT id, password, role, email, last_logout_time FROM accounts WHERE username = ?;`, username)
	if err := row.Scan(&id, &acc.Password, &role, &email, &logout); err != nil {
		return acc, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &acc.ID); err != nil {
		return acc, err
	}
	if err := convertFromDB_Email(email, &acc.Email); err != nil {
		return acc, err
	}
	if err := convertFromDB_Role(role, &acc.Role); err != nil {
		return acc, err
	}
	if err := convertFromDB_Time(logout, &acc.LastLogoutTime); err != nil {
		return acc, err
	}

	return acc, nil
}

func (repo *AccountsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	acc := dao.Account{ID: id}
	var role, email string
	var logout int64

	row := repo.db.QueryRowContext(ctx, `SELECT username, password, role, email, last_logout_time FROM accounts WHERE id = ?;`, convertToDB_UUID(id))
	if err := row.Scan(&acc.Username, &acc.Password, &role, &email, &logout); err != nil {
		return acc, wrapDBError(err)
	}

	if err := convertFromDB_Email(email, &acc.Email); err != nil {
		return acc, err
	}
	if err := convertFromDB_Role(role, &acc.Role); err != nil {
		return acc, err
	}
	if err := convertFromDB_Time(logout, &acc.LastLogoutTime); err != nil {
		return acc, err
	}

	return acc, nil
}

func (repo *AccountsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, convertToDB_UUID(id))
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

func (repo *AccountsDB) Close() error {
	return nil
}
