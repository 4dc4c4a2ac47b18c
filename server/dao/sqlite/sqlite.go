// Package sqlite provides a SQLite-backed implementation of the dao
// repositories.
package sqlite

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"path/filepath"
	"time"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/serr"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string

	db *sql.DB

	accounts *AccountsDB
	grammars *GrammarsDB
}

func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "ll1gen.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.accounts = &AccountsDB{db: st.db}
	if err := st.accounts.init(); err != nil {
		return nil, err
	}

	st.grammars = &GrammarsDB{db: st.db}
	if err := st.grammars.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Accounts() dao.AccountRepository {
	return s.accounts
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Close() error {
	return s.db.Close()
}

// convertToDB_Role converts a dao.Role to storage DB format.
func convertToDB_Role(r dao.Role) string {
	return r.String()
}

// convertToDB_Email converts a *mail.Address to storage DB format. If the
// pointer is nil, it will return the zero value.
func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

// convertToDB_UUID converts a uuid.UUID to storage DB format on disk.
func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

// convertToDB_Time converts a time.Time to storage DB format on disk.
func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

// nowUnix returns the current time in storage DB format on disk.
func nowUnix() int64 {
	return time.Now().Unix()
}

// convertToDB_ByteSlice converts bytes to storage DB format on disk.
func convertToDB_ByteSlice(b []byte) string {
	if len(b) < 1 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

// convertToDB_RuleSpecs converts a grammar's rule list to storage DB format on
// disk, via a REZI-encoded blob so the rule list's shape can evolve without a
// schema migration for every new rule added.
func convertToDB_RuleSpecs(rules []dao.RuleSpec) string {
	if len(rules) < 1 {
		return ""
	}

	data := rezi.EncBinary(rules)
	return convertToDB_ByteSlice(data)
}

// convertFromDB_Email converts storage DB format value to a *mail.Address
// and stores it at the address pointed to by target. If the zero value is
// provided, target is set to a nil pointer. If there is a problem with the
// decoding, the returned error will be of type serr.Error, and will wrap
// dao.ErrDecodingFailure. If this function returns a non-nil error, target will
// not have been modified.
func convertFromDB_Email(s string, target **mail.Address) error {
	if s == "" {
		*target = nil
		return nil
	}

	email, err := mail.ParseAddress(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}

	*target = email
	return nil
}

// convertFromDB_Role converts storage DB format value to a dao.Role and
// stores it at the address pointed to by target. If there is a problem with the
// decoding, the returned error will be of type serr.Error, and will wrap
// dao.ErrDecodingFailure. If this function returns a non-nil error, target will
// not have been modified.
func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}
	*target = r
	return nil
}

// convertFromDB_UUID converts storage DB format value to a uuid.UUID and
// stores it at the address pointed to by target. If there is a problem with the
// decoding, the returned error will be of type serr.Error, and will wrap
// dao.ErrDecodingFailure. If this function returns a non-nil error, target will
// not have been modified.
func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}
	*target = u
	return nil
}

// convertFromDB_Time converts storage DB format value to a time.Time and
// stores it at the address pointed to by target.
func convertFromDB_Time(i int64, target *time.Time) error {
	t := time.Unix(i, 0)
	*target = t
	return nil
}

// convertFromDB_ByteSlice converts storage DB format string to an actual byte
// slice and stores it at the address pointed to by target. If there is a
// problem with the decoding, the returned error will be of type serr.Error, and
// will wrap dao.ErrDecodingFailure. If this function returns a non-nil error,
// target will not have been modified.
func convertFromDB_ByteSlice(s string, target *[]byte) error {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}
	*target = decoded
	return nil
}

// convertFromDB_RuleSpecs converts a storage DB format string to a grammar's
// rule list and stores it at the address pointed to by target. If the zero
// value is provided, target is set to an empty slice. If there is a problem
// with the decoding, the returned error will be of type serr.Error, and will
// wrap dao.ErrDecodingFailure. If this function returns a non-nil error,
// target will not have been modified.
func convertFromDB_RuleSpecs(s string, target *[]dao.RuleSpec) error {
	if s == "" {
		*target = nil
		return nil
	}

	var data []byte
	if err := convertFromDB_ByteSlice(s, &data); err != nil {
		return serr.New("decode stored to bytes", err)
	}

	var rules []dao.RuleSpec
	n, err := rezi.DecBinary(data, &rules)
	if err != nil {
		return serr.New("REZI decode: %w", err, dao.ErrDecodingFailure)
	}
	if n != len(data) {
		return serr.New(fmt.Sprintf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data)), dao.ErrDecodingFailure)
	}

	*target = rules
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
