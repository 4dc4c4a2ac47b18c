package accounts

import (
	"context"
	"encoding/base64"
	"errors"
	"net/mail"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// GetAllAccounts returns all accounts currently in persistence.
func (svc Service) GetAllAccounts(ctx context.Context) ([]dao.Account, error) {
	accs, err := svc.DB.Accounts().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}

	return accs, nil
}

// GetAccount returns the account with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no account with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if
// there is an issue with one of the arguments, it will match
// serr.ErrBadArgument.
func (svc Service) GetAccount(ctx context.Context, id string) (dao.Account, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Account{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	acc, err := svc.DB.Accounts().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.ErrNotFound
		}
		return dao.Account{}, serr.WrapDB("could not get account", err)
	}

	return acc, nil
}

// CreateAccount creates a new account with the given username, password, and
// email combo. Returns the newly-created account as it exists after
// creation.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If an account with that
// username is already present, it will match serr.ErrAlreadyExists. If the
// error occured due to an unexpected problem with the DB, it will match
// serr.ErrDB. Finally, if one of the arguments is invalid, it will match
// serr.ErrBadArgument.
func (svc Service) CreateAccount(ctx context.Context, username, password, email string, role dao.Role) (dao.Account, error) {
	var err error
	if username == "" {
		return dao.Account{}, serr.New("username cannot be blank", err, serr.ErrBadArgument)
	}
	if password == "" {
		return dao.Account{}, serr.New("password cannot be blank", err, serr.ErrBadArgument)
	}

	var storedEmail *mail.Address
	if email != "" {
		storedEmail, err = mail.ParseAddress(email)
		if err != nil {
			return dao.Account{}, serr.New("email is not valid", err, serr.ErrBadArgument)
		}
	}

	_, err = svc.DB.Accounts().GetByUsername(ctx, username)
	if err == nil {
		return dao.Account{}, serr.New("an account with that username already exists", serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.Account{}, serr.WrapDB("", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return dao.Account{}, serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return dao.Account{}, serr.New("password could not be encrypted", err)
	}

	storedPass := base64.StdEncoding.EncodeToString(passHash)

	newAcc := dao.Account{
		Username: username,
		Password: storedPass,
		Email:    storedEmail,
		Role:     role,
	}

	acc, err := svc.DB.Accounts().Create(ctx, newAcc)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Account{}, serr.ErrAlreadyExists
		}
		return dao.Account{}, serr.WrapDB("could not create account", err)
	}

	return acc, nil
}

// UpdateAccount sets the username, email, and role of the account with the
// given ID. It cannot be used to update the password; use UpdatePassword for
// that. Returns the updated account.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If an account with that
// username already exists, it will match serr.ErrAlreadyExists. If no
// account with the given ID exists, it will match serr.ErrNotFound. If the
// error occured due to an unexpected problem with the DB, it will match
// serr.ErrDB. Finally, if one of the arguments is invalid, it will match
// serr.ErrBadArgument.
func (svc Service) UpdateAccount(ctx context.Context, id, username, email string, role dao.Role) (dao.Account, error) {
	if username == "" {
		return dao.Account{}, serr.New("username cannot be blank", serr.ErrBadArgument)
	}

	var storedEmail *mail.Address
	var err error
	if email != "" {
		storedEmail, err = mail.ParseAddress(email)
		if err != nil {
			return dao.Account{}, serr.New("email is not valid", err, serr.ErrBadArgument)
		}
	}

	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Account{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	existing, err := svc.DB.Accounts().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.New("account not found", serr.ErrNotFound)
		}
		return dao.Account{}, serr.WrapDB("", err)
	}

	if existing.Username != username {
		_, err := svc.DB.Accounts().GetByUsername(ctx, username)
		if err == nil {
			return dao.Account{}, serr.New("an account with that username already exists", serr.ErrAlreadyExists)
		} else if !errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.WrapDB("", err)
		}
	}

	existing.Username = username
	existing.Email = storedEmail
	existing.Role = role

	updated, err := svc.DB.Accounts().Update(ctx, uuidID, existing)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Account{}, serr.New("an account with that username already exists", serr.ErrAlreadyExists)
		} else if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.New("account not found", serr.ErrNotFound)
		}
		return dao.Account{}, serr.WrapDB("", err)
	}

	return updated, nil
}

// UpdatePassword sets the password of the account with the given ID to the
// new password. The new password cannot be empty. Returns the updated
// account.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no account with the given
// ID exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if one
// of the arguments is invalid, it will match serr.ErrBadArgument.
func (svc Service) UpdatePassword(ctx context.Context, id, password string) (dao.Account, error) {
	if password == "" {
		return dao.Account{}, serr.New("password cannot be empty", serr.ErrBadArgument)
	}
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Account{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	existing, err := svc.DB.Accounts().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.New("no account with that ID exists", serr.ErrNotFound)
		}
		return dao.Account{}, serr.WrapDB("", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return dao.Account{}, serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return dao.Account{}, serr.New("password could not be encrypted", err)
	}

	existing.Password = base64.StdEncoding.EncodeToString(passHash)

	updated, err := svc.DB.Accounts().Update(ctx, uuidID, existing)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.New("no account with that ID exists", serr.ErrNotFound)
		}
		return dao.Account{}, serr.WrapDB("could not update account", err)
	}

	return updated, nil
}

// DeleteAccount deletes the account with the given ID. It returns the
// deleted account just after it was deleted.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no account with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if
// there is an issue with one of the arguments, it will match
// serr.ErrBadArgument.
func (svc Service) DeleteAccount(ctx context.Context, id string) (dao.Account, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Account{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	acc, err := svc.DB.Accounts().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.ErrNotFound
		}
		return dao.Account{}, serr.WrapDB("could not delete account", err)
	}

	return acc, nil
}
