// Package token handles creation and validation of the bearer tokens used to
// authenticate API requests.
package token

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "ll1gen"

// Get extracts the bearer token from req's Authorization header. It returns
// an error if the header is absent or not in the expected "Bearer <token>"
// format.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	tok := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return tok, nil
}

// Validate parses and verifies tok, looking up the subject account via db and
// deriving the signing key from secret plus account-specific material so that
// a logout or password change invalidates every token issued before it.
func Validate(ctx context.Context, tok string, secret []byte, db dao.AccountRepository) (dao.Account, error) {
	var acc dao.Account

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		acc, err = db.GetByID(ctx, id)
		if err != nil {
			if err == dao.ErrNotFound {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signingKey(secret, acc), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.Account{}, err
	}

	return acc, nil
}

// Generate produces a new signed bearer token for acc.
func Generate(secret []byte, acc dao.Account) (string, error) {
	claims := &jwt.MapClaims{
		"iss":        issuer,
		"exp":        time.Now().Add(time.Hour).Unix(),
		"sub":        acc.ID.String(),
		"authorized": true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	return tok.SignedString(signingKey(secret, acc))
}

// signingKey derives a per-account signing key from secret so that changing
// an account's password or logging out invalidates every token issued
// against the previous key.
func signingKey(secret []byte, acc dao.Account) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, []byte(acc.Password)...)
	key = append(key, []byte(fmt.Sprintf("%d", acc.LastLogoutTime.Unix()))...)
	return key
}
