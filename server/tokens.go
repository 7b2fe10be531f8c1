package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	resetTokenTTL  = 15 * time.Minute
	resetPurpose   = "password_reset"
	resetTokenIssr = "teamplan"
)

var errInvalidResetToken = errors.New("invalid or expired reset token")

// resetClaims are carried by a password reset token. The registered ID
// is the jti stored in password_resets.
type resetClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type resetTokens struct {
	secret []byte
	now    func() time.Time
}

func newResetTokens(secret []byte) *resetTokens {
	return &resetTokens{secret: secret, now: time.Now}
}

// issue signs a token for userID and returns it with its jti and expiry.
func (r *resetTokens) issue(userID, email string) (token, jti string, expiresAt time.Time, err error) {
	now := r.now()
	jti = uuid.NewString()
	expiresAt = now.Add(resetTokenTTL)

	claims := &resetClaims{
		Email:   email,
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    resetTokenIssr,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign reset token: %w", err)
	}
	return token, jti, expiresAt, nil
}

// parse validates signature, expiry and purpose.
func (r *resetTokens) parse(tokenStr string) (*resetClaims, error) {
	claims := &resetClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(resetTokenIssr),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil || !token.Valid {
		return nil, errInvalidResetToken
	}
	if claims.Purpose != resetPurpose || claims.ID == "" || claims.Subject == "" {
		return nil, errInvalidResetToken
	}
	return claims, nil
}
