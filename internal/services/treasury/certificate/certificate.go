// Package certificate issues non-fungible reward certificates for claimed
// league rewards. Certificates are signed tokens whose claims carry the
// league, team, reward label, amount, and image reference; the certificate
// id doubles as the token id and is unique per mint.
package certificate

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
	"github.com/louisbranch/leaguepool/internal/platform/id"
)

// MintRequest describes the reward being certified.
type MintRequest struct {
	To         string
	LeagueName string
	TeamName   string
	Label      string
	Amount     uint64
	ImageRef   string
}

// Certificate is an issued reward certificate.
type Certificate struct {
	ID    string
	Token string
}

// Issuer mints reward certificates on behalf of recognized league ledgers.
type Issuer interface {
	Mint(ctx context.Context, caller string, req MintRequest) (Certificate, error)
}

// Recognizer reports whether an account is a recognized league ledger.
type Recognizer interface {
	IsRecognizedLedger(account string) bool
}

// Signer mints certificates as HMAC-signed JWTs. It is stateless: every
// mint produces a fresh token keyed by a generated certificate id.
type Signer struct {
	secret      []byte
	recognizer  Recognizer
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewSigner creates a Signer with default clock and id generation.
func NewSigner(secret []byte, recognizer Recognizer) *Signer {
	return &Signer{
		secret:      secret,
		recognizer:  recognizer,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// Mint issues a certificate for the request. The caller must be a
// recognized league ledger.
func (s *Signer) Mint(ctx context.Context, caller string, req MintRequest) (Certificate, error) {
	if s.recognizer == nil || !s.recognizer.IsRecognizedLedger(caller) {
		return Certificate{}, apperrors.WithMetadata(apperrors.CodeCertificateUnauthorized,
			"caller is not a recognized league ledger",
			map[string]string{"caller": caller})
	}

	certID, err := s.idGenerator()
	if err != nil {
		return Certificate{}, fmt.Errorf("generate certificate id: %w", err)
	}

	now := s.clock().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":    certID,
		"iat":    now.Unix(),
		"sub":    req.To,
		"league": req.LeagueName,
		"team":   req.TeamName,
		"label":  req.Label,
		"amount": req.Amount,
		"image":  req.ImageRef,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Certificate{}, fmt.Errorf("sign certificate: %w", err)
	}

	return Certificate{ID: certID, Token: signed}, nil
}

// Verify parses a certificate token and returns its claims.
func (s *Signer) Verify(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("certificate token is not valid")
	}
	return claims, nil
}
