package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadTicket = errors.New("bad session ticket")

// TicketIssuer signs and checks session tickets: HS256 tokens whose subject
// is the id of the game session they grant access to.
type TicketIssuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewTicketIssuer(c Tickets) (*TicketIssuer, error) {
	secret := []byte(c.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("unable to generate ticket secret: %w", err)
		}
	}
	lifetime := c.Lifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &TicketIssuer{
		secret:   secret,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

func (t *TicketIssuer) Sign(sessionID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.lifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TicketIssuer) Verify(ticket, sessionID string) error {
	if ticket == "" {
		return fmt.Errorf("%w: missing", ErrBadTicket)
	}
	_, err := jwt.ParseWithClaims(
		ticket,
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(sessionID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadTicket, err)
	}
	return nil
}
