package receipts

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

var ErrInvalidShare = errors.New("invalid or expired share link")

// ShareSigner issues short-lived tokens that let anyone holding the link
// follow an order.
type ShareSigner struct {
	Secret  []byte
	TTL     time.Duration
	BaseURL string
	Clock   clockwork.Clock
}

func (s *ShareSigner) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *ShareSigner) Sign(orderID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   orderID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return token, nil
}

// URL is the public tracking link of an order.
func (s *ShareSigner) URL(orderID string) (string, error) {
	link, _, err := s.Link(orderID)
	return link, err
}

// Link returns the tracking link together with the token embedded in it.
func (s *ShareSigner) Link(orderID string) (link, token string, err error) {
	if token, err = s.Sign(orderID); err != nil {
		return "", "", err
	}
	link = fmt.Sprintf("%s/track/%s?t=%s", s.BaseURL, url.PathEscape(orderID), url.QueryEscape(token))
	return link, token, nil
}

// Verify returns the order id a token was issued for.
func (s *ShareSigner) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || claims.Subject == "" {
		return "", ErrInvalidShare
	}
	return claims.Subject, nil
}
