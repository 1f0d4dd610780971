package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadSeatToken = errors.New("invalid seat token")

// SeatClaims entitle the bearer to play one seat of one match.
type SeatClaims struct {
	MatchID string `json:"match_id"`
	Seat    int    `json:"seat"`
	jwt.RegisteredClaims
}

type Seats struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func loadSecret() ([]byte, error) {
	secret, ok := os.LookupEnv("SEAT_SECRET")
	if ok {
		return []byte(secret), nil
	}
	secretPath, ok := os.LookupEnv("SEAT_SECRET_FILE")
	if ok {
		b, err := os.ReadFile(secretPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read seat secret: %w", err)
		}
		return b, nil
	}
	if !Development() {
		return nil, fmt.Errorf("no SEAT_SECRET or SEAT_SECRET_FILE env variable set")
	}
	// tokens do not survive a restart, which is fine for local runs
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func NewSeats() (*Seats, error) {
	secret, err := loadSecret()
	if err != nil {
		return nil, err
	}
	return NewSeatsWithSecret(secret, time.Hour), nil
}

func NewSeatsWithSecret(secret []byte, lifetime time.Duration) *Seats {
	return &Seats{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
	}
}

func (s *Seats) Sign(matchID string, seat int) (string, error) {
	now := time.Now()
	claims := SeatClaims{
		MatchID: matchID,
		Seat:    seat,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(s.signingMethod, claims).SignedString(s.secret)
}

// Verify checks that token was issued for this match and seat.
func (s *Seats) Verify(token, matchID string, seat int) error {
	claims := &SeatClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{s.signingMethod.Alg()}),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadSeatToken, err)
	}
	if claims.MatchID != matchID || claims.Seat != seat {
		return fmt.Errorf("%w: issued for another seat", ErrBadSeatToken)
	}
	return nil
}
