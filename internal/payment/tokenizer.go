package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid payment method token")

// Tokenizer exchanges card details for an opaque payment-method token so the
// raw card number never reaches the gateway. Only the last four digits and
// the expiry are carried in the signed claims.
type Tokenizer struct {
	secret []byte
	ttl    time.Duration
}

// CardClaims is what a token reveals about the card.
type CardClaims struct {
	Last4  string
	Expiry string
}

// NewTokenizer creates a Tokenizer signing with secret. Tokens expire after ttl.
func NewTokenizer(secret string, ttl time.Duration) *Tokenizer {
	return &Tokenizer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Tokenize returns a token for a validated card.
func (t *Tokenizer) Tokenize(cardNumber, expiry string) (string, error) {
	if len(cardNumber) < 4 {
		return "", fmt.Errorf("card number too short to tokenize")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":    "pm_" + uuid.NewString(),
		"last4":  cardNumber[len(cardNumber)-4:],
		"expiry": expiry,
		"iat":    now.Unix(),
		"exp":    now.Add(t.ttl).Unix(),
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign payment method token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token produced by Tokenize.
func (t *Tokenizer) Parse(tokenString string) (CardClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return CardClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return CardClaims{}, ErrInvalidToken
	}

	last4, _ := claims["last4"].(string)
	expiry, _ := claims["expiry"].(string)
	return CardClaims{Last4: last4, Expiry: expiry}, nil
}
