package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims grant moves on a single game session.
type SessionClaims struct {
	SessionId int64 `json:"session_id"`
	jwt.RegisteredClaims
}

type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func NewJWT(secret []byte, tokenLifetime time.Duration) (*JWT, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty JWT secret")
	}
	j := &JWT{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: tokenLifetime,
	}
	return j, nil
}

func (c Config) loadSecret() ([]byte, error) {
	if c.Jwt.Secret != "" {
		return []byte(c.Jwt.Secret), nil
	}
	if c.Jwt.SecretFile != "" {
		data, err := os.ReadFile(c.Jwt.SecretFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read JWT secret: %w", err)
		}
		return []byte(strings.TrimSpace(string(data))), nil
	}
	if c.Development() {
		secret := make([]byte, 32)
		_, err := rand.Read(secret)
		return secret, err
	}
	return nil, fmt.Errorf("no JWT_SECRET or JWT_SECRET_FILE env variable set")
}

// JWT builds the token signer. Development mode falls back to a random
// secret, so tokens do not survive a restart.
func (c Config) JWT() (*JWT, error) {
	secret, err := c.loadSecret()
	if err != nil {
		return nil, err
	}
	return NewJWT(secret, c.Jwt.TokenLifetime.Duration)
}

func (j *JWT) Sign(sessionId int64) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionId: sessionId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sessionId, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

func (j *JWT) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
