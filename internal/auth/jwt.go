package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer        = "system-exporter"
	minSecretSize = 32
)

// Claims identify an operator allowed to trigger exports.
type Claims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

func checkSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("JWT secret is required but not set")
	}
	if len(secret) < minSecretSize {
		return fmt.Errorf("JWT secret must be at least %d characters long for security", minSecretSize)
	}
	return nil
}

// GenerateJWT signs an operator token valid for ttl.
func GenerateJWT(operator, secret string, ttl time.Duration) (string, error) {
	if err := checkSecret(secret); err != nil {
		return "", fmt.Errorf("cannot generate JWT: %w", err)
	}
	if operator == "" {
		return "", fmt.Errorf("cannot generate JWT: operator name is required")
	}

	now := time.Now()
	claims := Claims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   fmt.Sprintf("operator_%s", operator),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateJWT(tokenString, secret string) (*Claims, error) {
	if err := checkSecret(secret); err != nil {
		return nil, fmt.Errorf("cannot validate JWT: %w", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.Operator != "" {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
