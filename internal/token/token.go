package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	internal_errors "github.com/quest-maker/auth-service/internal/errors"
	"github.com/quest-maker/auth-service/internal/logger"
)

// ScopeAccessToken is the single capability this service recognizes.
const ScopeAccessToken = "access_token"

// Claims are the decoded contents of a bearer token.
type Claims struct {
	Subject string
	Scope   string
}

// HasScope reports whether the space-delimited scope set contains the
// given capability.
func (c Claims) HasScope(capability string) bool {
	for _, s := range strings.Fields(c.Scope) {
		if s == capability {
			return true
		}
	}
	return false
}

type Service interface {
	Issue(subject, scope string) (string, error)
	Validate(tokenStr string) (Claims, error)
}

type JWT struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *JWT {
	return &JWT{secretKey, ttl}
}

func (j *JWT) Issue(subject, scope string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"scope": scope,
		"iat":   now.Unix(),
		"exp":   now.Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

func (j *JWT) Validate(tokenStr string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		// Verify signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal_errors.InvalidToken("Unexpected signing method")
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid {
		return Claims{}, internal_errors.InvalidToken("Invalid access token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, internal_errors.InvalidToken("Invalid token claims")
	}
	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return Claims{}, internal_errors.InvalidToken("Invalid token claims")
	}
	scope, _ := mapClaims["scope"].(string)

	return Claims{Subject: sub, Scope: scope}, nil
}
