package jwt

import (
	"Recipe-Generator/domain"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenIssuer = "RECIPE-GENERATOR"

type (
	JWTService interface {
		// Enabled is false when no secret is configured; the API is then open.
		Enabled() bool
		GenerateToken(subject string, duration time.Duration) (string, error)
		// ValidateToken returns the subject of a valid token.
		ValidateToken(token string) (string, error)
	}

	jwtClaim struct {
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

func NewJWTService(secretKey string) JWTService {
	return &jwtService{
		secretKey: strings.TrimSpace(secretKey),
		issuer:    tokenIssuer,
	}
}

func (j *jwtService) Enabled() bool {
	return j.secretKey != ""
}

func (j *jwtService) GenerateToken(subject string, duration time.Duration) (string, error) {
	if !j.Enabled() {
		return "", domain.ErrTokenNotFound
	}
	now := time.Now()
	claims := jwtClaim{
		jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateToken(token string) (string, error) {
	t_Token, err := jwt.ParseWithClaims(token, &jwtClaim{}, j.parseToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	claims, ok := t_Token.Claims.(*jwtClaim)
	if !t_Token.Valid || !ok || claims.Issuer != j.issuer {
		return "", domain.ErrTokenInvalid
	}
	return claims.Subject, nil
}
