package jwt

import (
	"Snack-Tracker/domain"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const defaultSessionTTL = time.Hour * 24 * 30

type (
	JWTService interface {
		GenerateSessionToken(userID string) (string, error)
		ValidateSessionToken(token string) (*jwt.Token, error)
		// ParseSession returns the user id and the issue time of a valid token.
		ParseSession(token string) (string, time.Time, error)
	}

	jwtSessionClaim struct {
		UserID string `json:"user_id"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
		now       func() time.Time
	}
)

func NewJWTService(secretKey string) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "SNACKTRACK",
		ttl:       defaultSessionTTL,
		now:       time.Now,
	}
}

func (j *jwtService) GenerateSessionToken(userID string) (string, error) {
	if j.secretKey == "" {
		return "", errors.New("jwt secret not configured")
	}
	now := j.now()
	claims := jwtSessionClaim{
		userID,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
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

func (j *jwtService) ValidateSessionToken(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtSessionClaim{}, j.parseToken)
}

func (j *jwtService) ParseSession(token string) (string, time.Time, error) {
	if token == "" {
		return "", time.Time{}, domain.ErrTokenNotFound
	}
	t_Token, err := j.ValidateSessionToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", time.Time{}, domain.ErrTokenExpired
		}
		return "", time.Time{}, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", time.Time{}, domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtSessionClaim)
	if claims.Issuer != j.issuer || claims.UserID == "" {
		return "", time.Time{}, domain.ErrTokenInvalid
	}
	var issued time.Time
	if claims.IssuedAt != nil {
		issued = claims.IssuedAt.Time
	}
	return claims.UserID, issued, nil
}
