package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type JWTUtil struct {
	secretKey  string
	expiration time.Duration
}

func NewJWTUtil(secretKey string, expiration time.Duration) *JWTUtil {
	return &JWTUtil{
		secretKey:  secretKey,
		expiration: expiration,
	}
}

const purposePasswordReset = "password-reset"

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	// Purpose is empty for session tokens.
	Purpose     string `json:"purpose,omitempty"`
	Fingerprint string `json:"fp,omitempty"`
	jwt.StandardClaims
}

func (j *JWTUtil) Expiration() time.Duration {
	return j.expiration
}

func (j *JWTUtil) GenerateToken(userID, role string) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			ExpiresAt: now.Add(j.expiration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "devconnect-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// GenerateResetToken issues a short-lived password reset token bound to fingerprint,
// so the token stops working once the password it was issued against changes.
func (j *JWTUtil) GenerateResetToken(userID, fingerprint string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:      userID,
		Purpose:     purposePasswordReset,
		Fingerprint: fingerprint,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "devconnect-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ValidateToken accepts session tokens only.
func (j *JWTUtil) ValidateToken(tokenString string) (*Claims, error) {
	claims, err := j.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (j *JWTUtil) ValidateResetToken(tokenString string) (*Claims, error) {
	claims, err := j.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposePasswordReset {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (j *JWTUtil) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok {
			if ve.Errors&(jwt.ValidationErrorMalformed|jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
				return nil, ErrInvalidToken
			}
		}
		return nil, err
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
