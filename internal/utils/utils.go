package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// VerificationCodeLength is the number of digits in a handoff code.
const VerificationCodeLength = 6

// Claims are the JWT claims carried by API tokens. Subject is the user ID.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT signs an HS256 token for userID acting as role.
func GenerateJWT(userID string, role models.Role, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT parses and verifies a token signed by GenerateJWT.
func ValidateJWT(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, errors.New("token is missing subject or role")
	}
	return claims, nil
}

// GenerateVerificationCode returns a uniformly random decimal code of
// VerificationCodeLength digits, leading zeros included.
func GenerateVerificationCode() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", VerificationCodeLength, n.Int64()), nil
}

// ErrPointsOutOfRange is returned by CalculatePoints when the product is
// negative or does not fit in an int64 balance.
var ErrPointsOutOfRange = errors.New("points out of range")

var maxPoints = decimal.NewFromInt(math.MaxInt64)

// CalculatePoints returns floor(weight × pointsPerKg). A zero rate yields
// zero points.
func CalculatePoints(weight, pointsPerKg decimal.Decimal) (int64, error) {
	points := weight.Mul(pointsPerKg).Floor()
	if points.IsNegative() || points.GreaterThanOrEqual(maxPoints) {
		return 0, fmt.Errorf("%w: %s × %s", ErrPointsOutOfRange, weight, pointsPerKg)
	}
	return points.IntPart(), nil
}
