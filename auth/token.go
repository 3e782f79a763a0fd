package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/junaidrashid-git/storefront-api/models"
)

const tokenTTL = 72 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is what the API needs from a signed-in caller.
type Claims struct {
	UserID  string
	Email   string
	IsAdmin bool
}

func role(isAdmin bool) string {
	if isAdmin {
		return "admin"
	}
	return "user"
}

// IssueToken signs an HS256 token for user.
func IssueToken(secret string, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"role":     role(user.IsAdmin),
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies tokenString and returns its claims. A leading
// "Bearer " is accepted.
func ParseToken(secret, tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return &Claims{UserID: userID, Email: email, IsAdmin: isAdmin}, nil
}
