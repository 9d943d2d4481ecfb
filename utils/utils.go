package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jinzhu/now"
	"gorm.io/gorm"

	"home-booking/database"
	"home-booking/models/user"
)

// GetUserByUUID looks a user up by the uuid carried in their token.
func GetUserByUUID(userUUID string) (*user.User, error) {
	var u user.User
	err := database.DB.Where("uuid = ?", userUUID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByID looks a user up by primary key.
func GetUserByID(id uint) (*user.User, error) {
	var u user.User
	err := database.DB.First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &u, nil
}

// UserIDFromClaims extracts the numeric user id from JWT claims.
func UserIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	raw, ok := claims["user_id"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return uint(v), true
	case int:
		return uint(v), true
	default:
		return 0, false
	}
}

// ClaimsFromContext returns the decoded JWT claims attached by the auth middleware.
func ClaimsFromContext(c *fiber.Ctx) (jwt.MapClaims, bool) {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	return claims, ok
}

func ExtractUUIDFromToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header missing")
	}

	// Split "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "", fmt.Errorf("invalid token format")
	}

	tokenString := tokenParts[1]

	// Parse the token
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	uuid, ok := claims["uuid"].(string)
	if !ok || uuid == "" {
		return "", fmt.Errorf("uuid not found in token")
	}
	return uuid, nil
}

// IsPastDate reports whether t falls before the beginning of today.
func IsPastDate(t time.Time) bool {
	return t.Before(now.BeginningOfDay())
}
