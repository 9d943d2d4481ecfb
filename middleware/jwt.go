package middleware

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"home-booking/constants"
	"home-booking/types"
)

// VerifyJWT verifies an HMAC-signed token issued by the identity service and
// returns its claims.
func VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}
	return claims, nil
}

// hasPermission decodes the token and checks its permission strings against
// the required set. PermAny in the required set accepts any valid token.
func hasPermission(tokenString string, requiredPermissions []string) (jwt.MapClaims, bool) {
	claims, err := VerifyJWT(tokenString)
	if err != nil {
		return nil, false
	}

	userPermissions := extractUserPermissionsFromClaims(claims)

	for _, required := range requiredPermissions {
		if required == constants.PermAny {
			return claims, true
		}
		if userPermissions[required] {
			return claims, true
		}
	}
	return claims, false
}

// IsAuthenticated validates the bearer token (header first, access cookie as
// fallback) and enforces the required permissions. Claims and the permission
// set are attached to the request context for controllers.
func IsAuthenticated(requiredPermissions []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var token string

		if authHeader != "" {
			// Validate Bearer Token
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
					Status:  fiber.StatusUnauthorized,
					Message: "Invalid authorization header format",
				})
			}
			token = tokenParts[1]
		} else {
			// Try to get token from cookie as fallback
			token = c.Cookies("access")
			if token == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
					Status:  fiber.StatusUnauthorized,
					Message: "Authorization token missing",
				})
			}
		}

		decodedClaims, hasAccess := hasPermission(token, requiredPermissions)
		if !hasAccess {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "Insufficient permissions",
			})
		}

		c.Locals("user", decodedClaims)
		c.Locals("permissions", extractUserPermissionsFromClaims(decodedClaims))

		return c.Next()
	}
}
