package middleware

import (
	"errors"
	"fmt"
	"orphancare/domain"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const localsUser = "user"

type JWT struct {
	key []byte
	ttl time.Duration
	Now func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{key: []byte(secret), ttl: ttl, Now: time.Now}
}

// Issue signs an HS256 token carrying the user id as subject and the role.
func (j *JWT) Issue(userID string, role domain.Role) (string, error) {
	now := j.Now()
	claims := &domain.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.key)
}

func (j *JWT) Verify(tokenString string) (*domain.Claims, error) {
	claims := &domain.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return j.key, nil
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

// AuthRequired verifies the bearer token and stores its claims under the
// "user" local.
func AuthRequired(j *JWT) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "No token, authorization denied",
			})
		}

		claims, err := j.Verify(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token is not valid",
			})
		}

		c.Locals(localsUser, claims)
		return c.Next()
	}
}

// RoleRequired must run after AuthRequired.
func RoleRequired(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(localsUser).(*domain.Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "No token, authorization denied",
			})
		}
		for _, r := range roles {
			if claims.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Access denied. Admin only.",
		})
	}
}

// GetPrincipal returns the caller verified by AuthRequired, or the zero
// Principal on public routes.
func GetPrincipal(c *fiber.Ctx) domain.Principal {
	claims, ok := c.Locals(localsUser).(*domain.Claims)
	if !ok {
		return domain.Principal{}
	}
	return claims.Principal()
}
