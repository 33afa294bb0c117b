package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GetUserID extracts the authenticated user's UUID from JWT claims in
// the Fiber context. Callers must never trust a client-supplied user ID
// for ownership decisions; this is the only source.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := getClaims(c)
	if err != nil {
		return uuid.Nil, err
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// GetRole extracts the role claim issued at login. Mutating handlers
// pass it to the authz policy before acting.
func GetRole(c *fiber.Ctx) string {
	claims, err := getClaims(c)
	if err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// ActingRole returns the role the request is acting under: the role the
// authorization middleware verified, or the token claim when no
// middleware ran on the route.
func ActingRole(c *fiber.Ctx) string {
	if role, ok := c.Locals("acting_role").(string); ok && role != "" {
		return role
	}
	return GetRole(c)
}

func getClaims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
