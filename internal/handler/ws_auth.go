package handler

import (
	"errors"
	"os"

	"ai-assistant-be/pkg/chat"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// authenticateSocket resolves the caller's identity before a websocket
// upgrade. Browsers cannot set headers on websocket requests, so the token
// is accepted from the "token" query param first, then from the standard
// Authorization header for non-browser clients.
func authenticateSocket(c *fiber.Ctx) (chat.Identity, error) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return chat.Identity{}, errors.New("missing token (query 'token' or header 'Authorization')")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			secret = "default_secret"
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return chat.Identity{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return chat.Identity{}, errors.New("invalid token claims")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return chat.Identity{}, errors.New("token missing user_id")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return chat.Identity{}, errors.New("invalid user ID format in token")
	}

	identity := chat.Identity{UserID: userID}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := claims["full_name"].(string); ok {
		identity.FullName = name
	}
	return identity, nil
}
