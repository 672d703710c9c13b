package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const contextUserKey = "current_user_id"

type authClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	userID, err := handler.authenticateRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	c.Locals(contextUserKey, userID)
	return c.Next()
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (string, error) {
	rawToken := bearerToken(c)
	if rawToken == "" {
		return "", errors.New("missing auth token")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return "", errors.New("token expired")
	}
	if claims.UserID == "" {
		return "", errors.New("invalid token")
	}
	return claims.UserID, nil
}

func bearerToken(c *fiber.Ctx) string {
	authorization := strings.TrimSpace(c.Get("Authorization"))
	if after, found := strings.CutPrefix(authorization, "Bearer "); found {
		return strings.TrimSpace(after)
	}
	return ""
}

func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(contextUserKey).(string)
	return userID
}
