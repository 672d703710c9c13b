package api

import (
	"net/mail"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nroussel/vitalog/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type credentialsInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid email")
	}
	if len(input.Password) < 8 {
		return apiError(c, fiber.StatusBadRequest, "password too short")
	}

	if _, exists, err := handler.repos.Users.FindByEmail(input.Email); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to check email")
	} else if exists {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = models.StubDisplayName
	}

	user := models.User{
		UserID:                uuid.NewString(),
		Email:                 input.Email,
		DisplayName:           displayName,
		AuthProvider:          models.AuthProviderEmail,
		PasswordHash:          string(passwordHash),
		DailyStepsGoal:        models.DefaultStepsGoal,
		DailyCaloriesGoal:     models.DefaultCaloriesGoal,
		DailySleepGoal:        models.DefaultSleepGoal,
		NotificationsEnabled:  true,
		WaterRemindersEnabled: true,
	}
	if err := <-handler.repos.Users.Create(user); err != nil {
		return apiError(c, fiber.StatusConflict, "failed to create account")
	}

	token, err := handler.buildToken(user.UserID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user_id": user.UserID,
		"token":   token,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	user, found, err := handler.repos.Users.FindByEmail(input.Email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to look up account")
	}
	if !found {
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := handler.buildToken(user.UserID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.JSON(fiber.Map{
		"user_id": user.UserID,
		"token":   token,
	})
}

func (handler *Handler) buildToken(userID string) (string, error) {
	now := time.Now()
	claims := authClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(authTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}
