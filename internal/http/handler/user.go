package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"adgallery/internal/service"
)

// UserStatus returns the user's subscription tier, creating a free
// record on first sight.
// @Summary User subscription status
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/user/status [get]
func UserStatus(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Query("user_id", "default")

		user, err := users.GetOrCreate(c.UserContext(), userID, "")
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"user_id": user.UserID,
			"is_paid": user.IsPaid,
			"email":   user.Email,
			"model":   service.ModelLabel(user.IsPaid),
		})
	}
}

type createUserRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	IsPaid bool   `json:"is_paid"`
}

// CreateUser registers a new user record.
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /api/user [post]
func CreateUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createUserRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.UserID == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "user_id is required")
		}

		user, err := users.Create(c.UserContext(), req.UserID, req.Email, req.IsPaid)
		if err != nil {
			if errors.Is(err, service.ErrUserExists) {
				return writeError(c, fiber.StatusBadRequest, "USER_EXISTS", "user already exists")
			}
			return respondDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "User created successfully",
			"user_id": user.UserID,
			"is_paid": user.IsPaid,
			"model":   service.ModelLabel(user.IsPaid),
		})
	}
}

type updateSubscriptionRequest struct {
	UserID string `json:"user_id"`
	IsPaid bool   `json:"is_paid"`
}

// UpdateUserSubscription switches a user between the free and paid tiers.
// @Summary Update subscription
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/user/subscription [put]
func UpdateUserSubscription(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateSubscriptionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.UserID == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "user_id is required")
		}

		if err := users.UpdateSubscription(c.UserContext(), req.UserID, req.IsPaid); err != nil {
			return respondDomainError(c, err)
		}

		tier := "free"
		if req.IsPaid {
			tier = "paid"
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": fmt.Sprintf("User subscription updated to %s", tier),
			"user_id": req.UserID,
			"is_paid": req.IsPaid,
			"model":   service.ModelLabel(req.IsPaid),
		})
	}
}
