package service

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"home-booking/logger"
	serviceModel "home-booking/models/service"
	"home-booking/types"
)

// ServiceController exposes the read-only service catalog.
type ServiceController struct {
	DB *gorm.DB
}

func NewServiceController(db *gorm.DB) *ServiceController {
	return &ServiceController{DB: db}
}

// Index lists active catalog entries, optionally filtered by category.
func (sc *ServiceController) Index(c *fiber.Ctx) error {
	q := sc.DB.Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var services []serviceModel.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		logger.Error("Failed to list services", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Services retrieved successfully",
		Data:    services,
	})
}
