package booking

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"home-booking/httpServices/profile"
	"home-booking/logger"
	userModel "home-booking/models/user"
	"home-booking/repository"
	"home-booking/services/assignment"
	"home-booking/services/checkout"
	"home-booking/services/payment"
	"home-booking/types"
	bookingTypes "home-booking/types/booking"
	"home-booking/utils"
)

// BookingController handles the customer side of the booking lifecycle.
type BookingController struct {
	DB         *gorm.DB
	Repo       repository.BookingRepository
	Aggregator *checkout.Aggregator
	Payments   *payment.Tracker
	Profile    *profile.Client
	Logger     *logger.AsyncLogger
}

// NewBookingController creates a new booking controller
func NewBookingController(
	db *gorm.DB,
	repo repository.BookingRepository,
	aggregator *checkout.Aggregator,
	payments *payment.Tracker,
	profileClient *profile.Client,
	asyncLogger *logger.AsyncLogger,
) *BookingController {
	return &BookingController{
		DB:         db,
		Repo:       repo,
		Aggregator: aggregator,
		Payments:   payments,
		Profile:    profileClient,
		Logger:     asyncLogger,
	}
}

// Checkout converts the customer's cart into booking records, one per item,
// and reports per-item outcomes.
func (bc *BookingController) Checkout(c *fiber.Ctx) error {
	var req bookingTypes.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	userRecord, userID, errResp := bc.authenticatedCustomer(c)
	if errResp != nil {
		return errResp
	}

	// Snapshot the contact fields now; profile edits after this point must
	// not change the bookings being created.
	snapshot := types.CustomerSnapshot{
		Name:    userRecord.LegalName,
		Email:   valueOrEmpty(userRecord.Email),
		Phone:   userRecord.Phone,
		Address: userRecord.Address,
		Pincode: userRecord.Pincode,
	}
	if bc.Profile != nil {
		if fresh, err := bc.Profile.FetchSnapshot(userRecord.Uuid); err == nil {
			snapshot = *fresh
		} else {
			logger.Warning("Profile service unavailable, using stored contact data")
		}
	}
	overlayRequestSnapshot(&snapshot, req)

	results, err := bc.Aggregator.Checkout(c.Context(), userID, snapshot, req.Items)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Cart is empty",
			})
		}
		logger.Error("Checkout failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Checkout failed",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Checkout processed",
		Data:    results,
	})
}

// MyBookings returns the authenticated customer's booking history.
func (bc *BookingController) MyBookings(c *fiber.Ctx) error {
	_, userID, errResp := bc.authenticatedCustomer(c)
	if errResp != nil {
		return errResp
	}

	bookings, err := bc.Repo.ListByUser(c.Context(), userID)
	if err != nil {
		logger.Error("Failed to list bookings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// AmendContact updates correction fields on an open, unassigned booking.
func (bc *BookingController) AmendContact(c *fiber.Ctx) error {
	bookingID := c.Params("id")

	var req bookingTypes.AmendContactRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	_, userID, errResp := bc.authenticatedCustomer(c)
	if errResp != nil {
		return errResp
	}

	updated, err := bc.Aggregator.Amend(c.Context(), bookingID, userID, req)
	if err != nil {
		return respondLifecycleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking updated successfully",
		Data:    updated,
	})
}

// MarkPaid transitions the booking's payment status to paid. Idempotent.
func (bc *BookingController) MarkPaid(c *fiber.Ctx) error {
	bookingID := c.Params("id")

	_, userID, errResp := bc.authenticatedCustomer(c)
	if errResp != nil {
		return errResp
	}

	updated, err := bc.Payments.MarkPaid(c.Context(), bookingID, userID)
	if err != nil {
		return respondLifecycleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking marked as paid",
		Data:    updated,
	})
}

// authenticatedCustomer resolves the caller's user record from JWT claims.
func (bc *BookingController) authenticatedCustomer(c *fiber.Ctx) (userRecord *userModel.User, id uint, errResp error) {
	claims, ok := utils.ClaimsFromContext(c)
	if !ok {
		return nil, 0, c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	userUUID, ok := claims["uuid"].(string)
	if !ok || userUUID == "" {
		return nil, 0, c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User UUID not found in token",
		})
	}

	u, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		logger.Error("Error finding user by UUID", err)
		status := fiber.StatusInternalServerError
		msg := "Database error"
		if err.Error() == "user not found" {
			status = fiber.StatusUnauthorized
			msg = "User not found"
		}
		return nil, 0, c.Status(status).JSON(types.ApiResponse{
			Status:  status,
			Message: msg,
		})
	}

	return u, u.ID, nil
}

func respondLifecycleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, assignment.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Booking not found",
		})
	case errors.Is(err, assignment.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You are not allowed to modify this booking",
		})
	case errors.Is(err, assignment.ErrInvalidState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: "Booking can no longer be modified",
		})
	case errors.Is(err, assignment.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Booking was modified concurrently, try again",
		})
	default:
		logger.Error("Booking operation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

func overlayRequestSnapshot(snapshot *types.CustomerSnapshot, req bookingTypes.CheckoutRequest) {
	if req.Name != "" {
		snapshot.Name = req.Name
	}
	if req.Email != "" {
		snapshot.Email = req.Email
	}
	if req.Phone != "" {
		snapshot.Phone = req.Phone
	}
	if req.Address != "" {
		snapshot.Address = req.Address
	}
	if req.Pincode != "" {
		snapshot.Pincode = req.Pincode
	}
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
