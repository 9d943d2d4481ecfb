package provider

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"home-booking/logger"
	"home-booking/middleware"
	"home-booking/repository"
	"home-booking/services/assignment"
	"home-booking/services/feed"
	"home-booking/types"
	bookingTypes "home-booking/types/booking"
	"home-booking/utils"
)

// ProviderController handles the provider side of the booking lifecycle:
// feed, claim, ignore and fulfillment transitions.
type ProviderController struct {
	DB     *gorm.DB
	Repo   repository.BookingRepository
	Engine *assignment.Engine
	Feed   *feed.Service
	Logger *logger.AsyncLogger
}

func NewProviderController(
	db *gorm.DB,
	repo repository.BookingRepository,
	engine *assignment.Engine,
	feedService *feed.Service,
	asyncLogger *logger.AsyncLogger,
) *ProviderController {
	return &ProviderController{
		DB:     db,
		Repo:   repo,
		Engine: engine,
		Feed:   feedService,
		Logger: asyncLogger,
	}
}

// GetFeed returns the provider's view of claimable bookings. Optional query
// filters: from, to (YYYY-MM-DD) and service.
func (pc *ProviderController) GetFeed(c *fiber.Ctx) error {
	providerID, errResp := pc.authenticatedProviderID(c)
	if errResp != nil {
		return errResp
	}

	filter := repository.FeedFilter{ServiceName: c.Query("service")}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(c, "Invalid 'from' date, expected YYYY-MM-DD")
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(c, "Invalid 'to' date, expected YYYY-MM-DD")
		}
		filter.To = &to
	}

	bookings, err := pc.Feed.ForProvider(c.Context(), providerID, filter)
	if err != nil {
		logger.Error("Failed to compute provider feed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Feed retrieved successfully",
		Data:    bookings,
	})
}

// GetAssigned returns the bookings currently held by the provider.
func (pc *ProviderController) GetAssigned(c *fiber.Ctx) error {
	providerID, errResp := pc.authenticatedProviderID(c)
	if errResp != nil {
		return errResp
	}

	bookings, err := pc.Repo.ListByProvider(c.Context(), providerID)
	if err != nil {
		logger.Error("Failed to list assigned bookings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Assigned bookings retrieved successfully",
		Data:    bookings,
	})
}

// Claim makes the provider the exclusive assignee of an open booking.
// Exactly one of any set of concurrent claimants succeeds.
func (pc *ProviderController) Claim(c *fiber.Ctx) error {
	req, providerID, errResp := pc.parseBookingAction(c)
	if errResp != nil {
		return errResp
	}

	providerRecord, err := utils.GetUserByID(providerID)
	if err != nil {
		logger.Error("Error loading provider record", err)
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Provider not found",
		})
	}

	claimed, err := pc.Engine.Claim(c.Context(), req.BookingID, assignment.Provider{
		ID:      providerID,
		Name:    providerRecord.LegalName,
		Contact: providerRecord.Phone,
	})
	if err != nil {
		return respondAssignmentError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking claimed successfully",
		Data:    claimed,
	})
}

// Ignore hides a booking from the provider's own feed without affecting
// other providers.
func (pc *ProviderController) Ignore(c *fiber.Ctx) error {
	req, providerID, errResp := pc.parseBookingAction(c)
	if errResp != nil {
		return errResp
	}

	if err := pc.Engine.Ignore(c.Context(), req.BookingID, providerID); err != nil {
		return respondAssignmentError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking removed from your feed",
	})
}

// Unignore puts a previously ignored booking back into the provider's feed.
func (pc *ProviderController) Unignore(c *fiber.Ctx) error {
	req, providerID, errResp := pc.parseBookingAction(c)
	if errResp != nil {
		return errResp
	}

	if err := pc.Engine.Unignore(c.Context(), req.BookingID, providerID); err != nil {
		return respondAssignmentError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking restored to your feed",
	})
}

// Release returns an assigned booking to the open pool. Allowed for the
// current holder or an admin.
func (pc *ProviderController) Release(c *fiber.Ctx) error {
	req, actorID, errResp := pc.parseBookingAction(c)
	if errResp != nil {
		return errResp
	}

	actor := assignment.Actor{ID: actorID, Admin: middleware.IsAdminCaller(c)}
	if err := pc.Engine.Release(c.Context(), req.BookingID, actor); err != nil {
		return respondAssignmentError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking released successfully",
	})
}

// Complete moves an assigned booking into its terminal state. Allowed for
// the current holder or an admin.
func (pc *ProviderController) Complete(c *fiber.Ctx) error {
	req, actorID, errResp := pc.parseBookingAction(c)
	if errResp != nil {
		return errResp
	}

	actor := assignment.Actor{ID: actorID, Admin: middleware.IsAdminCaller(c)}
	if err := pc.Engine.Complete(c.Context(), req.BookingID, actor); err != nil {
		return respondAssignmentError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking completed successfully",
	})
}

func (pc *ProviderController) parseBookingAction(c *fiber.Ctx) (bookingTypes.ClaimRequest, uint, error) {
	var req bookingTypes.ClaimRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return req, 0, badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return req, 0, badRequest(c, err.Error())
	}

	providerID, errResp := pc.authenticatedProviderID(c)
	if errResp != nil {
		return req, 0, errResp
	}
	return req, providerID, nil
}

func (pc *ProviderController) authenticatedProviderID(c *fiber.Ctx) (uint, error) {
	claims, ok := utils.ClaimsFromContext(c)
	if !ok {
		return 0, c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid user claims",
		})
	}

	id, ok := utils.UserIDFromClaims(claims)
	if !ok {
		return 0, c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User id not found in token",
		})
	}
	return id, nil
}

func respondAssignmentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, assignment.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Booking not found",
		})
	case errors.Is(err, assignment.ErrAlreadyAssigned):
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Booking is no longer available",
		})
	case errors.Is(err, assignment.ErrNotAssigned):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: "Booking is not assigned",
		})
	case errors.Is(err, assignment.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You are not allowed to perform this action",
		})
	case errors.Is(err, assignment.ErrInvalidState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: "Operation is not legal from the current booking state",
		})
	case errors.Is(err, assignment.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Booking was modified concurrently, try again",
		})
	default:
		logger.Error("Assignment operation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
		Status:  fiber.StatusBadRequest,
		Message: msg,
	})
}
