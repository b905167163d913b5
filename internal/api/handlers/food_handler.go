package handlers

import (
	"KeepFresh-Backend/domain"
	"KeepFresh-Backend/internal/api/presenters"
	"KeepFresh-Backend/pkg/food"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	FoodHandler interface {
		AddFoodItem(c *fiber.Ctx) error
		GetFoodItems(c *fiber.Ctx) error
		GetFinishedItems(c *fiber.Ctx) error
		GetExpiringSummary(c *fiber.Ctx) error
		MarkFinished(c *fiber.Ctx) error
		RestoreFoodItem(c *fiber.Ctx) error
		DeleteFoodItem(c *fiber.Ctx) error
		UploadItemPhoto(c *fiber.Ctx) error
	}

	foodHandler struct {
		foodService food.FoodService
		validator   *validator.Validate
	}
)

func NewFoodHandler(foodService food.FoodService, validator *validator.Validate) FoodHandler {
	return &foodHandler{
		foodService: foodService,
		validator:   validator,
	}
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrFoodItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrPersistence):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func (h *foodHandler) AddFoodItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddFoodItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddFoodItem, err)
	}

	res, err := h.foodService.AddFoodItem(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedAddFoodItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFoodItem)
}

func (h *foodHandler) GetFoodItems(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	location := c.Query("location")

	var items []domain.FoodItemResponse
	var err error
	if location == "" {
		items, err = h.foodService.ListAllActive(c.Context(), userID)
	} else {
		items, err = h.foodService.ListActive(c.Context(), userID, location)
	}
	if err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedGetFoodItems, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"items": items}, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *foodHandler) GetFinishedItems(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	items, err := h.foodService.ListFinished(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedGetFinishedItems, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"items": items}, fiber.StatusOK, domain.MessageSuccessGetFinishedItems)
}

func (h *foodHandler) GetExpiringSummary(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	summary, err := h.foodService.GetExpiringSummary(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedGetExpiringSummary, err)
	}

	return presenters.SuccessResponse(c, summary, fiber.StatusOK, domain.MessageSuccessGetExpiringSummary)
}

func (h *foodHandler) MarkFinished(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if err := h.foodService.MarkFinished(c.Context(), itemID, userID); err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedMarkFinished, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMarkFinished)
}

func (h *foodHandler) RestoreFoodItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if err := h.foodService.RestoreFoodItem(c.Context(), itemID, userID); err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedRestoreFoodItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRestoreFoodItem)
}

func (h *foodHandler) DeleteFoodItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if err := h.foodService.DeleteFoodItem(c.Context(), itemID, userID); err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedDeleteFoodItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteFoodItem)
}

func (h *foodHandler) UploadItemPhoto(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UploadItemPhotoRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req.Photo = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadItemPhoto, err)
	}

	if err := h.foodService.UploadItemPhoto(c.Context(), *req, userID); err != nil {
		return presenters.ErrorResponse(c, errStatus(err), domain.MessageFailedUploadItemPhoto, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUploadItemPhoto)
}
