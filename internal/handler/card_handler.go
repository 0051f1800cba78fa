package handler

import (
	"github.com/labstack/echo/v4"

	"mesto/internal/middleware"
	"mesto/internal/service"
)

// CardHandler handles card endpoints.
type CardHandler struct {
	cardService service.CardService
}

// NewCardHandler creates a new card handler.
func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CreateCardRequest represents a new card.
type CreateCardRequest struct {
	Name string `json:"name" validate:"required,min=2,max=30"`
	Link string `json:"link" validate:"required,link"`
}

// CardIDRequest carries the :id path parameter.
type CardIDRequest struct {
	ID string `param:"id" validate:"required,objectid"`
}

// List godoc
// @Summary List all cards
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DataResponse{data=[]model.Card}
// @Failure 401 {object} errors.ErrorResponse
// @Router /cards [get]
func (h *CardHandler) List(c echo.Context) error {
	cards, err := h.cardService.ListCards(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, cards)
}

// Create godoc
// @Summary Create a card
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCardRequest true "Card data"
// @Success 200 {object} DataResponse{data=model.Card}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cards [post]
func (h *CardHandler) Create(c echo.Context) error {
	var req CreateCardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	card, err := h.cardService.CreateCard(c.Request().Context(), middleware.UserID(c), req.Name, req.Link)
	if err != nil {
		return err
	}
	return ok(c, card)
}

// Delete godoc
// @Summary Delete an owned card
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} DataResponse{data=model.Card}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id} [delete]
func (h *CardHandler) Delete(c echo.Context) error {
	var req CardIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	card, err := h.cardService.DeleteCard(c.Request().Context(), req.ID, middleware.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, card)
}

// Like godoc
// @Summary Like a card
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} DataResponse{data=model.Card}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id}/likes [put]
func (h *CardHandler) Like(c echo.Context) error {
	var req CardIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	card, err := h.cardService.LikeCard(c.Request().Context(), req.ID, middleware.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, card)
}

// Unlike godoc
// @Summary Remove a like
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} DataResponse{data=model.Card}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id}/likes [delete]
func (h *CardHandler) Unlike(c echo.Context) error {
	var req CardIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	card, err := h.cardService.UnlikeCard(c.Request().Context(), req.ID, middleware.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, card)
}
