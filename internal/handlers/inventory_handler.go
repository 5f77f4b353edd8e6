package handlers

import (
	"net/http"

	"jobboard_backend/internal/dto"
	"jobboard_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	*BaseHandler
	inventoryService services.InventoryService
}

func NewInventoryHandler(base *BaseHandler, inventoryService services.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler:      base,
		inventoryService: inventoryService,
	}
}

func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup, authMw gin.HandlerFunc) {
	items := rg.Group("/inventory/items")
	{
		items.GET("", h.List)
		items.GET("/:id", h.Get)
		items.POST("", authMw, h.Create)
		items.PUT("/:id", authMw, h.Update)
		items.DELETE("/:id", authMw, h.Delete)
	}
}

// List godoc
// @Summary Список позиций склада
// @Tags inventory
// @Produce json
// @Success 200 {array} models.InventoryItem
// @Router /inventory/items [get]
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventoryService.List(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Позиция склада
// @Tags inventory
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.InventoryItem
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /inventory/items/{id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	item, err := h.inventoryService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create godoc
// @Summary Добавить позицию
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InventoryItemRequest true "Позиция"
// @Success 201 {object} models.InventoryItem
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /inventory/items [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.InventoryItemRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	item, err := h.inventoryService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update godoc
// @Summary Обновить позицию
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body dto.InventoryItemRequest true "Позиция"
// @Success 200 {object} models.InventoryItem
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /inventory/items/{id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.InventoryItemRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	item, err := h.inventoryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Удалить позицию
// @Tags inventory
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /inventory/items/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.inventoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
