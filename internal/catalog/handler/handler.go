package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quotation_backend/internal/catalog/cache"
	"quotation_backend/internal/catalog/repository"
	"quotation_backend/internal/catalog/service"
	"quotation_backend/internal/catalog/transport"
	"quotation_backend/platform/httpkit"
	"quotation_backend/platform/validator"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc   *service.Service
	lists *cache.ListCache
	val   *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid catalog ID"
)

// New creates a new catalog handler.
func New(svc *service.Service, lists *cache.ListCache, val *validator.Validator) *Handler {
	return &Handler{svc: svc, lists: lists, val: val}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

// ── Categories ───────────────────────────────────────────────────────────────

// ListCategories retrieves all categories (public, cached).
// GET /api/v1/catalog/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.lists.Categories(c.Request.Context(), func(ctx context.Context) ([]repository.Category, error) {
		return h.svc.ListCategories(ctx)
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCategoryResponses(categories))
}

// GetCategory retrieves a category by ID.
// GET /api/v1/catalog/categories/:id
func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cat, err := h.svc.GetCategory(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCategoryResponse(cat))
}

// CreateCategory creates a category (admin only).
// POST /api/v1/admin/catalog/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var req transport.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err)
		return
	}

	cat, err := h.svc.CreateCategory(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToCategoryResponse(cat))
}

// UpdateCategory updates a category (admin only).
// PATCH /api/v1/admin/catalog/categories/:id
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err)
		return
	}

	cat, err := h.svc.UpdateCategory(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCategoryResponse(cat))
}

// DeleteCategory deletes a category (admin only).
// DELETE /api/v1/admin/catalog/categories/:id
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteCategory(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Item details ─────────────────────────────────────────────────────────────

// ListItemDetails retrieves item details, optionally filtered by
// environment (public, cached).
// GET /api/v1/catalog/item-details?environment=Cloud
func (h *Handler) ListItemDetails(c *gin.Context) {
	var req transport.ListItemDetailsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err)
		return
	}

	details, err := h.lists.ItemDetails(c.Request.Context(), req.Environment, func(ctx context.Context) ([]repository.ItemDetail, error) {
		return h.svc.ListItemDetails(ctx, req.Environment)
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToItemDetailResponses(details))
}

// GetItemDetail retrieves an item detail by ID.
// GET /api/v1/catalog/item-details/:id
func (h *Handler) GetItemDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	detail, err := h.svc.GetItemDetail(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToItemDetailResponse(detail))
}

// CreateItemDetail creates an item detail (admin only).
// POST /api/v1/admin/catalog/item-details
func (h *Handler) CreateItemDetail(c *gin.Context) {
	var req transport.CreateItemDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err)
		return
	}

	detail, err := h.svc.CreateItemDetail(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToItemDetailResponse(detail))
}

// UpdateItemDetail updates an item detail (admin only).
// PATCH /api/v1/admin/catalog/item-details/:id
func (h *Handler) UpdateItemDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateItemDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err)
		return
	}

	detail, err := h.svc.UpdateItemDetail(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToItemDetailResponse(detail))
}

// DeleteItemDetail deletes an item detail (admin only).
// DELETE /api/v1/admin/catalog/item-details/:id
func (h *Handler) DeleteItemDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteItemDetail(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Devices ──────────────────────────────────────────────────────────────────

// ListDevices retrieves devices, optionally filtered by category.
// GET /api/v1/catalog/devices?categoryId=...
func (h *Handler) ListDevices(c *gin.Context) {
	categoryID, ok := parseOptionalCategoryID(c)
	if !ok {
		return
	}
	devices, err := h.svc.ListDevices(c.Request.Context(), categoryID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToDeviceResponses(devices))
}

// GetDevice retrieves a device by ID.
// GET /api/v1/catalog/devices/:id
func (h *Handler) GetDevice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	device, err := h.svc.GetDevice(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToDeviceResponse(device))
}

// CreateDevice creates a device (admin only).
// POST /api/v1/admin/catalog/devices
func (h *Handler) CreateDevice(c *gin.Context) {
	var req transport.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err)
		return
	}

	device, err := h.svc.CreateDevice(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToDeviceResponse(device))
}

// UpdateDevice updates a device (admin only).
// PATCH /api/v1/admin/catalog/devices/:id
func (h *Handler) UpdateDevice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err)
		return
	}

	device, err := h.svc.UpdateDevice(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToDeviceResponse(device))
}

// DeleteDevice deletes a device (admin only).
// DELETE /api/v1/admin/catalog/devices/:id
func (h *Handler) DeleteDevice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteDevice(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Licenses ─────────────────────────────────────────────────────────────────

// ListLicenses retrieves licenses, optionally filtered by category.
// GET /api/v1/catalog/licenses?categoryId=...
func (h *Handler) ListLicenses(c *gin.Context) {
	categoryID, ok := parseOptionalCategoryID(c)
	if !ok {
		return
	}
	licenses, err := h.svc.ListLicenses(c.Request.Context(), categoryID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLicenseResponses(licenses))
}

// GetLicense retrieves a license by ID.
// GET /api/v1/catalog/licenses/:id
func (h *Handler) GetLicense(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	license, err := h.svc.GetLicense(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLicenseResponse(license))
}

// CreateLicense creates a license (admin only).
// POST /api/v1/admin/catalog/licenses
func (h *Handler) CreateLicense(c *gin.Context) {
	var req transport.CreateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err)
		return
	}

	license, err := h.svc.CreateLicense(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToLicenseResponse(license))
}

// UpdateLicense updates a license (admin only).
// PATCH /api/v1/admin/catalog/licenses/:id
func (h *Handler) UpdateLicense(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err)
		return
	}

	license, err := h.svc.UpdateLicense(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLicenseResponse(license))
}

// DeleteLicense deletes a license (admin only).
// DELETE /api/v1/admin/catalog/licenses/:id
func (h *Handler) DeleteLicense(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteLicense(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Cost servers ─────────────────────────────────────────────────────────────

// ListCostServers retrieves all cost servers.
// GET /api/v1/catalog/cost-servers
func (h *Handler) ListCostServers(c *gin.Context) {
	servers, err := h.svc.ListCostServers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCostServerResponses(servers))
}

// GetCostServer retrieves a cost server by ID.
// GET /api/v1/catalog/cost-servers/:id
func (h *Handler) GetCostServer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	server, err := h.svc.GetCostServer(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCostServerResponse(server))
}

// CreateCostServer creates a cost server (admin only).
// POST /api/v1/admin/catalog/cost-servers
func (h *Handler) CreateCostServer(c *gin.Context) {
	var req transport.CreateCostServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err)
		return
	}

	server, err := h.svc.CreateCostServer(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToCostServerResponse(server))
}

// UpdateCostServer updates a cost server (admin only).
// PATCH /api/v1/admin/catalog/cost-servers/:id
func (h *Handler) UpdateCostServer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateCostServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err)
		return
	}

	server, err := h.svc.UpdateCostServer(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToCostServerResponse(server))
}

// DeleteCostServer deletes a cost server (admin only).
// DELETE /api/v1/admin/catalog/cost-servers/:id
func (h *Handler) DeleteCostServer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteCostServer(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func parseOptionalCategoryID(c *gin.Context) (*uuid.UUID, bool) {
	var req transport.ListByCategoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return nil, false
	}
	if req.CategoryID == "" {
		return nil, true
	}
	id, err := uuid.Parse(req.CategoryID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid categoryId", nil)
		return nil, false
	}
	return &id, true
}
