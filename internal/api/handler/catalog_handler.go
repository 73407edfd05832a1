package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tell-platform/complaint-system/internal/api/response"
	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

// CatalogHandler serves categories, the complaint form lookup and the admin report.
type CatalogHandler struct {
	catalog ports.CatalogService
	reports ports.ReportService
}

func NewCatalogHandler(catalog ports.CatalogService, reports ports.ReportService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, reports: reports}
}

type categoryRequest struct {
	UserID string `json:"userId"`
	Title  string `json:"title" validate:"notblank,max=80"`
}

// ListCategories handles GET /categories.
//
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{result=[]domain.Category}
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return response.OK(c, http.StatusOK, categories, "Fetching categories success")
}

// CreateCategory handles POST /categories. Admin only.
//
// @Summary      Create a category
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  response.Envelope{result=domain.Category}
// @Failure      422   {object}  response.Envelope
// @Router       /categories [post]
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	category, err := h.catalog.CreateCategory(c.Request().Context(), req.Title)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, category, "Creation success")
}

// UpdateCategory handles PUT /categories/:userId/:categoryId. Admin only.
//
// @Summary      Rename a category
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId      path      string           true  "Admin id"
// @Param        categoryId  path      string           true  "Category id"
// @Param        body        body      categoryRequest  true  "New title"
// @Success      200         {object}  response.Envelope{result=domain.Category}
// @Failure      404         {object}  response.Envelope
// @Failure      422         {object}  response.Envelope
// @Router       /categories/{userId}/{categoryId} [put]
func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	var req categoryRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	category, err := h.catalog.UpdateCategory(c.Request().Context(), c.Param("categoryId"), req.Title)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, category, "Update success")
}

// DeleteCategory handles DELETE /categories/:userId/:categoryId. Admin only.
//
// @Summary      Delete a category
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        userId      path      string  true  "Admin id"
// @Param        categoryId  path      string  true  "Category id"
// @Success      200         {object}  response.Envelope
// @Failure      404         {object}  response.Envelope
// @Router       /categories/{userId}/{categoryId} [delete]
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	if err := h.catalog.DeleteCategory(c.Request().Context(), c.Param("categoryId")); err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, nil, "Delete success")
}

// Lookup handles GET /complaints/lookup.
//
// @Summary      Categories and authorities for the complaint form
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{result=domain.Lookup}
// @Router       /complaints/lookup [get]
func (h *CatalogHandler) Lookup(c echo.Context) error {
	lookup, err := h.catalog.Lookup(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, lookup, "Fetching categories and authorities success")
}

// Report handles GET /complaints/report/:userId. Admin only.
//
// @Summary      Aggregate complaint report
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Admin id"
// @Success      200     {object}  response.Envelope{result=domain.Report}
// @Router       /complaints/report/{userId} [get]
func (h *CatalogHandler) Report(c echo.Context) error {
	report, err := h.reports.Report(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, report, "Fetching report success")
}
