package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/httpresp"
	ucCatalog "github.com/BruksfildServices01/equipment-rental/internal/usecase/catalog"
)

// ======================================================
// HANDLER
// ======================================================

type CategoryHandler struct {
	catalog *ucCatalog.Usecase
}

func NewCategoryHandler(catalog *ucCatalog.Usecase) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

func (r CategoryRequest) input() ucCatalog.CategoryInput {
	return ucCatalog.CategoryInput{Name: r.Name, Description: r.Description}
}

// ======================================================
// CRUD
// ======================================================

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, cats)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	cat, err := h.catalog.CreateCategory(c.Request.Context(), actor(c), req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, "category created", cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	cat, err := h.catalog.UpdateCategory(c.Request.Context(), actor(c), id, req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "category updated", cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), actor(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "category deleted", nil)
}
