package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/equipment-rental/internal/domain/catalog"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/httpresp"
	"github.com/BruksfildServices01/equipment-rental/internal/media"
	ucCatalog "github.com/BruksfildServices01/equipment-rental/internal/usecase/catalog"
)

// ======================================================
// HANDLER
// ======================================================

type EquipmentHandler struct {
	catalog *ucCatalog.Usecase
}

func NewEquipmentHandler(catalog *ucCatalog.Usecase) *EquipmentHandler {
	return &EquipmentHandler{catalog: catalog}
}

// ======================================================
// REQUESTS
// ======================================================

type EquipmentRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	CategoryID  *uint  `json:"category_id"`
	Condition   string `json:"condition" binding:"omitempty,condition"`
	Stock       *int   `json:"stock" binding:"omitempty,gte=0"`
	DailyRate   *int64 `json:"daily_rate" binding:"omitempty,gte=0"`
	Description string `json:"description"`
}

func (r EquipmentRequest) input() ucCatalog.EquipmentInput {
	return ucCatalog.EquipmentInput{
		Name:        r.Name,
		CategoryID:  r.CategoryID,
		Condition:   r.Condition,
		Stock:       r.Stock,
		DailyRate:   r.DailyRate,
		Description: r.Description,
	}
}

type EquipmentQuery struct {
	CategoryID uint   `form:"category_id"`
	Condition  string `form:"condition"`
	Status     string `form:"status"`
	Query      string `form:"q"`
}

// ======================================================
// READ
// ======================================================

// List shows borrowers only lendable items; staff and admins see everything.
func (h *EquipmentHandler) List(c *gin.Context) {
	var q EquipmentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	items, err := h.catalog.ListEquipment(c.Request.Context(), actor(c), domain.EquipmentFilter{
		CategoryID: q.CategoryID,
		Condition:  q.Condition,
		Status:     q.Status,
		Query:      q.Query,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, items)
}

func (h *EquipmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	item, err := h.catalog.GetEquipment(c.Request.Context(), actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, item)
}

// ======================================================
// WRITE
// ======================================================

func (h *EquipmentHandler) Create(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	item, err := h.catalog.CreateEquipment(c.Request.Context(), actor(c), req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, "equipment created", item)
}

func (h *EquipmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	item, err := h.catalog.UpdateEquipment(c.Request.Context(), actor(c), id, req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "equipment updated", item)
}

func (h *EquipmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteEquipment(c.Request.Context(), actor(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "equipment deleted", nil)
}

// UploadImage takes a multipart "image" field.
func (h *EquipmentHandler) UploadImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadBytes)

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "image_required", "multipart field image is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "image_required", "uploaded image could not be read")
		return
	}
	defer f.Close()

	item, err := h.catalog.UploadImage(c.Request.Context(), actor(c), id, f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "image uploaded", item)
}
