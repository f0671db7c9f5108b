package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vendora/internal/domain/draft"
	"vendora/internal/services"
	"vendora/internal/transport/httpdto"
)

type DraftHandler struct {
	service *services.DraftService
}

func NewDraftHandler(service *services.DraftService) *DraftHandler {
	return &DraftHandler{service: service}
}

func (h *DraftHandler) Create(c *gin.Context) {
	var req httpdto.DraftPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	payload, err := payloadFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid category id", "INVALID_REQUEST"))
		return
	}

	d, err := h.service.Create(c.Request.Context(), id.UserID, payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromDraft(d)))
}

func (h *DraftHandler) Get(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid draft id", "INVALID_REQUEST"))
		return
	}

	d, err := h.service.Get(c.Request.Context(), draftID, id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromDraft(d)))
}

func (h *DraftHandler) List(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, total, err := h.service.ListBySeller(c.Request.Context(), id.UserID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := httpdto.ListDraftsResponse{Total: total}
	for _, d := range items {
		resp.Items = append(resp.Items, httpdto.FromDraft(d))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(resp))
}

func (h *DraftHandler) Update(c *gin.Context) {
	var req httpdto.DraftPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid draft id", "INVALID_REQUEST"))
		return
	}

	payload, err := payloadFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid category id", "INVALID_REQUEST"))
		return
	}

	d, err := h.service.Update(c.Request.Context(), draftID, id.UserID, payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromDraft(d)))
}

func (h *DraftHandler) Submit(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid draft id", "INVALID_REQUEST"))
		return
	}

	d, err := h.service.Submit(c.Request.Context(), draftID, id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromDraft(d)))
}

func (h *DraftHandler) Delete(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid draft id", "INVALID_REQUEST"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), draftID, id.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func payloadFromRequest(req httpdto.DraftPayloadRequest) (draft.Payload, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return draft.Payload{}, err
	}
	payload := draft.Payload{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  categoryID,
		Price:       req.Price,
	}
	for _, img := range req.Images {
		payload.Images = append(payload.Images, draft.Image{URL: img.URL, Position: img.Position})
	}
	for _, v := range req.Variants {
		payload.Variants = append(payload.Variants, draft.Variant{Color: v.Color, Size: v.Size, Price: v.Price, Stock: v.Stock})
	}
	return payload, nil
}
