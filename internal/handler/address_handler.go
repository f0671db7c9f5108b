package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vendora/internal/domain/address"
	"vendora/internal/services"
	"vendora/internal/transport/httpdto"
)

type AddressHandler struct {
	service *services.AddressService
}

func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

func (h *AddressHandler) Create(c *gin.Context) {
	var req httpdto.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	a, err := h.service.Create(c.Request.Context(), id.UserID, services.CreateAddressInput{
		Label:      req.Label,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromAddress(a)))
}

func (h *AddressHandler) List(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	addresses, err := h.service.List(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := httpdto.ListAddressesResponse{}
	for _, a := range addresses {
		resp.Items = append(resp.Items, httpdto.FromAddress(a))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(resp))
}

func (h *AddressHandler) Get(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid address id", "INVALID_REQUEST"))
		return
	}

	a, err := h.service.Get(c.Request.Context(), id.UserID, addressID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromAddress(a)))
}

func (h *AddressHandler) SetDefault(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid address id", "INVALID_REQUEST"))
		return
	}

	a, err := h.service.SetDefault(c.Request.Context(), id.UserID, addressID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromAddress(a)))
}

func (h *AddressHandler) Delete(c *gin.Context) {
	id, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid address id", "INVALID_REQUEST"))
		return
	}

	// The body is optional: only a default with siblings needs a policy.
	var req httpdto.DeleteAddressRequest
	_ = c.ShouldBindJSON(&req)

	policy := address.ReplacementPolicy{PromoteNewest: req.PromoteNewest}
	if req.ReplacementID != "" {
		replacementID, err := uuid.Parse(req.ReplacementID)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid replacement id", "INVALID_REQUEST"))
			return
		}
		policy.ReplacementID = uuid.NullUUID{UUID: replacementID, Valid: true}
	}

	if err := h.service.DeleteWithReassignment(c.Request.Context(), id.UserID, addressID, policy); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
