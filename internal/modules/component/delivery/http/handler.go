package handler

import (
	"net/http"

	"anoa.com/mediannsp/internal/middleware"
	"anoa.com/mediannsp/internal/modules/component/dto"
	component "anoa.com/mediannsp/internal/modules/component/service"
	commonDto "anoa.com/mediannsp/pkg/dto"
	"anoa.com/mediannsp/pkg/response"
	"github.com/gin-gonic/gin"
)

type ComponentHandler struct {
	service component.ComponentService
}

func NewComponentHandler(service component.ComponentService) *ComponentHandler {
	return &ComponentHandler{service: service}
}

func (h *ComponentHandler) List(c *gin.Context) {
	var query dto.ListComponentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page.Envelope("components"))
}

func (h *ComponentHandler) Get(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	found, err := h.service.Get(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *ComponentHandler) Create(c *gin.Context) {
	var req dto.CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ComponentHandler) Update(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	var req dto.UpdateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), uri.ID, req, middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ComponentHandler) Delete(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Component deleted successfully")
}
