package handler

import (
	"net/http"

	"anoa.com/mediannsp/internal/middleware"
	"anoa.com/mediannsp/internal/modules/device/dto"
	device "anoa.com/mediannsp/internal/modules/device/service"
	commonDto "anoa.com/mediannsp/pkg/dto"
	"anoa.com/mediannsp/pkg/response"
	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	service device.DeviceService
}

func NewDeviceHandler(service device.DeviceService) *DeviceHandler {
	return &DeviceHandler{service: service}
}

func (h *DeviceHandler) List(c *gin.Context) {
	var query dto.ListDevicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page.Envelope("devices"))
}

func (h *DeviceHandler) Get(c *gin.Context) {
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

func (h *DeviceHandler) Create(c *gin.Context) {
	var req dto.CreateDeviceRequest
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

func (h *DeviceHandler) Update(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	var req dto.UpdateDeviceRequest
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

func (h *DeviceHandler) Delete(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Device deleted successfully")
}

func (h *DeviceHandler) ListComponents(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	components, err := h.service.ListComponents(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, components)
}

func (h *DeviceHandler) AddComponent(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	var req dto.AddComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	link, err := h.service.AddComponent(c.Request.Context(), uri.ID, req.ComponentID, middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *DeviceHandler) RemoveComponent(c *gin.Context) {
	var uri dto.DeviceComponentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.RemoveComponent(c.Request.Context(), uri.ID, uri.ComponentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Component removed from device successfully")
}
