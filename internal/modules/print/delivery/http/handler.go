package handler

import (
	"net/http"

	"anoa.com/mediannsp/internal/middleware"
	"anoa.com/mediannsp/internal/modules/print/dto"
	printing "anoa.com/mediannsp/internal/modules/print/service"
	commonDto "anoa.com/mediannsp/pkg/dto"
	"anoa.com/mediannsp/pkg/response"
	"github.com/gin-gonic/gin"
)

type PrintHandler struct {
	service printing.PrintService
}

func NewPrintHandler(service printing.PrintService) *PrintHandler {
	return &PrintHandler{service: service}
}

func printedBy(c *gin.Context) string {
	if user := middleware.CurrentUser(c); user != nil {
		return user.Username
	}
	return ""
}

func (h *PrintHandler) Device(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	doc, err := h.service.Device(c.Request.Context(), uri.ID, printedBy(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *PrintHandler) Component(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	doc, err := h.service.Component(c.Request.Context(), uri.ID, printedBy(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *PrintHandler) Batch(c *gin.Context) {
	var req dto.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, printing.ErrBatchRequest)
		return
	}

	doc, err := h.service.Batch(c.Request.Context(), req, printedBy(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *PrintHandler) Register(rg gin.IRoutes) {
	rg.GET("/device/:id", h.Device)
	rg.POST("/batch", h.Batch)
	rg.GET("/component/:id", h.Component)
}
