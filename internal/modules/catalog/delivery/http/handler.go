package handler

import (
	"net/http"

	"anoa.com/mediannsp/internal/modules/catalog/dto"
	"anoa.com/mediannsp/internal/modules/catalog/repository"
	catalog "anoa.com/mediannsp/internal/modules/catalog/service"
	commonDto "anoa.com/mediannsp/pkg/dto"
	"anoa.com/mediannsp/pkg/response"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves one reference-data collection such as roles or device types.
type CatalogHandler[T repository.Item] struct {
	service    catalog.CatalogService[T]
	label      string
	collection string
}

// NewCatalogHandler wires the handler; collection is the list key, e.g. "device_types".
func NewCatalogHandler[T repository.Item](service catalog.CatalogService[T], label, collection string) *CatalogHandler[T] {
	return &CatalogHandler[T]{service: service, label: label, collection: collection}
}

func (h *CatalogHandler[T]) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{h.collection: items})
}

func (h *CatalogHandler[T]) Get(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	item, err := h.service.Get(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler[T]) Create(c *gin.Context) {
	var req dto.CreateCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler[T]) Update(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	var req dto.UpdateCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, h.label+" deleted successfully")
}

// Register mounts read routes on read and write routes on write.
func (h *CatalogHandler[T]) Register(read, write gin.IRoutes) {
	read.GET("", h.List)
	read.GET("/:id", h.Get)
	write.POST("", h.Create)
	write.PUT("/:id", h.Update)
	write.DELETE("/:id", h.Delete)
}
