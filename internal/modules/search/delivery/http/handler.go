package handler

import (
	"net/http"

	"anoa.com/mediannsp/internal/modules/search/dto"
	search "anoa.com/mediannsp/internal/modules/search/service"
	"anoa.com/mediannsp/pkg/response"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.SearchService
}

func NewSearchHandler(service search.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := h.service.Search(c.Request.Context(), q.Query, search.Criteria{
		EntityType: q.EntityType,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page.Envelope("results"))
}

func (h *SearchHandler) Advanced(c *gin.Context) {
	var req dto.AdvancedSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := h.service.Advanced(c.Request.Context(), search.Criteria{
		EntityType:      req.EntityType,
		Search:          req.Filters.Search,
		DeviceTypeID:    req.Filters.DeviceTypeID,
		ComponentTypeID: req.Filters.ComponentTypeID,
		Status:          req.Filters.Status,
		Location:        req.Filters.Location,
		Page:            req.Page,
		Limit:           req.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page.Envelope("results"))
}

func (h *SearchHandler) Register(rg gin.IRoutes) {
	rg.GET("", h.Search)
	rg.POST("/advanced", h.Advanced)
}
