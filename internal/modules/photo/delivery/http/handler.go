package handler

import (
	"errors"
	"net/http"

	"anoa.com/mediannsp/internal/middleware"
	"anoa.com/mediannsp/internal/modules/photo/dto"
	photo "anoa.com/mediannsp/internal/modules/photo/service"
	commonDto "anoa.com/mediannsp/pkg/dto"
	"anoa.com/mediannsp/pkg/response"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is allowed on top of the file limit for form fields and boundaries.
const multipartOverhead = 1 << 20

type PhotoHandler struct {
	service       photo.PhotoService
	maxUploadSize int64
}

func NewPhotoHandler(service photo.PhotoService, maxUploadSize int64) *PhotoHandler {
	return &PhotoHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *PhotoHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartOverhead)

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, photo.ErrFileTooLarge(h.maxUploadSize))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No photo file provided"})
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		response.Error(c, photo.ErrFileTooLarge(h.maxUploadSize))
		return
	}

	var form dto.UploadPhotoForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Entity type and entity ID are required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	created, err := h.service.Upload(c.Request.Context(), photo.Upload{
		EntityType: form.EntityType,
		EntityID:   form.EntityID,
		FileName:   fileHeader.Filename,
		Reader:     file,
		UploadedBy: middleware.CurrentUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *PhotoHandler) ListByEntity(c *gin.Context) {
	var uri dto.EntityPhotosURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid entity ID is required"})
		return
	}

	photos, err := h.service.ListByEntity(c.Request.Context(), uri.EntityType, uri.EntityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// File streams the stored image.
func (h *PhotoHandler) File(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	p, f, err := h.service.Open(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	if p.MimeType != "" {
		c.Header("Content-Type", p.MimeType)
	}
	http.ServeContent(c.Writer, c.Request, p.FileName, info.ModTime(), f)
}

func (h *PhotoHandler) SetPrimary(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	updated, err := h.service.SetPrimary(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	var uri commonDto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Photo deleted successfully")
}
