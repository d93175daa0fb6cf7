// Package httpapi exposes the authority's REST surface over gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shopmedia/internal/common"
	"shopmedia/internal/logging"
	"shopmedia/internal/server/models"
	"shopmedia/internal/server/services"
)

// MediaAPI is the service surface the handlers call.
type MediaAPI interface {
	NegotiateUploads(ctx context.Context, productID string, descriptors []services.ImageDescriptor) ([]services.UploadGrant, error)
	UpdateProduct(ctx context.Context, productID string, title, description *string, priceCents *int64) error
	DeleteImages(ctx context.Context, productID string, imageIDs []string) error
	CompleteImage(ctx context.Context, imageID string) error
	ListImages(ctx context.Context, productID string) ([]*models.ProductImage, map[string]string, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	media  MediaAPI
	logger logging.Logger
}

func NewServer(media MediaAPI, logger logging.Logger) *Server {
	return &Server{media: media, logger: logger}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	api := r.Group("/api")
	{
		api.POST("/products/:id/images/negotiate", s.negotiateUploads)
		api.DELETE("/products/:id/images", s.deleteImages)
		api.GET("/products/:id/images", s.listImages)
		api.PUT("/products/:id", s.updateProduct)
		api.POST("/images/:id/complete", s.completeImage)
	}

	return r
}

type fileDescriptorDTO struct {
	CorrelationID string `json:"correlation_id" binding:"required"`
	Name          string `json:"name" binding:"required"`
	MediaType     string `json:"media_type" binding:"required"`
	Size          int64  `json:"size" binding:"required"`
	DigestSHA256  string `json:"sha256" binding:"required"`
}

type negotiateRequestDTO struct {
	Files []fileDescriptorDTO `json:"files" binding:"required,min=1"`
}

type permissionDTO struct {
	CorrelationID string `json:"correlation_id"`
	ImageID       string `json:"image_id"`
	UploadURL     string `json:"upload_url"`
	StoredURL     string `json:"stored_url"`
}

type negotiateResponseDTO struct {
	Permissions []permissionDTO `json:"permissions"`
}

func (s *Server) negotiateUploads(c *gin.Context) {
	var req negotiateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	descriptors := make([]services.ImageDescriptor, len(req.Files))
	for i, f := range req.Files {
		descriptors[i] = services.ImageDescriptor{
			CorrelationID: f.CorrelationID,
			Name:          f.Name,
			MediaType:     f.MediaType,
			Size:          f.Size,
			DigestSHA256:  f.DigestSHA256,
		}
	}

	grants, err := s.media.NegotiateUploads(c.Request.Context(), c.Param("id"), descriptors)
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := negotiateResponseDTO{Permissions: make([]permissionDTO, len(grants))}
	for i, g := range grants {
		resp.Permissions[i] = permissionDTO{
			CorrelationID: g.CorrelationID,
			ImageID:       g.ImageID,
			UploadURL:     g.UploadURL,
			StoredURL:     g.StoredURL,
		}
	}
	c.JSON(http.StatusOK, resp)
}

type deleteImagesRequestDTO struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func (s *Server) deleteImages(c *gin.Context) {
	var req deleteImagesRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.media.DeleteImages(c.Request.Context(), c.Param("id"), req.IDs); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateProductRequestDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
}

func (s *Server) updateProduct(c *gin.Context) {
	var req updateProductRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.media.UpdateProduct(c.Request.Context(), c.Param("id"), req.Title, req.Description, req.PriceCents)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) completeImage(c *gin.Context) {
	if err := s.media.CompleteImage(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type imageDTO struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	URL       string `json:"url"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
}

type listImagesResponseDTO struct {
	Images []imageDTO `json:"images"`
}

func (s *Server) listImages(c *gin.Context) {
	imgs, urls, err := s.media.ListImages(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := listImagesResponseDTO{Images: make([]imageDTO, len(imgs))}
	for i, img := range imgs {
		resp.Images[i] = imageDTO{
			ID:        img.ID,
			ProductID: img.ProductID,
			URL:       urls[img.ID],
			Name:      img.FileName,
			MediaType: img.MediaType,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrTooManyImages):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
