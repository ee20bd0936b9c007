package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patitas/vets-api/internal/handler"
	catalogService "github.com/patitas/vets-api/internal/service/catalog"
)

type Handler struct {
	service catalogService.CatalogServicer
}

func NewHandler(service catalogService.CatalogServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	catalog := r.Group("/catalog")
	{
		catalog.GET("/vet-services", h.ListServices)
		catalog.GET("/communes", h.ListCommunes)
		catalog.GET("/days-of-week", h.ListDaysOfWeek)
	}
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to list services"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) ListCommunes(c *gin.Context) {
	communes, err := h.service.ListCommunes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to list communes"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(communes))
}

func (h *Handler) ListDaysOfWeek(c *gin.Context) {
	days, err := h.service.ListDaysOfWeek(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to list days of week"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(days))
}
