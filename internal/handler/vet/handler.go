package vet

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/patitas/vets-api/internal/handler"
	"github.com/patitas/vets-api/internal/middleware"
	"github.com/patitas/vets-api/internal/model"
	vetService "github.com/patitas/vets-api/internal/service/vet"
)

type Handler struct {
	service vetService.VetServicer
}

func NewHandler(service vetService.VetServicer) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public read surface and the owner-only
// write surface. The protected group carries authentication and the
// VET_OWNER role gate.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	vets := public.Group("/vets")
	{
		vets.GET("", h.SearchVets)
		vets.GET("/:id", h.GetVet)
	}

	owned := protected.Group("/vets")
	{
		owned.POST("", h.RegisterVet)
		owned.PATCH("/:id", h.AmendVet)
	}
}

type searchVetsQuery struct {
	Lat       *float64 `form:"lat" binding:"required,latitude"`
	Lon       *float64 `form:"lon" binding:"required,longitude"`
	RadiusKm  int      `form:"radiusKm,default=5" binding:"min=1"`
	ServiceID *int     `form:"serviceId"`
	OpenNow   bool     `form:"openNow,default=false"`
}

func (h *Handler) SearchVets(c *gin.Context) {
	var query searchVetsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	results, err := h.service.Search(c.Request.Context(), vetService.SearchParams{
		Latitude:  *query.Lat,
		Longitude: *query.Lon,
		RadiusKm:  query.RadiusKm,
		ServiceID: query.ServiceID,
		OpenNow:   query.OpenNow,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(results))
}

func (h *Handler) GetVet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid vet ID"))
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(detail))
}

type openingTimeRequest struct {
	DayOfWeekID int    `json:"dayOfWeekId" binding:"required,min=1,max=7"`
	StartTime   string `json:"startTime" binding:"required,hhmm"`
	EndTime     string `json:"endTime" binding:"required,hhmm"`
}

type registerVetRequest struct {
	Name          string               `json:"name" binding:"required"`
	Address       string               `json:"address" binding:"required"`
	Phone         *string              `json:"phone"`
	Email         *string              `json:"email" binding:"omitempty,email"`
	Description   *string              `json:"description"`
	GoogleMapsURL *string              `json:"googleMapsUrl" binding:"omitempty,url"`
	CommuneID     int                  `json:"communeId" binding:"required"`
	Latitude      *float64             `json:"latitude" binding:"required,latitude"`
	Longitude     *float64             `json:"longitude" binding:"required,longitude"`
	ServiceIDs    []int                `json:"serviceIds" binding:"required,min=1"`
	OpeningTimes  []openingTimeRequest `json:"openingTimes" binding:"required,min=1,dive"`
}

func (h *Handler) RegisterVet(c *gin.Context) {
	var req registerVetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ownerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caller identity"))
		return
	}

	intervals := make([]model.OpeningInterval, 0, len(req.OpeningTimes))
	for _, ot := range req.OpeningTimes {
		start, err := model.ParseTimeOfDay(ot.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
		end, err := model.ParseTimeOfDay(ot.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
		intervals = append(intervals, model.OpeningInterval{
			DayOfWeekID: ot.DayOfWeekID,
			StartTime:   start,
			EndTime:     end,
		})
	}

	created, err := h.service.Register(c.Request.Context(), ownerID, vetService.RegisterInput{
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		Description:   req.Description,
		GoogleMapsURL: req.GoogleMapsURL,
		CommuneID:     req.CommuneID,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		ServiceIDs:    req.ServiceIDs,
		OpeningTimes:  intervals,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

type amendVetRequest struct {
	Name          *string  `json:"name"`
	Address       *string  `json:"address"`
	Phone         *string  `json:"phone"`
	Email         *string  `json:"email" binding:"omitempty,email"`
	Description   *string  `json:"description"`
	GoogleMapsURL *string  `json:"googleMapsUrl" binding:"omitempty,url"`
	CommuneID     *int     `json:"communeId"`
	Latitude      *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude" binding:"omitempty,longitude"`
}

func (h *Handler) AmendVet(c *gin.Context) {
	vetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid vet ID"))
		return
	}

	var req amendVetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ownerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caller identity"))
		return
	}

	updated, err := h.service.Amend(c.Request.Context(), ownerID, vetID, model.VetUpdate{
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		Description:   req.Description,
		GoogleMapsURL: req.GoogleMapsURL,
		CommuneID:     req.CommuneID,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}
