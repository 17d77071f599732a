package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apptenant "github.com/storefront/backend/internal/application/tenant"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ViewOnlyHandler reads and toggles the per-device view-only override
type ViewOnlyHandler struct {
	BaseHandler
	tenants *apptenant.Service
}

// NewViewOnlyHandler creates a view-only handler
func NewViewOnlyHandler(tenants *apptenant.Service) *ViewOnlyHandler {
	return &ViewOnlyHandler{tenants: tenants}
}

// Get godoc
// @Summary      Get the device view-only flag
// @Tags         view-only
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.ViewOnlyResponse}
// @Router       /view-only [get]
func (h *ViewOnlyHandler) Get(c *gin.Context) {
	deviceID := middleware.GetSessionID(c)
	if deviceID == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeNoSession, "Session unavailable")
		return
	}
	h.Success(c, dto.ViewOnlyResponse{
		DeviceID: deviceID,
		Enabled:  h.tenants.ViewOnly(c.Request.Context(), deviceID),
	})
}

// Set godoc
// @Summary      Toggle the device view-only flag
// @Description  Every open view of the device is notified over the view-only stream
// @Tags         view-only
// @Accept       json
// @Produce      json
// @Param        request body dto.SetViewOnlyRequest true "Flag"
// @Success      200 {object} dto.Response{data=dto.ViewOnlyResponse}
// @Failure      503 {object} dto.Response
// @Router       /view-only [put]
func (h *ViewOnlyHandler) Set(c *gin.Context) {
	var req dto.SetViewOnlyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	deviceID := middleware.GetSessionID(c)
	if err := h.tenants.SetViewOnly(c.Request.Context(), deviceID, *req.Enabled); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.ViewOnlyResponse{DeviceID: deviceID, Enabled: *req.Enabled})
}
