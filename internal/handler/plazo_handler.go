package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justicia-digital/procesos-api/internal/service"
	"github.com/justicia-digital/procesos-api/pkg/response"
)

// PlazoHandler exposes deadline endpoints.
type PlazoHandler struct {
	plazos *service.PlazoService
}

// NewPlazoHandler constructs PlazoHandler.
func NewPlazoHandler(plazos *service.PlazoService) *PlazoHandler {
	return &PlazoHandler{plazos: plazos}
}

// Activos godoc
// @Summary List active deadlines of a case, most urgent first
// @Tags Plazos
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Envelope
// @Router /procesos/{id}/plazos [get]
func (h *PlazoHandler) Activos(c *gin.Context) {
	plazos, err := h.plazos.Activos(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plazos, nil)
}

// MasUrgente godoc
// @Summary Next deadline to expire on a case
// @Tags Plazos
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Envelope
// @Router /procesos/{id}/plazos/urgente [get]
func (h *PlazoHandler) MasUrgente(c *gin.Context) {
	plazo, err := h.plazos.MasUrgente(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plazo, nil)
}

// MarcarCumplido godoc
// @Summary Mark a deadline as fulfilled
// @Tags Plazos
// @Produce json
// @Param id path string true "Deadline ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /plazos/{id}/cumplir [post]
func (h *PlazoHandler) MarcarCumplido(c *gin.Context) {
	plazo, err := h.plazos.MarcarCumplido(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plazo, nil)
}

// Sweep godoc
// @Summary Run the deadline alert sweep on demand
// @Description Reviews every active deadline, expiring the overdue ones and
// emitting approaching-due alerts. Safe to call repeatedly.
// @Tags Plazos
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /plazos/sweep [post]
func (h *PlazoHandler) Sweep(c *gin.Context) {
	result, err := h.plazos.Sweep(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
