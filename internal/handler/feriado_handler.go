package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justicia-digital/procesos-api/internal/service"
	appErrors "github.com/justicia-digital/procesos-api/pkg/errors"
	"github.com/justicia-digital/procesos-api/pkg/response"
)

// FeriadoHandler manages the court-holiday calendar.
type FeriadoHandler struct {
	calendario *service.CalendarioService
}

// NewFeriadoHandler constructs FeriadoHandler.
func NewFeriadoHandler(calendario *service.CalendarioService) *FeriadoHandler {
	return &FeriadoHandler{calendario: calendario}
}

// List godoc
// @Summary List registered court holidays
// @Tags Feriados
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /feriados [get]
func (h *FeriadoHandler) List(c *gin.Context) {
	feriados, err := h.calendario.Feriados(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feriados, nil)
}

// FeriadoRequest registers one court holiday.
type FeriadoRequest struct {
	Fecha       string `json:"fecha" binding:"required"`
	Descripcion string `json:"descripcion" binding:"required"`
}

// Create godoc
// @Summary Register a court holiday
// @Tags Feriados
// @Accept json
// @Produce json
// @Param payload body FeriadoRequest true "Holiday payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /feriados [post]
func (h *FeriadoHandler) Create(c *gin.Context) {
	var req FeriadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "fecha must use YYYY-MM-DD"))
		return
	}
	feriado, err := h.calendario.RegistrarFeriado(c.Request.Context(), fecha, req.Descripcion)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, feriado)
}

// Delete godoc
// @Summary Remove a court holiday
// @Tags Feriados
// @Produce json
// @Param id path string true "Holiday ID"
// @Success 204 {object} response.Envelope
// @Router /feriados/{id} [delete]
func (h *FeriadoHandler) Delete(c *gin.Context) {
	if err := h.calendario.EliminarFeriado(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
