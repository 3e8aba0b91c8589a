package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justicia-digital/procesos-api/internal/models"
	"github.com/justicia-digital/procesos-api/internal/service"
	appErrors "github.com/justicia-digital/procesos-api/pkg/errors"
	"github.com/justicia-digital/procesos-api/pkg/response"
)

// ProcesoHandler exposes case lifecycle endpoints.
type ProcesoHandler struct {
	procesos *service.ProcesoService
}

// NewProcesoHandler constructs ProcesoHandler.
func NewProcesoHandler(procesos *service.ProcesoService) *ProcesoHandler {
	return &ProcesoHandler{procesos: procesos}
}

// Create godoc
// @Summary Register a new case
// @Tags Procesos
// @Accept json
// @Produce json
// @Param payload body service.CrearProcesoRequest true "Case payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /procesos [post]
func (h *ProcesoHandler) Create(c *gin.Context) {
	var req service.CrearProcesoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	proceso, err := h.procesos.Crear(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, proceso)
}

// Get godoc
// @Summary Get a case with its parties
// @Tags Procesos
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /procesos/{id} [get]
func (h *ProcesoHandler) Get(c *gin.Context) {
	proceso, err := h.procesos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proceso, nil)
}

// List godoc
// @Summary List cases
// @Tags Procesos
// @Produce json
// @Param estado query string false "Comma-separated states"
// @Param juezId query string false "Filter by judge"
// @Param nurej query string false "Filter by NUREJ"
// @Param parteId query string false "Filter by party account"
// @Param search query string false "Search in caratula"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /procesos [get]
func (h *ProcesoHandler) List(c *gin.Context) {
	var filter models.ProcesoFilter
	if raw := c.Query("estado"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			filter.Estado = append(filter.Estado, models.EstadoProceso(strings.ToUpper(strings.TrimSpace(e))))
		}
	}
	filter.JuezID = c.Query("juezId")
	filter.Nurej = c.Query("nurej")
	filter.ParteID = c.Query("parteId")
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	procesos, total, err := h.procesos.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, procesos, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// TransicionRequest names the target state of a transition. Motivo is
// optional; it travels with the change-of-state notice.
type TransicionRequest struct {
	Estado models.EstadoProceso `json:"estado" binding:"required"`
	Motivo string               `json:"motivo"`
}

// Transicionar godoc
// @Summary Move a case to a new procedural state
// @Tags Procesos
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body TransicionRequest true "Target state"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /procesos/{id}/transicion [post]
func (h *ProcesoHandler) Transicionar(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req TransicionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	proceso, err := h.procesos.Transicionar(c.Request.Context(), c.Param("id"), req.Estado, claims.UserID, claims.Role, req.Motivo)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proceso, nil)
}

// EstadosSiguientes godoc
// @Summary List the states the current user may move the case to
// @Tags Procesos
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /procesos/{id}/estados-siguientes [get]
func (h *ProcesoHandler) EstadosSiguientes(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	proceso, err := h.procesos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	estados := h.procesos.EstadosSiguientes(proceso.Estado, claims.Role)
	response.JSON(c, http.StatusOK, gin.H{
		"estado_actual":      proceso.Estado,
		"estados_siguientes": estados,
	}, nil)
}

// RegistrarParte godoc
// @Summary Register a party on a case
// @Tags Procesos
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body service.RegistrarParteRequest true "Party payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /procesos/{id}/partes [post]
func (h *ProcesoHandler) RegistrarParte(c *gin.Context) {
	var req service.RegistrarParteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	parte, err := h.procesos.RegistrarParte(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, parte)
}
