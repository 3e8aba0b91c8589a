package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justicia-digital/procesos-api/internal/service"
	appErrors "github.com/justicia-digital/procesos-api/pkg/errors"
	"github.com/justicia-digital/procesos-api/pkg/response"
)

// DemandaHandler exposes pleading endpoints.
type DemandaHandler struct {
	demandas *service.DemandaService
}

// NewDemandaHandler constructs DemandaHandler.
func NewDemandaHandler(demandas *service.DemandaService) *DemandaHandler {
	return &DemandaHandler{demandas: demandas}
}

// Registrar godoc
// @Summary Attach a draft pleading to a case
// @Tags Demandas
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body service.DemandaRequest true "Pleading payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /procesos/{id}/demanda [post]
func (h *DemandaHandler) Registrar(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.DemandaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	demanda, err := h.demandas.Registrar(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, demanda)
}

// Actualizar godoc
// @Summary Amend the draft pleading
// @Tags Demandas
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body service.DemandaRequest true "Pleading payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /procesos/{id}/demanda [put]
func (h *DemandaHandler) Actualizar(c *gin.Context) {
	var req service.DemandaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	demanda, err := h.demandas.Actualizar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, demanda, nil)
}

// Get godoc
// @Summary Get the pleading of a case
// @Tags Demandas
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /procesos/{id}/demanda [get]
func (h *DemandaHandler) Get(c *gin.Context) {
	demanda, err := h.demandas.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, demanda, nil)
}

// Validar godoc
// @Summary Run the Art. 110 checklist without presenting
// @Tags Demandas
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /procesos/{id}/demanda/validar [get]
func (h *DemandaHandler) Validar(c *gin.Context) {
	resultado, err := h.demandas.Validar(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resultado, nil)
}

// Presentar godoc
// @Summary Formally present the pleading
// @Description Runs the checklist; with no critical observation left the
// pleading is stamped and the case moves to PRESENTADO. The verdict is
// returned in both outcomes.
// @Tags Demandas
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /procesos/{id}/demanda/presentar [post]
func (h *DemandaHandler) Presentar(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resultado, err := h.demandas.Presentar(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		if resultado != nil {
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{Data: resultado, Error: appErr})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resultado, nil)
}
