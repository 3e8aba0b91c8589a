package models

import "time"

// TipoPlazo enumerates the statutory deadline catalog.
type TipoPlazo string

const (
	PlazoContestacion        TipoPlazo = "CONTESTACION"
	PlazoObservacionDemanda  TipoPlazo = "OBSERVACION_DEMANDA"
	PlazoSubsanacion         TipoPlazo = "SUBSANACION"
	PlazoCitacion            TipoPlazo = "CITACION"
	PlazoAudienciaPreliminar TipoPlazo = "AUDIENCIA_PRELIMINAR"
	PlazoSentencia           TipoPlazo = "SENTENCIA"
	PlazoApelacion           TipoPlazo = "APELACION"
	PlazoExcepciones         TipoPlazo = "EXCEPCIONES"
	PlazoReconvencion        TipoPlazo = "RECONVENCION"
	PlazoCasacion            TipoPlazo = "CASACION"
)

// EstadoPlazo reflects the deadline lifecycle. CUMPLIDO and VENCIDO are
// terminal.
type EstadoPlazo string

const (
	PlazoActivo   EstadoPlazo = "ACTIVO"
	PlazoCumplido EstadoPlazo = "CUMPLIDO"
	PlazoVencido  EstadoPlazo = "VENCIDO"
)

// Terminal reports whether the deadline can no longer change state.
func (e EstadoPlazo) Terminal() bool {
	return e == PlazoCumplido || e == PlazoVencido
}

// Plazo is a statutory deadline attached to a case. FechaVencimiento is
// computed at creation and immutable afterwards.
type Plazo struct {
	ID               string      `db:"id" json:"id"`
	ProcesoID        string      `db:"proceso_id" json:"proceso_id"`
	Tipo             TipoPlazo   `db:"tipo" json:"tipo"`
	Descripcion      string      `db:"descripcion" json:"descripcion"`
	Articulo         string      `db:"articulo" json:"articulo"`
	DiasPlazo        int         `db:"dias_plazo" json:"dias_plazo"`
	FechaInicio      time.Time   `db:"fecha_inicio" json:"fecha_inicio"`
	FechaVencimiento time.Time   `db:"fecha_vencimiento" json:"fecha_vencimiento"`
	Estado           EstadoPlazo `db:"estado" json:"estado"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`

	Alertas []AlertaPlazo `db:"-" json:"alertas,omitempty"`
}

// AlertaPlazo is one entry in a deadline's append-only alert log. At most one
// row exists per (plazo, umbral); rows are never rewritten or deleted. The
// sweep relies on this to stay idempotent.
type AlertaPlazo struct {
	ID            string    `db:"id" json:"id"`
	PlazoID       string    `db:"plazo_id" json:"plazo_id"`
	Umbral        int       `db:"umbral" json:"umbral"`
	DiasRestantes int       `db:"dias_restantes" json:"dias_restantes"`
	Destinatarios int       `db:"destinatarios" json:"destinatarios"`
	EnviadaEn     time.Time `db:"enviada_en" json:"enviada_en"`
}

// UmbralVencido tags the single overdue notice in the alert log, keeping the
// VENCIDO notification idempotent alongside threshold alerts.
const UmbralVencido = 0
