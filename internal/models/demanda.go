package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Demanda is the structured pleading (escrito de demanda) a party's counsel
// submits, subject to the Art. 110 CPC checklist.
type Demanda struct {
	ID        string `db:"id" json:"id"`
	ProcesoID string `db:"proceso_id" json:"proceso_id"`

	// Designación del juez o tribunal
	JuezDesignado string `db:"juez_designado" json:"juez_designado"`

	// Generales de ley del demandante
	DemandanteNombre            string `db:"demandante_nombre" json:"demandante_nombre"`
	DemandanteEdad              int    `db:"demandante_edad" json:"demandante_edad"`
	DemandanteEstadoCivil       string `db:"demandante_estado_civil" json:"demandante_estado_civil"`
	DemandanteOcupacion         string `db:"demandante_ocupacion" json:"demandante_ocupacion"`
	DemandanteDomicilio         string `db:"demandante_domicilio" json:"demandante_domicilio"`
	DemandanteDomicilioProcesal string `db:"demandante_domicilio_procesal" json:"demandante_domicilio_procesal"`

	// Identificación del demandado
	DemandadoNombre    string `db:"demandado_nombre" json:"demandado_nombre"`
	DemandadoDomicilio string `db:"demandado_domicilio" json:"demandado_domicilio"`

	// Contenido de la demanda
	ObjetoDemanda      string  `db:"objeto_demanda" json:"objeto_demanda"`
	RelacionHechos     string  `db:"relacion_hechos" json:"relacion_hechos"`
	FundamentoLegal    string  `db:"fundamento_legal" json:"fundamento_legal"`
	Petitorio          string  `db:"petitorio" json:"petitorio"`
	Cuantia            float64 `db:"cuantia" json:"cuantia"`
	OfrecimientoPrueba string  `db:"ofrecimiento_prueba" json:"ofrecimiento_prueba"`

	// Patrocinio
	AbogadoNombre    string `db:"abogado_nombre" json:"abogado_nombre"`
	AbogadoMatricula string `db:"abogado_matricula" json:"abogado_matricula"`

	// Anexos adjuntos, stored as a JSON array of document references. The
	// documents themselves live in an external storage subsystem.
	Anexos types.JSONText `db:"anexos" json:"anexos,omitempty"`

	PresentadaPor string     `db:"presentada_por" json:"presentada_por"`
	PresentadaEn  *time.Time `db:"presentada_en" json:"presentada_en,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Severidad classifies a validation observation.
type Severidad string

const (
	SeveridadCritica     Severidad = "CRITICA"
	SeveridadAdvertencia Severidad = "ADVERTENCIA"
)

// ObservacionDemanda points at one unmet checklist requirement.
type ObservacionDemanda struct {
	Campo       string    `json:"campo"`
	Descripcion string    `json:"descripcion"`
	Articulo    string    `json:"articulo"`
	Severidad   Severidad `json:"severidad"`
}

// ResultadoValidacion is the verdict of running a Demanda through the
// Art. 110 checklist. It is recomputed on every call and never persisted as
// the source of truth.
type ResultadoValidacion struct {
	EsValida      bool                 `json:"es_valida"`
	Puntaje       int                  `json:"puntaje"`
	Version       string               `json:"version"`
	Observaciones []ObservacionDemanda `json:"observaciones"`
}
