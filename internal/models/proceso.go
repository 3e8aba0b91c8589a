package models

import "time"

// EstadoProceso enumerates the closed set of procedural states a case moves
// through. Estado changes only through ProcesoService.Transicionar.
type EstadoProceso string

const (
	EstadoBorrador                EstadoProceso = "BORRADOR"
	EstadoPresentado              EstadoProceso = "PRESENTADO"
	EstadoAdmitido                EstadoProceso = "ADMITIDO"
	EstadoCitacionPendiente       EstadoProceso = "CITACION_PENDIENTE"
	EstadoContestacionPendiente   EstadoProceso = "CONTESTACION_PENDIENTE"
	EstadoAudienciaPreliminar     EstadoProceso = "AUDIENCIA_PRELIMINAR"
	EstadoAudienciaComplementaria EstadoProceso = "AUDIENCIA_COMPLEMENTARIA"
	EstadoSentenciaPendiente      EstadoProceso = "SENTENCIA_PENDIENTE"
	EstadoSentenciado             EstadoProceso = "SENTENCIADO"
	EstadoApelado                 EstadoProceso = "APELADO"
	EstadoEjecutoriado            EstadoProceso = "EJECUTORIADO"
	EstadoArchivado               EstadoProceso = "ARCHIVADO"
)

// Estados lists every valid EstadoProceso, in procedural order.
var Estados = []EstadoProceso{
	EstadoBorrador,
	EstadoPresentado,
	EstadoAdmitido,
	EstadoCitacionPendiente,
	EstadoContestacionPendiente,
	EstadoAudienciaPreliminar,
	EstadoAudienciaComplementaria,
	EstadoSentenciaPendiente,
	EstadoSentenciado,
	EstadoApelado,
	EstadoEjecutoriado,
	EstadoArchivado,
}

// Valid reports whether e is a member of the closed enumeration.
func (e EstadoProceso) Valid() bool {
	for _, s := range Estados {
		if s == e {
			return true
		}
	}
	return false
}

// Proceso is a judicial case record.
type Proceso struct {
	ID          string        `db:"id" json:"id"`
	Nurej       string        `db:"nurej" json:"nurej"`
	Caratula    string        `db:"caratula" json:"caratula"`
	TipoProceso string        `db:"tipo_proceso" json:"tipo_proceso"`
	Estado      EstadoProceso `db:"estado" json:"estado"`
	JuezID      string        `db:"juez_id" json:"juez_id"`
	Juzgado     string        `db:"juzgado" json:"juzgado"`
	Cuantia     *float64      `db:"cuantia" json:"cuantia,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`

	Partes []Parte `db:"-" json:"partes,omitempty"`
}

// ProcesoFilter captures listing criteria for cases.
type ProcesoFilter struct {
	Estado   []EstadoProceso
	JuezID   string
	Nurej    string
	ParteID  string
	Search   string
	Page     int
	PageSize int
}

// TipoParte distinguishes the procedural position of a party.
type TipoParte string

const (
	ParteActor     TipoParte = "ACTOR"
	ParteDemandado TipoParte = "DEMANDADO"
)

// Parte links a case to an intervening party and, optionally, to the citizen
// and lawyer accounts that represent it.
type Parte struct {
	ID             string    `db:"id" json:"id"`
	ProcesoID      string    `db:"proceso_id" json:"proceso_id"`
	Tipo           TipoParte `db:"tipo" json:"tipo"`
	NombreCompleto string    `db:"nombre_completo" json:"nombre_completo"`
	Documento      string    `db:"documento" json:"documento"`
	CiudadanoID    *string   `db:"ciudadano_id" json:"ciudadano_id,omitempty"`
	AbogadoID      *string   `db:"abogado_id" json:"abogado_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
