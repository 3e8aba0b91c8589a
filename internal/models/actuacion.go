package models

import "time"

// Citacion records one summons attempt against a defendant. Owned by the
// notifications subsystem; read here by transition preconditions.
type Citacion struct {
	ID        string    `db:"id" json:"id"`
	ProcesoID string    `db:"proceso_id" json:"proceso_id"`
	ParteID   string    `db:"parte_id" json:"parte_id"`
	Modalidad string    `db:"modalidad" json:"modalidad"`
	Exitosa   bool      `db:"exitosa" json:"exitosa"`
	Fecha     time.Time `db:"fecha" json:"fecha"`
}

// EstadoAudiencia tracks the hearing lifecycle.
type EstadoAudiencia string

const (
	AudienciaProgramada EstadoAudiencia = "PROGRAMADA"
	AudienciaFinalizada EstadoAudiencia = "FINALIZADA"
	AudienciaSuspendida EstadoAudiencia = "SUSPENDIDA"
)

// Audiencia is a hearing record, owned by the hearings subsystem.
type Audiencia struct {
	ID        string          `db:"id" json:"id"`
	ProcesoID string          `db:"proceso_id" json:"proceso_id"`
	Tipo      string          `db:"tipo" json:"tipo"`
	Estado    EstadoAudiencia `db:"estado" json:"estado"`
	Fecha     time.Time       `db:"fecha" json:"fecha"`
}

// Sentencia is a verdict record, owned by the rulings subsystem.
type Sentencia struct {
	ID        string    `db:"id" json:"id"`
	ProcesoID string    `db:"proceso_id" json:"proceso_id"`
	JuezID    string    `db:"juez_id" json:"juez_id"`
	Resuelve  string    `db:"resuelve" json:"resuelve"`
	Fecha     time.Time `db:"fecha" json:"fecha"`
}

// Feriado is a non-business date supplied to the business-day calendar.
type Feriado struct {
	ID          string    `db:"id" json:"id"`
	Fecha       time.Time `db:"fecha" json:"fecha"`
	Descripcion string    `db:"descripcion" json:"descripcion"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TipoNotificacion labels the notices emitted by the core.
type TipoNotificacion string

const (
	NotificacionPlazoCreado    TipoNotificacion = "PLAZO_CREADO"
	NotificacionPlazoPorVencer TipoNotificacion = "PLAZO_POR_VENCER"
	NotificacionPlazoVencido   TipoNotificacion = "PLAZO_VENCIDO"
	NotificacionCambioEstado   TipoNotificacion = "CAMBIO_ESTADO"
)

// Notificacion is a persisted notice awaiting delivery by the external
// email/push subsystem. Delivery is best effort and never blocks the core.
type Notificacion struct {
	ID             string           `db:"id" json:"id"`
	DestinatarioID string           `db:"destinatario_id" json:"destinatario_id"`
	ProcesoID      string           `db:"proceso_id" json:"proceso_id"`
	Tipo           TipoNotificacion `db:"tipo" json:"tipo"`
	Mensaje        string           `db:"mensaje" json:"mensaje"`
	Leida          bool             `db:"leida" json:"leida"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}
