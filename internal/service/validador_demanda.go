package service

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/justicia-digital/procesos-api/internal/models"
)

// reglaDemanda is one entry of the Art. 110 CPC checklist. Cumple inspects
// only the pleading value it receives; rules never touch storage.
type reglaDemanda struct {
	Campo       string
	Descripcion string
	Articulo    string
	Severidad   models.Severidad
	Cumple      func(d models.Demanda) bool
}

// ValidadorDemanda mechanically checks a pleading against the fixed,
// versioned Art. 110 checklist. It is stateless: the same input always
// produces the same verdict, and no input makes it fail.
type ValidadorDemanda struct {
	version string
	reglas  []reglaDemanda
}

// NewValidadorDemanda builds the validator for the given checklist version
// tag. The version only labels verdicts; the rules themselves are fixed.
func NewValidadorDemanda(version string) *ValidadorDemanda {
	if version == "" {
		version = "art110-v1"
	}
	return &ValidadorDemanda{version: version, reglas: reglasArt110}
}

// Validar evaluates every checklist rule in order and produces the verdict.
// A pleading is valid when no CRITICA observation remains; ADVERTENCIA
// observations are advisory and never block admission.
func (v *ValidadorDemanda) Validar(demanda models.Demanda) models.ResultadoValidacion {
	resultado := models.ResultadoValidacion{
		Version:       v.version,
		Observaciones: []models.ObservacionDemanda{},
	}
	cumplidas := 0
	for _, regla := range v.reglas {
		if regla.Cumple(demanda) {
			cumplidas++
			continue
		}
		resultado.Observaciones = append(resultado.Observaciones, models.ObservacionDemanda{
			Campo:       regla.Campo,
			Descripcion: regla.Descripcion,
			Articulo:    regla.Articulo,
			Severidad:   regla.Severidad,
		})
	}
	resultado.Puntaje = int(math.Round(100 * float64(cumplidas) / float64(len(v.reglas))))
	resultado.EsValida = true
	for _, obs := range resultado.Observaciones {
		if obs.Severidad == models.SeveridadCritica {
			resultado.EsValida = false
			break
		}
	}
	return resultado
}

func presente(s string) bool {
	return strings.TrimSpace(s) != ""
}

func longitudMinima(s string, n int) bool {
	return len(strings.TrimSpace(s)) >= n
}

// reglasArt110 is the ordered 18-requirement checklist of Art. 110 CPC.
// Order matches the article's numbering so observations read naturally.
var reglasArt110 = []reglaDemanda{
	{
		Campo:       "juez_designado",
		Descripcion: "debe designarse la autoridad judicial ante quien se interpone la demanda",
		Articulo:    "Art. 110 núm. 1 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return presente(d.JuezDesignado) },
	},
	{
		Campo:       "demandante_nombre",
		Descripcion: "debe consignarse el nombre completo del demandante",
		Articulo:    "Art. 110 núm. 2 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return presente(d.DemandanteNombre) },
	},
	{
		Campo:       "demandante_edad",
		Descripcion: "debe consignarse la edad del demandante",
		Articulo:    "Art. 110 núm. 2 CPC",
		Severidad:   models.SeveridadAdvertencia,
		Cumple:      func(d models.Demanda) bool { return d.DemandanteEdad > 0 },
	},
	{
		Campo:       "demandante_estado_civil",
		Descripcion: "debe consignarse el estado civil del demandante",
		Articulo:    "Art. 110 núm. 2 CPC",
		Severidad:   models.SeveridadAdvertencia,
		Cumple:      func(d models.Demanda) bool { return presente(d.DemandanteEstadoCivil) },
	},
	{
		Campo:       "demandante_ocupacion",
		Descripcion: "debe consignarse la ocupación del demandante",
		Articulo:    "Art. 110 núm. 2 CPC",
		Severidad:   models.SeveridadAdvertencia,
		Cumple:      func(d models.Demanda) bool { return presente(d.DemandanteOcupacion) },
	},
	{
		Campo:       "demandante_domicilio",
		Descripcion: "debe consignarse el domicilio real del demandante",
		Articulo:    "Art. 110 núm. 2 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return presente(d.DemandanteDomicilio) },
	},
	{
		Campo:       "demandante_domicilio_procesal",
		Descripcion: "debe señalarse domicilio procesal para notificaciones",
		Articulo:    "Art. 110 núm. 2 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return presente(d.DemandanteDomicilioProcesal) },
	},
	{
		Campo:       "demandado_nombre",
		Descripcion: "debe consignarse el nombre completo del demandado",
		Articulo:    "Art. 110 núm. 3 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return presente(d.DemandadoNombre) },
	},
	{
		Campo:       "demandado_domicilio",
		Descripcion: "debe consignarse el domicilio del demandado para su citación",
		Articulo:    "Art. 110 núm. 3 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return presente(d.DemandadoDomicilio) },
	},
	{
		Campo:       "objeto_demanda",
		Descripcion: "la cosa demandada debe designarse con exactitud (mínimo 20 caracteres)",
		Articulo:    "Art. 110 núm. 5 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return longitudMinima(d.ObjetoDemanda, 20) },
	},
	{
		Campo:       "relacion_hechos",
		Descripcion: "los hechos deben exponerse con claridad y precisión (mínimo 100 caracteres)",
		Articulo:    "Art. 110 núm. 6 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return longitudMinima(d.RelacionHechos, 100) },
	},
	{
		Campo:       "fundamento_legal",
		Descripcion: "debe invocarse el derecho en que se funda la demanda (mínimo 50 caracteres)",
		Articulo:    "Art. 110 núm. 6 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return longitudMinima(d.FundamentoLegal, 50) },
	},
	{
		Campo:       "petitorio",
		Descripcion: "la petición debe formularse en términos claros y positivos (mínimo 30 caracteres)",
		Articulo:    "Art. 110 núm. 7 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return longitudMinima(d.Petitorio, 30) },
	},
	{
		Campo:       "cuantia",
		Descripcion: "debe señalarse el valor o la cuantía de la demanda",
		Articulo:    "Art. 110 núm. 4 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return d.Cuantia > 0 },
	},
	{
		Campo:       "ofrecimiento_prueba",
		Descripcion: "debe ofrecerse la prueba que haya de producirse",
		Articulo:    "Art. 110 núm. 8 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return presente(d.OfrecimientoPrueba) },
	},
	{
		Campo:       "abogado_nombre",
		Descripcion: "debe identificarse al abogado patrocinante",
		Articulo:    "Art. 110 núm. 9 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return presente(d.AbogadoNombre) },
	},
	{
		Campo:       "abogado_matricula",
		Descripcion: "debe consignarse la matrícula profesional del abogado",
		Articulo:    "Art. 110 núm. 9 CPC",
		Severidad:   models.SeveridadCritica,
		Cumple:      func(d models.Demanda) bool { return presente(d.AbogadoMatricula) },
	},
	{
		Campo:       "anexos",
		Descripcion: "debe acompañarse al menos un documento anexo",
		Articulo:    "Art. 111 CPC",
		Severidad:   models.SeveridadAdvertencia,
		Cumple: func(d models.Demanda) bool {
			if len(d.Anexos) == 0 {
				return false
			}
			var anexos []json.RawMessage
			if err := json.Unmarshal(d.Anexos, &anexos); err != nil {
				return false
			}
			return len(anexos) > 0
		},
	},
}
