package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Procesos Judiciales API",
        "description": "Gestión de procesos civiles: expedientes, demandas, plazos procesales y calendario de días hábiles",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Sesión y tokens"},
        {"name": "Procesos", "description": "Expedientes y máquina de estados procesal"},
        {"name": "Demandas", "description": "Escritos de demanda y checklist Art. 110 CPC"},
        {"name": "Plazos", "description": "Plazos procesales y barrido de alertas"},
        {"name": "Feriados", "description": "Calendario de días hábiles"},
        {"name": "Notificaciones", "description": "Avisos a las partes"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/procesos": {
            "get": {
                "tags": ["Procesos"],
                "summary": "List cases",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "juezId", "in": "query", "type": "string"},
                    {"name": "nurej", "in": "query", "type": "string"},
                    {"name": "parteId", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Procesos"],
                "summary": "Register a new case",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CrearProcesoRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate NUREJ"}
                }
            }
        },
        "/procesos/{id}": {
            "get": {
                "tags": ["Procesos"],
                "summary": "Get a case with its parties",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/procesos/{id}/transicion": {
            "post": {
                "tags": ["Procesos"],
                "summary": "Move a case to a new procedural state",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransicionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Role not allowed"},
                    "409": {"description": "Concurrent state change"},
                    "412": {"description": "Precondition failed"},
                    "422": {"description": "Invalid transition"}
                }
            }
        },
        "/procesos/{id}/estados-siguientes": {
            "get": {
                "tags": ["Procesos"],
                "summary": "States the current user may reach",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/procesos/{id}/partes": {
            "post": {
                "tags": ["Procesos"],
                "summary": "Register a party on a case",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegistrarParteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/procesos/{id}/demanda": {
            "get": {
                "tags": ["Demandas"],
                "summary": "Get the pleading of a case",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Demandas"],
                "summary": "Attach a draft pleading",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DemandaRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Demandas"],
                "summary": "Amend the draft pleading",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DemandaRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/procesos/{id}/demanda/validar": {
            "get": {
                "tags": ["Demandas"],
                "summary": "Run the Art. 110 checklist without presenting",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/procesos/{id}/demanda/presentar": {
            "post": {
                "tags": ["Demandas"],
                "summary": "Formally present the pleading",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Critical observations remain"}
                }
            }
        },
        "/procesos/{id}/plazos": {
            "get": {
                "tags": ["Plazos"],
                "summary": "Active deadlines of a case, most urgent first",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/procesos/{id}/plazos/urgente": {
            "get": {
                "tags": ["Plazos"],
                "summary": "Next deadline to expire on a case",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plazos/{id}/cumplir": {
            "post": {
                "tags": ["Plazos"],
                "summary": "Mark a deadline as fulfilled",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Deadline not active"}
                }
            }
        },
        "/plazos/sweep": {
            "post": {
                "tags": ["Plazos"],
                "summary": "Run the deadline alert sweep on demand",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/feriados": {
            "get": {
                "tags": ["Feriados"],
                "summary": "List registered court holidays",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Feriados"],
                "summary": "Register a court holiday",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FeriadoRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/feriados/{id}": {
            "delete": {
                "tags": ["Feriados"],
                "summary": "Remove a court holiday",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/notificaciones": {
            "get": {
                "tags": ["Notificaciones"],
                "summary": "List the current user's notifications",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notificaciones/{id}/leida": {
            "post": {
                "tags": ["Notificaciones"],
                "summary": "Mark a notification as read",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CrearProcesoRequest": {
            "type": "object",
            "properties": {
                "nurej": {"type": "string"},
                "caratula": {"type": "string"},
                "tipo_proceso": {"type": "string", "enum": ["ORDINARIO", "EXTRAORDINARIO", "EJECUTIVO", "MONITORIO"]},
                "juez_id": {"type": "string"},
                "juzgado": {"type": "string"},
                "cuantia": {"type": "number"}
            },
            "required": ["nurej", "caratula", "tipo_proceso", "juez_id", "juzgado"]
        },
        "TransicionRequest": {
            "type": "object",
            "properties": {
                "estado": {"type": "string"},
                "motivo": {"type": "string"}
            },
            "required": ["estado"]
        },
        "RegistrarParteRequest": {
            "type": "object",
            "properties": {
                "tipo": {"type": "string", "enum": ["ACTOR", "DEMANDADO"]},
                "nombre_completo": {"type": "string"},
                "documento": {"type": "string"},
                "ciudadano_id": {"type": "string"},
                "abogado_id": {"type": "string"}
            },
            "required": ["tipo", "nombre_completo", "documento"]
        },
        "DemandaRequest": {
            "type": "object",
            "properties": {
                "juez_designado": {"type": "string"},
                "demandante_nombre": {"type": "string"},
                "demandante_edad": {"type": "integer"},
                "demandante_estado_civil": {"type": "string"},
                "demandante_ocupacion": {"type": "string"},
                "demandante_domicilio": {"type": "string"},
                "demandante_domicilio_procesal": {"type": "string"},
                "demandado_nombre": {"type": "string"},
                "demandado_domicilio": {"type": "string"},
                "objeto_demanda": {"type": "string"},
                "relacion_hechos": {"type": "string"},
                "fundamento_legal": {"type": "string"},
                "petitorio": {"type": "string"},
                "cuantia": {"type": "number"},
                "ofrecimiento_prueba": {"type": "string"},
                "abogado_nombre": {"type": "string"},
                "abogado_matricula": {"type": "string"},
                "anexos": {"type": "array", "items": {"type": "string"}}
            }
        },
        "FeriadoRequest": {
            "type": "object",
            "properties": {
                "fecha": {"type": "string", "format": "date"},
                "descripcion": {"type": "string"}
            },
            "required": ["fecha", "descripcion"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
