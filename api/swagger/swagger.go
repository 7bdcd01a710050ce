package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Department Routine API",
        "description": "Generates, adjusts and stores weekly class routines for university departments.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Routine", "description": "Routine previews, manual moves and saves"},
        {"name": "Schedules", "description": "Saved weekly routine views"},
        {"name": "Export", "description": "Routine downloads"}
    ],
    "paths": {
        "/routine/preview": {
            "post": {
                "tags": ["Routine"],
                "summary": "Generate a routine preview for a department",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PreviewRoutineRequest"}}
                ],
                "responses": {
                    "200": {"description": "Preview", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Department outside caller scope", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No semesters, eligible courses or available rooms", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/routine/preview/{id}": {
            "get": {
                "tags": ["Routine"],
                "summary": "Fetch a stored routine preview",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Preview", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Preview unknown or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Routine"],
                "summary": "Discard a stored routine preview",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Discarded"}}
            }
        },
        "/routine/preview/{id}/move": {
            "post": {
                "tags": ["Routine"],
                "summary": "Move a preview entry to another cell",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveRoutineEntryRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated preview", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Destination holds a conflicting entry", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/routine/preview/{id}/check": {
            "post": {
                "tags": ["Routine"],
                "summary": "Check whether a preview move would be accepted",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveRoutineEntryRequest"}}
                ],
                "responses": {
                    "200": {"description": "Move accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Destination holds a conflicting entry", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/routine/generate": {
            "post": {
                "tags": ["Routine"],
                "summary": "Replace the department routine",
                "description": "Deletes the saved routine and inserts the placed entries of a preview or of the posted routine array in one transaction.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveRoutineRequest"}}
                ],
                "responses": {
                    "201": {"description": "Saved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid routine", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/routine/final": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Saved routine of a department",
                "parameters": [{"name": "departmentId", "in": "query", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "Entries ordered by day then start time", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Department not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/routine/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the saved routine of a department",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "departmentId", "in": "query", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {"200": {"description": "File attachment", "schema": {"type": "file"}}}
            }
        },
        "/weekly-schedule/room/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Saved routine entries held in a room",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Entries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/weekly-schedule/semester/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Saved routine entries of a semester",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Entries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/weekly-schedule/teacher/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Saved routine entries of every course a teacher teaches",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Entries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/weekly-schedule/course/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Saved routine entries of a course",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Entries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "RoutineCell": {
            "type": "object",
            "properties": {
                "dayOfWeek": {"type": "string", "enum": ["SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"]},
                "startTime": {"type": "string", "example": "08:00"}
            }
        },
        "RoutineEntry": {
            "type": "object",
            "properties": {
                "semesterId": {"type": "integer"},
                "departmentId": {"type": "integer"},
                "dayOfWeek": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "courseId": {"type": "integer"},
                "roomId": {"type": "integer"},
                "isBreak": {"type": "boolean"},
                "note": {"type": "string"}
            }
        },
        "PreviewRoutineRequest": {
            "type": "object",
            "required": ["departmentId"],
            "properties": {"departmentId": {"type": "integer"}}
        },
        "MoveRoutineEntryRequest": {
            "type": "object",
            "properties": {
                "from": {"$ref": "#/definitions/RoutineCell"},
                "to": {"$ref": "#/definitions/RoutineCell"},
                "index": {"type": "integer"}
            }
        },
        "SaveRoutineRequest": {
            "type": "object",
            "properties": {
                "previewId": {"type": "string"},
                "routine": {"type": "array", "items": {"$ref": "#/definitions/RoutineEntry"}}
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
