// Package apidocs holds the OpenAPI description of the viewer's HTTP API,
// generated by swaggo/swag from the annotations in viewer/routes.
package apidocs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Process log tail",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/routes.logEntry"}}
                    }
                }
            }
        },
        "/api/logs/stream": {
            "get": {
                "produces": ["text/event-stream"],
                "tags": ["logs"],
                "summary": "Process log stream (SSE)",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}}
                }
            }
        },
        "/api/output": {
            "get": {
                "produces": ["application/json"],
                "tags": ["output"],
                "summary": "Output panel lines",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/routes.outputLine"}}
                    }
                }
            }
        },
        "/api/output/stream": {
            "get": {
                "description": "Server-Sent Events named \"output\", one per new line. No snapshot.",
                "produces": ["text/event-stream"],
                "tags": ["output"],
                "summary": "Output panel tail (SSE)",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}}
                }
            }
        },
        "/api/runs": {
            "get": {
                "description": "Most recent runs first.",
                "produces": ["application/json"],
                "tags": ["runner"],
                "summary": "Run history",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "maximum rows (default 50)",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/routes.runRow"}}
                    },
                    "500": {"description": "Internal Server Error", "schema": {"type": "string"}}
                }
            }
        },
        "/api/state": {
            "get": {
                "description": "Tabs, tree, status bar, editor buffer, recent files, layout, output and chat in one document.",
                "produces": ["application/json"],
                "tags": ["workspace"],
                "summary": "Workspace snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "workspace not ready", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "routes.logEntry": {
            "type": "object",
            "properties": {
                "level": {"type": "string", "example": "info"},
                "logger": {"type": "string", "example": "codestudio/app"},
                "msg": {"type": "string", "example": "viewer listening"},
                "ts": {"type": "string", "example": "2026-01-02T15:04:05Z"}
            }
        },
        "routes.outputLine": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "3f1c9a2e-..."},
                "kind": {"type": "string", "example": "success"},
                "text": {"type": "string", "example": "Result: 2"},
                "time": {"type": "string", "example": "2026-01-02T15:04:05Z"}
            }
        },
        "routes.runRow": {
            "type": "object",
            "properties": {
                "duration_ms": {"type": "integer", "example": 4},
                "file_name": {"type": "string", "example": "welcome.js"},
                "id": {"type": "integer", "example": 17},
                "language": {"type": "string", "example": "javascript"},
                "outcome": {"type": "string", "example": "ok"},
                "started_at": {"type": "string", "example": "2026-01-02T15:04:05Z"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "CodeStudio API",
	Description:      "Local HTTP API of the CodeStudio workspace. Editing commands go over the /ws JSON-RPC socket.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
