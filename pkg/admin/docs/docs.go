// Package docs holds the swagger spec of the admin API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1alpha1/state": {
            "get": {
                "description": "Identity, neighbors and accepted values as of the last handled envelope.",
                "produces": ["application/json", "text/html"],
                "tags": ["node"],
                "summary": "Current node state",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/models.NodeStateResponse"}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"$ref": "#/definitions/models.ErrorResponse"}
                    }
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["probes"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/models.StatusResponse"}
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["probes"],
                "summary": "Readiness probe, ready once the node received init",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/models.StatusResponse"}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"$ref": "#/definitions/models.StatusResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "description": "Structured error response with contextual advice",
            "type": "object",
            "properties": {
                "advice": {
                    "description": "Suggestions to help resolve the error",
                    "type": "array",
                    "items": {"type": "string"},
                    "example": ["the first request a node receives must be an init message"]
                },
                "message": {
                    "description": "Primary error message",
                    "type": "string",
                    "example": "node has not been initialized"
                }
            }
        },
        "models.NodeStateResponse": {
            "description": "Identity, neighbors and accepted broadcast values of the node",
            "type": "object",
            "properties": {
                "errors": {"description": "Envelopes whose handling failed", "type": "integer", "example": 0},
                "handled": {"description": "Envelopes handled since start", "type": "integer", "example": 42},
                "id": {"description": "Identity assigned by init", "type": "string", "example": "n1"},
                "messageCount": {"description": "Number of accepted values", "type": "integer", "example": 2},
                "messages": {
                    "description": "Accepted broadcast values, ascending",
                    "type": "array",
                    "items": {"type": "integer"},
                    "example": [3, 7]
                },
                "roster": {
                    "description": "Current gossip neighbors in relay order",
                    "type": "array",
                    "items": {"type": "string"},
                    "example": ["n2", "n3"]
                }
            }
        },
        "models.StatusResponse": {
            "description": "Probe result",
            "type": "object",
            "properties": {
                "reason": {"type": "string", "example": "waiting for init"},
                "status": {"type": "string", "example": "ready"}
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
	Title:            "floodnode admin API",
	Description:      "Read-only view of a flood broadcast node.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
