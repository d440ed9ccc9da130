// Package docs registers the course-qa OpenAPI document with swag.
// Regenerate with: swag init -g cmd/course-qa/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Course QA maintainers",
            "url": "https://github.com/custodia-labs/course-qa/issues"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/": {
            "post": {
                "description": "Matches the question against the course and forum snapshot and returns ranked links with a short answer",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Questions"],
                "summary": "Answer a question",
                "parameters": [
                    {
                        "description": "Question",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/domain.QuestionRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AnswerResponse"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "Knowledge snapshot unavailable", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports service status and snapshot statistics. Never fails when the snapshot is unreadable.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.HealthReport"}}
                }
            }
        },
        "/ready": {
            "get": {
                "description": "Checks the snapshot and any configured backing services",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ReadyResponse"}},
                    "503": {"description": "Not ready", "schema": {"$ref": "#/definitions/http.ReadyResponse"}}
                }
            }
        },
        "/version": {
            "get": {
                "description": "Returns the current API version",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Get API version",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VersionResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.QuestionRequest": {
            "type": "object",
            "properties": {
                "question": {"type": "string", "example": "How do I install pandas?"},
                "image": {"type": "string"}
            }
        },
        "domain.Resource": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "example": "Pandas Help"},
                "url": {"type": "string", "example": "https://discourse.example.org/t/pandas-help/42"},
                "source": {"type": "string", "enum": ["discourse", "course"], "example": "discourse"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "type": {"type": "string", "example": "video"},
                "week": {"type": "string", "example": "Week 1"}
            }
        },
        "domain.AnswerResponse": {
            "type": "object",
            "properties": {
                "answer": {"type": "string", "example": "Found 2 relevant resources"},
                "links": {"type": "array", "items": {"$ref": "#/definitions/domain.Resource"}}
            }
        },
        "domain.SnapshotStats": {
            "type": "object",
            "properties": {
                "discourse_posts": {"type": "integer", "example": 120},
                "weeks": {"type": "integer", "example": 12},
                "course_resources": {"type": "integer", "example": 240},
                "last_updated": {"type": "string"}
            }
        },
        "domain.HealthReport": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "answer_mode": {"type": "string", "example": "summary"},
                "data_stats": {"$ref": "#/definitions/domain.SnapshotStats"},
                "reason": {"type": "string"},
                "version": {"type": "string", "example": "1.0.0"},
                "checked_at": {"type": "string"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid request body"}
            }
        },
        "http.ReadyResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ready"},
                "checks": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "http.VersionResponse": {
            "type": "object",
            "properties": {
                "version": {"type": "string", "example": "1.0.0"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Course QA API",
	Description:      "Answers course questions with ranked links to course material and forum topics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
