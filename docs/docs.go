// Package docs holds the Swagger document served under /swagger/. It follows
// the layout of `swag init -g cmd/catalog/main.go`; keep it in step with the
// handler annotations.
package docs

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
        "/api/admin/catalog/refresh": {
            "post": {
                "security": [{"SessionCookie": []}, {"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Rebuild the cached catalog for a language",
                "parameters": [
                    {"type": "string", "description": "Language code", "name": "lang", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.refreshResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/api/admin/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Admin login",
                "parameters": [
                    {"description": "Admin password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/api/catalog": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Get the catalog for a language",
                "parameters": [
                    {"type": "string", "description": "Language code (e.g. en)", "name": "lang", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.catalogResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/api/catalog/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Get one catalog record",
                "parameters": [
                    {"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Language code", "name": "lang", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.catalogRecordResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/api/gallery": {
            "get": {
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "List gallery items, newest first",
                "parameters": [
                    {"type": "integer", "description": "Items to skip", "name": "offset", "in": "query"},
                    {"type": "integer", "description": "Page size (max 200)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.galleryListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            },
            "post": {
                "security": [{"SessionCookie": []}, {"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "Add a gallery item",
                "parameters": [
                    {"description": "Item fields", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": true}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.mutationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.mutationResponse"}}
                }
            }
        },
        "/api/gallery/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "Get a gallery item",
                "parameters": [
                    {"type": "string", "description": "Item id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            },
            "delete": {
                "security": [{"SessionCookie": []}, {"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "Remove a gallery item",
                "parameters": [
                    {"type": "string", "description": "Item id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.mutationResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.mutationResponse"}}
                }
            }
        },
        "/api/images/delete": {
            "post": {
                "security": [{"SessionCookie": []}, {"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Delete a gallery image",
                "parameters": [
                    {"type": "string", "description": "Image id", "name": "id", "in": "query"},
                    {"description": "Image id", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handler.imageDeleteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.mutationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.mutationResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/api/images/{id}": {
            "delete": {
                "security": [{"SessionCookie": []}, {"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Delete a gallery image",
                "parameters": [
                    {"type": "string", "description": "Image id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.mutationResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/api/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.logoutResponse"}}
                }
            }
        },
        "/api/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Verify session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Record": {
            "type": "object",
            "properties": {
                "author": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "lang": {"type": "string"},
                "media_url": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "handler.catalogRecordResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.Record"},
                "lang": {"type": "string"}
            }
        },
        "handler.catalogResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.Record"}},
                "lang": {"type": "string"}
            }
        },
        "handler.errorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.galleryListResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "items": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "offset": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "handler.imageDeleteRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "password": {"type": "string", "maxLength": 1024}
            }
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string"},
                "role": {"type": "string"},
                "success": {"type": "boolean"},
                "token": {"type": "string"}
            }
        },
        "handler.logoutResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.mutationResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "id": {"type": "string"},
                "ok": {"type": "boolean"}
            }
        },
        "handler.refreshResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "lang": {"type": "string"},
                "ok": {"type": "boolean"},
                "tier": {"type": "string"}
            }
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "role": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "SessionCookie": {"type": "apiKey", "name": "admin_session", "in": "cookie"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Catalog API",
	Description:      "Localized catalog, admin sessions and the shared gallery index.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
