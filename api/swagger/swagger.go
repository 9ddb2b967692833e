package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Leave Application API",
        "description": "Employee leave requests, manager review and dashboard statistics",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Users", "description": "Registration, login and identity"},
        {"name": "Leave", "description": "Leave application workflow"}
    ],
    "paths": {
        "/user/register": {
            "post": {
                "tags": ["Users"],
                "summary": "Register user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failure or duplicate user", "schema": {"$ref": "#/definitions/Envelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/user/login": {
            "post": {
                "tags": ["Users"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/user/me": {
            "get": {
                "tags": ["Users"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/leave/apply": {
            "post": {
                "tags": ["Leave"],
                "summary": "Submit leave application",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyLeaveRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/leave/applications": {
            "get": {
                "tags": ["Leave"],
                "summary": "List leave applications",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/leave/applications/export": {
            "get": {
                "tags": ["Leave"],
                "summary": "Export leave applications",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "employeeId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/leave/employee/{employeeId}": {
            "get": {
                "tags": ["Leave"],
                "summary": "List an employee's leave applications",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "employeeId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/leave/application/{id}": {
            "get": {
                "tags": ["Leave"],
                "summary": "Get leave application",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "put": {
                "tags": ["Leave"],
                "summary": "Review leave application",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewLeaveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Invalid status", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "tags": ["Leave"],
                "summary": "Delete pending leave application",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Already reviewed", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/leave/statistics": {
            "get": {
                "tags": ["Leave"],
                "summary": "Leave dashboard statistics",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "employeeId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["employeeId", "name", "email", "password", "department"],
            "properties": {
                "employeeId": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string", "format": "email"},
                "password": {"type": "string", "minLength": 6, "maxLength": 72},
                "department": {"type": "string"},
                "role": {"type": "string", "enum": ["employee", "manager", "admin"]}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["employeeId", "password"],
            "properties": {
                "employeeId": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ApplyLeaveRequest": {
            "type": "object",
            "required": ["employeeId", "employeeName", "department", "leaveType", "startDate", "endDate", "reason"],
            "properties": {
                "employeeId": {"type": "string"},
                "employeeName": {"type": "string"},
                "department": {"type": "string"},
                "leaveType": {"type": "string", "enum": ["Annual", "Sick", "Maternity", "Paternity", "Unpaid", "Other"]},
                "startDate": {"type": "string", "example": "2024-03-04"},
                "endDate": {"type": "string", "example": "2024-03-08"},
                "reason": {"type": "string"},
                "contactDuringLeave": {"type": "string"}
            }
        },
        "ReviewLeaveRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["Approved", "Rejected", "Pending"]},
                "reviewedBy": {"type": "string"},
                "comments": {"type": "string"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "code": {"type": "string"},
                "error": {"type": "string"},
                "token": {"type": "string"},
                "user": {"type": "object"},
                "count": {"type": "integer"},
                "data": {"type": "object"}
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
