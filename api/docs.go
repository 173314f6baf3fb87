// Package docs holds the OpenAPI description of the API. It is served
// by the Swagger UI at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "AGPL-3.0",
            "url": "https://www.gnu.org/licenses/agpl-3.0.en.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Entrypoint for the API, listing all endpoints",
                "tags": ["General"],
                "summary": "API root",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/router.RootResponse"}}
                }
            }
        },
        "/version": {
            "get": {
                "description": "Returns the software version of the API",
                "tags": ["General"],
                "summary": "API version",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/router.VersionResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "Returns the application health and, if not healthy, an error",
                "produces": ["application/json"],
                "tags": ["General"],
                "summary": "Get health",
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/api/expenses": {
            "get": {
                "description": "Returns the expenses of the signed in user, newest first, together with the budget summary",
                "tags": ["Expenses"],
                "summary": "List expenses",
                "parameters": [
                    {"type": "string", "description": "Filter by month, e.g. March. Requires year", "name": "month", "in": "query"},
                    {"type": "string", "description": "Filter by year, e.g. 2024. Requires month", "name": "year", "in": "query"},
                    {"type": "string", "description": "Glob pattern for the recipient name, matched case-insensitively", "name": "recipient", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ExpenseListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/api/expenses/add": {
            "post": {
                "description": "Records a new expense for the signed in user",
                "tags": ["Expenses"],
                "summary": "Add expense",
                "parameters": [
                    {"description": "Expense", "name": "expense", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.ExpenseEditable"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.ExpenseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/api/expenses/{expenseId}": {
            "put": {
                "description": "Updates the fields of an expense that are present in the request body",
                "tags": ["Expenses"],
                "summary": "Update expense",
                "parameters": [
                    {"type": "string", "description": "ID formatted as string", "name": "expenseId", "in": "path", "required": true},
                    {"description": "Expense", "name": "expense", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.ExpenseEditable"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ExpenseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            },
            "delete": {
                "description": "Deletes an expense of the signed in user",
                "tags": ["Expenses"],
                "summary": "Delete expense",
                "parameters": [
                    {"type": "string", "description": "ID formatted as string", "name": "expenseId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/api/auth/signup": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign up",
                "parameters": [
                    {"description": "User", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.SignUpEditable"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/api/auth/signin": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Credentials", "name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.SignInEditable"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/api/auth/check": {
            "get": {
                "tags": ["Auth"],
                "summary": "Check session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/api/auth/signout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        },
        "/api/auth/budget": {
            "put": {
                "tags": ["Auth"],
                "summary": "Set budget",
                "parameters": [
                    {"description": "Budget", "name": "budget", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.BudgetEditable"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httputil.HTTPError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httputil.HTTPError"}}
                }
            }
        }
    },
    "definitions": {
        "httputil.HTTPError": {
            "type": "object",
            "properties": {"message": {"type": "string", "example": "Expense not found."}}
        },
        "api.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "api.ExpenseEditable": {
            "type": "object",
            "properties": {
                "recipientName": {"type": "string", "example": "Corner Store"},
                "reason": {"type": "string", "example": "Groceries"},
                "amount": {"type": "number", "example": 1250.5},
                "date": {"type": "string", "example": "2024-03-15T00:00:00Z"}
            }
        },
        "api.Expense": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "65392deb-5e92-4268-b114-297faad6cdce"},
                "recipientName": {"type": "string", "example": "Corner Store"},
                "reason": {"type": "string", "example": "Groceries"},
                "amount": {"type": "number", "example": 1250.5},
                "date": {"type": "string", "example": "2024-03-15T00:00:00Z"},
                "month": {"type": "string", "example": "March"},
                "year": {"type": "string", "example": "2024"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "api.ExpenseResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "expense": {"$ref": "#/definitions/api.Expense"}
            }
        },
        "api.ExpenseListResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "expenses": {"type": "array", "items": {"$ref": "#/definitions/api.Expense"}},
                "budget": {"type": "number", "example": 50000},
                "totalSpent": {"type": "number", "example": 1250.5},
                "balance": {"type": "number", "example": 48749.5}
            }
        },
        "api.SignUpEditable": {
            "type": "object",
            "properties": {
                "fullName": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "budget": {"type": "number"}
            }
        },
        "api.SignInEditable": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "api.BudgetEditable": {
            "type": "object",
            "properties": {"budget": {"type": "number", "example": 50000}}
        },
        "api.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "fullName": {"type": "string"},
                "email": {"type": "string"},
                "budget": {"type": "number"}
            }
        },
        "api.UserResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/api.User"}
            }
        },
        "router.RootResponse": {
            "type": "object",
            "properties": {
                "links": {
                    "type": "object",
                    "properties": {
                        "docs": {"type": "string"},
                        "healthz": {"type": "string"},
                        "version": {"type": "string"},
                        "metrics": {"type": "string"},
                        "expenses": {"type": "string"},
                        "auth": {"type": "string"}
                    }
                }
            }
        },
        "router.VersionResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object",
                    "properties": {"version": {"type": "string", "example": "1.1.0"}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
