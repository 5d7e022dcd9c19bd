// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/wallet_backend/main.go -o cmd/docs
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
        "/users": {"post": {"tags": ["users"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "403": {"description": "Reputation check failed"}, "409": {"description": "Email already registered"}}}},
        "/users/login": {"post": {"tags": ["users"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}, "429": {"description": "Too many requests"}}}},
        "/users/oauth/google/url": {"get": {"tags": ["oauth"], "summary": "Google consent URL", "responses": {"200": {"description": "OK"}}}},
        "/users/oauth/google/exchange-code": {"post": {"tags": ["oauth"], "summary": "Exchange a Google authorization code for a session", "responses": {"200": {"description": "OK"}}}},
        "/accounts": {
            "get": {"tags": ["accounts"], "summary": "Get my account", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["accounts"], "summary": "Open my account", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Account already exists"}}},
            "delete": {"tags": ["accounts"], "summary": "Close my account", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/transactions": {"get": {"tags": ["transactions"], "summary": "List my transactions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/transactions/{id}": {"get": {"tags": ["transactions"], "summary": "Get a transaction", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/transactions/deposit": {"post": {"tags": ["transactions"], "summary": "Deposit into my account", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/transactions/withdraw": {"post": {"tags": ["transactions"], "summary": "Withdraw from my account", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/transactions/transfer": {"post": {"tags": ["transactions"], "summary": "Transfer to another account", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/wallet",
	Schemes:          []string{},
	Title:            "Wallet Backend API",
	Description:      "Accounts, deposits, withdrawals and transfers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
