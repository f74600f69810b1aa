// Package docs регистрирует описание локального API для /docs.
// Перегенерируется командой go generate ./cmd/bukafresh.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Backend reachability", "responses": {"200": {"description": "OK"}, "503": {"description": "Backend unreachable"}}}},
        "/packages": {"get": {"tags": ["catalog"], "summary": "List grocery packages", "responses": {"200": {"description": "OK"}}}},
        "/packages/{name}": {"get": {"tags": ["catalog"], "summary": "Get package by name", "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/session": {"get": {"tags": ["session"], "summary": "Session status", "responses": {"200": {"description": "OK"}}}},
        "/session/login": {"post": {"tags": ["session"], "summary": "Sign in", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/session/register": {"post": {"tags": ["session"], "summary": "Create account", "responses": {"201": {"description": "Created"}, "409": {"description": "Already registered"}}}},
        "/session/logout": {"post": {"tags": ["session"], "summary": "Sign out", "responses": {"200": {"description": "OK"}}}},
        "/verify-email": {"get": {"tags": ["verification"], "summary": "Verify email from link", "parameters": [{"name": "token", "in": "query", "type": "string"}, {"name": "userId", "in": "query", "type": "string"}], "responses": {"200": {"description": "Screen state"}}}},
        "/verify-email/resend": {"post": {"tags": ["verification"], "summary": "Resend verification email", "responses": {"200": {"description": "OK"}, "429": {"description": "Too many requests"}}}},
        "/checkout": {"get": {"tags": ["checkout"], "summary": "Checkout state", "responses": {"200": {"description": "OK"}}}, "delete": {"tags": ["checkout"], "summary": "Reset checkout", "responses": {"200": {"description": "OK"}}}},
        "/checkout/submit": {"post": {"tags": ["checkout"], "summary": "Create account with delivery address", "responses": {"201": {"description": "Created"}, "422": {"description": "Incomplete checkout"}}}},
        "/profile": {"get": {"tags": ["profile"], "summary": "Current user profile", "responses": {"200": {"description": "OK"}, "401": {"description": "No session"}}}},
        "/subscriptions": {"get": {"tags": ["subscriptions"], "summary": "List subscriptions", "responses": {"200": {"description": "OK"}}}, "post": {"tags": ["subscriptions"], "summary": "Create subscription", "responses": {"201": {"description": "Created"}}}},
        "/subscriptions/current": {"get": {"tags": ["subscriptions"], "summary": "Current subscription", "responses": {"200": {"description": "OK"}, "404": {"description": "No subscription"}}}},
        "/subscriptions/{id}": {"delete": {"tags": ["subscriptions"], "summary": "Delete subscription", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Subscription is active"}}}},
        "/subscriptions/{id}/{action}": {"post": {"tags": ["subscriptions"], "summary": "Pause, resume, cancel or activate", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "action", "in": "path", "required": true, "type": "string", "enum": ["pause", "resume", "cancel", "activate"]}], "responses": {"200": {"description": "OK"}}}},
        "/subscriptions/{id}/payments": {"get": {"tags": ["payments"], "summary": "Payments of a subscription", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/payments": {"get": {"tags": ["payments"], "summary": "User payments", "responses": {"200": {"description": "OK"}}}, "post": {"tags": ["payments"], "summary": "Process payment", "responses": {"201": {"description": "Created"}, "422": {"description": "Invalid payment details"}}}},
        "/payments/{id}": {"get": {"tags": ["payments"], "summary": "Payment by id", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "bukafresh local API",
	Description:      "Локальный JSON API клиента подписки на продуктовые наборы bukafresh",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
