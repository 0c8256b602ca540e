// Package docs holds the generated swagger specification.
// Regenerate with: swag init -g cmd/app/main.go
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Bearer token issued by /auth/telegram or /auth/google"
        }
    },
    "paths": {
        "/auth/telegram": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in with Telegram",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Init data rejected"}}
            }
        },
        "/auth/google": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in with Google",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}}
            }
        },
        "/users/me": {
            "get": {
                "tags": ["users"],
                "security": [{"BearerAuth": []}],
                "summary": "Get the authenticated user",
                "responses": {"200": {"description": "OK"}, "404": {"description": "User not found"}}
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["users"],
                "security": [{"BearerAuth": []}],
                "summary": "Get a user profile",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "User not found"}}
            }
        },
        "/wishlists": {
            "post": {
                "tags": ["wishlists"],
                "security": [{"BearerAuth": []}],
                "summary": "Create a wishlist",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
            },
            "get": {
                "tags": ["wishlists"],
                "security": [{"BearerAuth": []}],
                "summary": "List wishlists",
                "parameters": [
                    {"name": "owner_id", "in": "query", "type": "string"},
                    {"name": "public", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/wishlists/{id}": {
            "get": {
                "tags": ["wishlists"],
                "security": [{"BearerAuth": []}],
                "summary": "Get a wishlist with wishes and members",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "No access"}, "404": {"description": "Not found"}}
            }
        },
        "/wishlists/{id}/join": {
            "post": {
                "tags": ["wishlists"],
                "security": [{"BearerAuth": []}],
                "summary": "Join a public wishlist",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Wishlist is private"}, "409": {"description": "Already a member"}}
            }
        },
        "/wishlists/{id}/invite": {
            "post": {
                "tags": ["wishlists"],
                "security": [{"BearerAuth": []}],
                "summary": "Invite a user as viewer",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Insufficient role"}, "409": {"description": "Already a member"}}
            }
        },
        "/wishlists/{id}/leave": {
            "post": {
                "tags": ["wishlists"],
                "security": [{"BearerAuth": []}],
                "summary": "Leave a wishlist",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Left"}, "409": {"description": "Owner cannot leave"}}
            }
        },
        "/wishlists/{id}/wishes": {
            "post": {
                "tags": ["wishes"],
                "security": [{"BearerAuth": []}],
                "summary": "Add a wish",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Insufficient role"}}
            }
        },
        "/wishes/{id}": {
            "put": {
                "tags": ["wishes"],
                "security": [{"BearerAuth": []}],
                "summary": "Update a wish",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Wish not found"}}
            },
            "delete": {
                "tags": ["wishes"],
                "security": [{"BearerAuth": []}],
                "summary": "Delete a wish",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Wish not found"}}
            }
        },
        "/wishes/{id}/book": {
            "post": {
                "tags": ["wishes"],
                "security": [{"BearerAuth": []}],
                "summary": "Book a wish",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Already booked or illegal transition"}}
            }
        },
        "/wishes/{id}/unbook": {
            "post": {
                "tags": ["wishes"],
                "security": [{"BearerAuth": []}],
                "summary": "Release a booked wish",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Illegal transition"}}
            }
        },
        "/wishes/{id}/gift": {
            "post": {
                "tags": ["wishes"],
                "security": [{"BearerAuth": []}],
                "summary": "Mark a wish as gifted",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Illegal transition"}}
            }
        },
        "/wishes/{id}/ungift": {
            "post": {
                "tags": ["wishes"],
                "security": [{"BearerAuth": []}],
                "summary": "Revert a gift mark",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Illegal transition"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "WishManager API",
	Description:      "Backend for shared wishlists: create lists, invite friends and book gifts without spoiling the surprise.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
