// Package docs builds the OpenAPI 3 description of the HTTP API and serves it
// as JSON and YAML.
package docs

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

type object = map[string]any

func ref(name string) object {
	return object{"$ref": "#/components/schemas/" + name}
}

func arrayOf(items object) object {
	return object{"type": "array", "items": items}
}

func jsonContent(schema object) object {
	return object{"application/json": object{"schema": schema}}
}

func reply(description string, schema object) object {
	r := object{"description": description}
	if schema != nil {
		r["content"] = jsonContent(schema)
	}
	return r
}

func errorReply(description string) object {
	return reply(description, ref("Error"))
}

var idParam = object{
	"name":     "id",
	"in":       "path",
	"required": true,
	"schema":   object{"type": "string", "pattern": "^[0-9a-fA-F]{24}$"},
}

var pageParams = []object{
	{"name": "page", "in": "query", "schema": object{"type": "integer", "minimum": 1}},
	{"name": "limit", "in": "query", "schema": object{"type": "integer", "minimum": 1, "maximum": 500}},
}

type operation struct {
	summary string
	tag     string
	secured bool
	params  []object
	body    object
	replies map[string]object
}

func (o operation) render() object {
	op := object{
		"summary":   o.summary,
		"tags":      []string{o.tag},
		"responses": o.replies,
	}
	if o.secured {
		op["security"] = []object{{"bearerAuth": []string{}}}
		o.replies["401"] = errorReply("missing or invalid token")
	}
	if len(o.params) > 0 {
		op["parameters"] = o.params
	}
	if o.body != nil {
		op["requestBody"] = object{"required": true, "content": jsonContent(o.body)}
		o.replies["400"] = errorReply("validation failed")
	}
	return op
}

// crud describes the five routes shared by categories, products and users.
func crud(paths object, prefix, plural, tag, schema, input string, publicRead bool) {
	paths[prefix+"/"+plural] = object{
		"get": operation{
			summary: "List " + plural, tag: tag, secured: !publicRead, params: pageParams,
			replies: map[string]object{"200": reply("ok", arrayOf(ref(schema)))},
		}.render(),
		"post": operation{
			summary: "Create " + tag, tag: tag, secured: true, body: ref(input),
			replies: map[string]object{"201": reply("created", nil), "500": errorReply("server error")},
		}.render(),
	}
	paths[prefix+"/"+plural+"/{id}"] = object{
		"get": operation{
			summary: "Get " + tag, tag: tag, secured: !publicRead, params: []object{idParam},
			replies: map[string]object{"200": reply("ok", ref(schema)), "404": errorReply("not found")},
		}.render(),
		"put": operation{
			summary: "Update " + tag, tag: tag, secured: true, params: []object{idParam}, body: ref(input),
			replies: map[string]object{"200": reply("updated", nil), "404": errorReply("not found")},
		}.render(),
		"delete": operation{
			summary: "Delete " + tag, tag: tag, secured: true, params: []object{idParam},
			replies: map[string]object{"200": reply("deleted", nil), "404": errorReply("not found")},
		}.render(),
	}
}

func schemas() object {
	str := object{"type": "string"}
	id := object{"type": "string", "pattern": "^[0-9a-fA-F]{24}$"}
	ts := object{"type": "string", "format": "date-time"}
	num := object{"type": "number"}
	statuses := []string{"pending", "confirmed", "shipped", "delivered", "canceled"}

	return object{
		"Error": object{"type": "object", "properties": object{
			"error":   str,
			"details": object{},
		}},
		"Category": object{"type": "object", "properties": object{
			"id": id, "name": str, "createdAt": ts, "updatedAt": ts,
		}},
		"CategoryInput": object{"type": "object", "required": []string{"name"}, "properties": object{
			"name": object{"type": "string", "minLength": 2, "maxLength": 50},
		}},
		"Product": object{"type": "object", "properties": object{
			"id": id, "name": str, "price": num, "category": str, "desc": str, "createdAt": ts, "updatedAt": ts,
		}},
		"ProductInput": object{"type": "object", "required": []string{"name", "price", "category", "desc"}, "properties": object{
			"name":     object{"type": "string", "minLength": 3, "maxLength": 100},
			"price":    num,
			"category": object{"type": "string", "minLength": 3, "maxLength": 100},
			"desc":     object{"type": "string", "minLength": 3, "maxLength": 500},
		}},
		"User": object{"type": "object", "properties": object{
			"id": id, "username": str, "email": str,
			"role":      object{"type": "string", "enum": []string{"user", "admin"}},
			"createdAt": ts, "updatedAt": ts,
		}},
		"UserInput": object{"type": "object", "properties": object{
			"username": object{"type": "string", "minLength": 3, "maxLength": 50},
			"email":    object{"type": "string", "format": "email"},
			"role":     object{"type": "string", "enum": []string{"user", "admin"}},
		}},
		"Register": object{"type": "object", "required": []string{"username", "email", "password"}, "properties": object{
			"username": object{"type": "string", "minLength": 3, "maxLength": 50},
			"email":    object{"type": "string", "format": "email"},
			"password": object{"type": "string", "minLength": 6, "maxLength": 72},
		}},
		"Login": object{"type": "object", "required": []string{"email", "password"}, "properties": object{
			"email": object{"type": "string", "format": "email"}, "password": str,
		}},
		"OrderLine": object{"type": "object", "required": []string{"productId", "quantity"}, "properties": object{
			"productId": id, "quantity": object{"type": "integer", "minimum": 1},
		}},
		"OrderInput": object{"type": "object", "required": []string{"userId", "products", "totalPrice"}, "properties": object{
			"userId":     id,
			"products":   object{"type": "array", "minItems": 1, "items": ref("OrderLine")},
			"totalPrice": num,
		}},
		"OrderUpdate": object{"type": "object", "properties": object{
			"userId":     id,
			"products":   object{"type": "array", "minItems": 1, "items": ref("OrderLine")},
			"status":     object{"type": "string", "enum": statuses},
			"totalPrice": num,
		}},
		"OrderView": object{"type": "object", "properties": object{
			"id": id, "userId": id, "username": str,
			"products": arrayOf(object{"type": "object", "properties": object{
				"productId": id, "productName": str, "quantity": object{"type": "integer"},
			}}),
			"status":     object{"type": "string", "enum": statuses},
			"totalPrice": num, "createdAt": ts, "updatedAt": ts,
		}},
	}
}

// Document returns the OpenAPI document for routes mounted under prefix.
func Document(prefix string) object {
	prefix = strings.TrimRight(prefix, "/")
	paths := object{}

	crud(paths, prefix, "categories", "category", "Category", "CategoryInput", true)
	crud(paths, prefix, "products", "product", "Product", "ProductInput", true)
	crud(paths, prefix, "users", "user", "User", "UserInput", false)
	delete(paths[prefix+"/users"].(object), "post")

	paths[prefix+"/users/register"] = object{"post": operation{
		summary: "Register a user", tag: "user", body: ref("Register"),
		replies: map[string]object{"201": reply("registered", nil), "409": errorReply("username or email taken")},
	}.render()}
	paths[prefix+"/users/login"] = object{"post": operation{
		summary: "Log in", tag: "user", body: ref("Login"),
		replies: map[string]object{"200": reply("token issued", nil), "401": errorReply("invalid credentials")},
	}.render()}

	includeCanceled := object{"name": "includeCanceled", "in": "query", "schema": object{"type": "boolean"}}
	paths[prefix+"/orders"] = object{
		"get": operation{
			summary: "List orders", tag: "order", params: append([]object{includeCanceled}, pageParams...),
			replies: map[string]object{"200": reply("ok", arrayOf(ref("OrderView")))},
		}.render(),
		"post": operation{
			summary: "Create order", tag: "order", secured: true, body: ref("OrderInput"),
			replies: map[string]object{"201": reply("created", nil), "403": errorReply("forbidden")},
		}.render(),
	}
	paths[prefix+"/orders/{id}"] = object{
		"get": operation{
			summary: "Get order", tag: "order", params: []object{idParam},
			replies: map[string]object{"200": reply("ok", ref("OrderView")), "404": errorReply("not found")},
		}.render(),
		"put": operation{
			summary: "Update order", tag: "order", secured: true, params: []object{idParam}, body: ref("OrderUpdate"),
			replies: map[string]object{"200": reply("updated", nil), "404": errorReply("not found")},
		}.render(),
		"delete": operation{
			summary: "Delete order", tag: "order", secured: true, params: []object{idParam},
			replies: map[string]object{"200": reply("deleted", nil), "404": errorReply("not found")},
		}.render(),
	}
	paths[prefix+"/orders/{id}/cancel"] = object{"post": operation{
		summary: "Cancel order", tag: "order", secured: true, params: []object{idParam},
		replies: map[string]object{
			"200": reply("canceled", nil),
			"403": errorReply("forbidden"),
			"404": errorReply("not found"),
			"409": errorReply("order cannot be canceled"),
		},
	}.render()}

	return object{
		"openapi": "3.0.3",
		"info": object{
			"title":       "E-commerce back-office API",
			"version":     "1.0.0",
			"description": "Users, products, categories and orders.",
		},
		"paths": paths,
		"components": object{
			"schemas": schemas(),
			"securitySchemes": object{
				"bearerAuth": object{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
			},
		},
	}
}

func JSON(prefix string) gin.HandlerFunc {
	doc := Document(prefix)
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	}
}

// YAML marshals the document once and serves the bytes.
func YAML(prefix string) gin.HandlerFunc {
	body, err := yaml.Marshal(Document(prefix))
	return func(c *gin.Context) {
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server error", "details": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/yaml", body)
	}
}
