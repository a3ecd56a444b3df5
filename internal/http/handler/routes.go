package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"catalogapi/internal/service"
)

// Services bundles the business services the HTTP layer depends on.
type Services struct {
	Products service.ProductService
	Users    service.UserService
	Exports  service.ExportService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, log zerolog.Logger, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	products := api.Group("/products")
	products.Get("/", ListProducts(svc.Products, log))
	// Registered ahead of /:id so "search" is not taken for an id.
	products.Get("/search", SearchProducts(svc.Products, log))
	products.Get("/:id", GetProduct(svc.Products, log))
	products.Post("/", CreateProduct(svc.Products, log))
	products.Put("/:id", UpdateProduct(svc.Products, log))
	products.Delete("/:id", DeleteProduct(svc.Products, log))

	users := api.Group("/users")
	users.Get("/", ListUsers(svc.Users, log))
	users.Get("/:id", GetUser(svc.Users, log))
	users.Post("/", CreateUser(svc.Users, log))
	users.Post("/:id/products/:productId", LinkProduct(svc.Users, log))

	api.Post("/exports/users", ExportUsers(svc.Exports, log))
}
