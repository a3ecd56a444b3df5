package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"catalogapi/docs"
)

// RegisterDocs serves the Swagger UI and document under /swagger.
// The advertised host and scheme are fixed here, before the app starts
// serving, and never touched from a request.
func RegisterDocs(app *fiber.App, host, scheme string) {
	docs.SwaggerInfo.Host = host
	docs.SwaggerInfo.Schemes = []string{scheme}

	app.Get("/swagger/*", swagger.HandlerDefault)
}
