package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/auth"
	"catalogapi/internal/model"
	"catalogapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Reads
// are public; mutations require a valid bearer token, with delete,
// approve and reject reserved for admins.
func RegisterRoutes(app *fiber.App, db *sql.DB, catalogSvc service.CatalogService, suggestionSvc service.SuggestionService, authMW *auth.Middleware) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// protected prefixes a handler with token verification and a role gate.
	protected := func(h fiber.Handler, roles ...model.Role) []fiber.Handler {
		return []fiber.Handler{authMW.Protect(), auth.RequireRoles(roles...), h}
	}

	app.Get("/catalog", ListItems(catalogSvc))
	app.Post("/catalog", protected(CreateItem(catalogSvc), model.RoleRegular, model.RoleAdmin)...)
	app.Get("/catalog/:id", GetItem(catalogSvc))
	app.Put("/catalog/:id", protected(UpdateItem(catalogSvc), model.RoleRegular, model.RoleAdmin)...)
	app.Delete("/catalog/:id", protected(DeleteItem(catalogSvc), model.RoleAdmin)...)

	app.Post("/catalog/:id/approve", protected(ApproveItem(catalogSvc), model.RoleAdmin)...)
	app.Post("/catalog/:id/reject", protected(RejectItem(catalogSvc), model.RoleAdmin)...)

	app.Post("/catalog/:id/image", protected(AttachItemImage(catalogSvc), model.RoleRegular, model.RoleAdmin)...)
	app.Get("/catalog/:id/image", GetItemImage(catalogSvc))

	app.Post("/suggestions", protected(SuggestContent(suggestionSvc), model.RoleRegular, model.RoleAdmin)...)
	app.Get("/suggestions/catalog/:id", protected(SuggestForItem(suggestionSvc), model.RoleRegular, model.RoleAdmin)...)
}
