package routes

import (
	"translation-backend/internal/handlers"
	"translation-backend/internal/middleware"
	"translation-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type Deps struct {
	Translations *handlers.TranslationHandler
	ImportExport *handlers.ImportExportHandler
	Namespaces   *handlers.NamespaceHandler
	Auth         *handlers.AuthHandler
	WebSocket    fiber.Handler
}

func Setup(app *fiber.App, deps Deps, protected fiber.Handler) {
	api := app.Group("/api")

	// Translation routes. Read endpoints are public; mutations are gated by
	// role. Static segments (/stats, /bulk, ...) register before /:id so the
	// param route does not shadow them.
	translations := api.Group("/translations")
	{
		translations.Get("/", deps.Translations.GetAllTranslations)
		translations.Get("/stats", deps.Translations.GetStats)
		translations.Get("/completeness", deps.Translations.GetCompleteness)

		translations.Post("/", protected, middleware.RequireRole(models.RoleTranslator), deps.Translations.CreateTranslation)
		translations.Put("/bulk", protected, middleware.RequireRole(models.RoleEditor), deps.Translations.BulkUpdateTranslations)

		translations.Post("/import", protected, middleware.RequireRole(models.RoleAdmin), deps.ImportExport.ImportCSV)
		translations.Post("/export", protected, middleware.RequireRole(models.RoleAdmin), deps.ImportExport.ExportCSV)
		translations.Post("/sync", protected, middleware.RequireRole(models.RoleAdmin), deps.Translations.SyncLocaleFiles)

		translations.Get("/:id", deps.Translations.GetTranslationByID)
		translations.Get("/:id/versions", deps.Translations.GetTranslationVersions)
		translations.Put("/:id", protected, middleware.RequireRole(models.RoleTranslator), deps.Translations.UpdateTranslation)
		translations.Patch("/:id/publish", protected, middleware.RequireRole(models.RoleEditor), deps.Translations.PublishTranslation)
		translations.Patch("/:id/unpublish", protected, middleware.RequireRole(models.RoleEditor), deps.Translations.UnpublishTranslation)
		translations.Delete("/:id", protected, middleware.RequireRole(models.RoleEditor), deps.Translations.DeleteTranslation)
	}

	// Namespace routes
	namespaces := api.Group("/namespaces")
	{
		namespaces.Get("/", deps.Namespaces.GetNamespaces)
		namespaces.Post("/", protected, middleware.RequireRole(models.RoleAdmin), deps.Namespaces.CreateNamespace)
	}

	// Auth routes
	api.Get("/auth/me", protected, deps.Auth.Me)

	// Realtime update feed
	app.Use("/ws", handlers.UpgradeRequired)
	app.Get("/ws", deps.WebSocket)
}
