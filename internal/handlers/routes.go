package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shubhamsharma-10/CloudDrive/internal/middleware"
)

type Handlers struct {
	Auth  *AuthHandler
	Files *FilesHandler
	SSO   *SSOHandler
}

func RegisterRoutes(app *fiber.App, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, h.Auth.Me)

	if h.SSO != nil {
		ssoRoutes := authRoutes.Group("/sso")
		ssoRoutes.Get("/providers", h.SSO.ListProviders)
		ssoRoutes.Get("/:provider", h.SSO.BeginLogin)
		ssoRoutes.Get("/:provider/callback", h.SSO.HandleCallback)
	}

	// Registered before the authenticated group so anonymous link holders
	// never hit RequireAuth.
	api.Get("/files/shared/:token", h.Files.GetShared)

	fileRoutes := api.Group("/files", authMiddleware.RequireAuth)
	fileRoutes.Get("/", h.Files.List)
	fileRoutes.Get("/search", h.Files.Search)
	fileRoutes.Post("/upload", h.Files.Upload)
	fileRoutes.Get("/:id", h.Files.Get)
	fileRoutes.Put("/:id/rename", h.Files.Rename)
	fileRoutes.Delete("/:id", h.Files.Delete)
	fileRoutes.Get("/:id/download", h.Files.Download)
	fileRoutes.Post("/:id/share", h.Files.Share)
	fileRoutes.Post("/:id/unshare", h.Files.Unshare)
}
