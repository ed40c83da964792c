package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/registro-api/internal/application/auth"
	"github.com/jhoicas/registro-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	CompanyUC *usecase.CompanyUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	authHandler := NewAuthHandler(deps.AuthUC)
	userHandler := NewUserHandler(deps.UserUC)
	companyHandler := NewCompanyHandler(deps.CompanyUC)

	// Users (registro y token, públicos; el avatar también es público)
	users := api.Group("/users")
	users.Post("/register", authHandler.Register)
	users.Post("/token", authHandler.Token)
	users.Get("/:id/avatar", userHandler.Avatar)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))

	// Perfil propio (protegido)
	me := protected.Group("/users")
	me.Get("/me", userHandler.Me)
	me.Put("/me", userHandler.UpdateMe)

	// Companies (protegido)
	companies := protected.Group("/companies")
	companies.Post("/", companyHandler.Create)
	companies.Get("/my", companyHandler.GetMine)
	companies.Put("/my", companyHandler.ReplaceMine)

	// Administración (protegido + rol admin)
	admin := protected.Group("/admin", RequireAdmin())
	admin.Get("/users", userHandler.AdminList)
	admin.Put("/users/:id", userHandler.AdminUpdate)
}
