package http

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Manufactura-api/docs"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/notify"
	"github.com/jhoicas/Manufactura-api/pkg/jwt"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// RouterDeps dependencias para el router. Hub, Metrics y Slips son opcionales.
type RouterDeps struct {
	AppName       string
	DispositionUC *qa.DispositionUseCase
	LotUC         *inventory.LotUseCase
	Slips         SlipGenerator
	Hub           *notify.Hub
	Metrics       *metrics.Metrics
	Log           *logger.Logger
	JWTSecret     string // vacío = API sin autenticación
	SwaggerFile   string // Swagger UI en /docs si el archivo existe
}

// Router registra middlewares y rutas de la API. Se llama antes de cualquier otra ruta.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(requestid.New())
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}
	app.Use(RequestLogger(deps.Log))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}
	if deps.Hub != nil {
		app.Use("/ws", notify.UpgradeRequired)
		app.Get("/ws", deps.Hub.Handler())
	}

	app.Get("/docs/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})
	if deps.SwaggerFile != "" {
		if _, err := os.Stat(deps.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: deps.SwaggerFile,
				Path:     "docs",
				Title:    deps.AppName,
			}))
		}
	}

	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
	}
	writers := requireRole(deps.JWTSecret != "", jwt.RoleAdmin, jwt.RoleCalidad)

	qaGroup := api.Group("/quality-assurance")
	qaHandler := NewQAHandler(deps.DispositionUC, deps.Slips)
	qaGroup.Get("/batches/:batch_id/slip.pdf", qaHandler.GetSlip)
	qaGroup.Get("/batches/:batch_id", qaHandler.GetBatch)
	qaGroup.Post("/:inventory_id/partial", writers, qaHandler.PartialDisposition)
	qaGroup.Get("/:inventory_id/rejections", qaHandler.ListRejections)

	lots := api.Group("/inventory/lots")
	lotHandler := NewLotHandler(deps.LotUC)
	lots.Get("/", lotHandler.List)
	lots.Get("/:id", lotHandler.GetByID)
}

// requireRole solo restringe si la autenticación está activa.
func requireRole(enabled bool, roles ...string) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return RequireRole(roles...)
}
