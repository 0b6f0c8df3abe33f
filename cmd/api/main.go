package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appaudit "github.com/jhoicas/pos-engine/internal/application/audit"
	"github.com/jhoicas/pos-engine/internal/application/loyalty"
	"github.com/jhoicas/pos-engine/internal/application/orders"
	infraaudit "github.com/jhoicas/pos-engine/internal/infrastructure/audit"
	"github.com/jhoicas/pos-engine/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-engine/internal/interfaces/http"
	"github.com/jhoicas/pos-engine/pkg/config"
	"github.com/jhoicas/pos-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Sink de auditoría: Kafka si hay brokers, si no solo log. Fire-and-forget:
	// su fallo nunca afecta la transacción de negocio.
	var auditSink appaudit.Sink
	var kafkaSink *infraaudit.KafkaSink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink = infraaudit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log.Zerolog())
		auditSink = kafkaSink
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.AuditTopic).Msg("auditoría vía Kafka")
	} else {
		auditSink = infraaudit.NewLogSink(log.Zerolog())
	}

	businessRepo := postgres.NewBusinessRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	ledgerRepo := postgres.NewPointsLedgerRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Engine.LockTimeoutMS)

	resolver := orders.NewResolver(variantRepo, productRepo, recipeRepo)
	loyaltyUC := loyalty.NewUseCase(txRunner, customerRepo, ledgerRepo, auditSink)
	createOrderUC := orders.NewCreateOrderUseCase(
		txRunner, resolver, businessRepo, customerRepo, orderRepo, loyaltyUC, auditSink,
		cfg.Engine.PointsUnitValue,
	)
	deleteOrderUC := orders.NewDeleteOrderUseCase(txRunner, auditSink)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	registerSwagger(app, log, "./docs/swagger.json")

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateOrder: createOrderUC,
		DeleteOrder: deleteOrderUC,
		Loyalty:     loyaltyUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			log.Error().Err(err).Msg("cierre del sink de auditoría")
		}
	}

	log.Info().Msg("aplicación detenida")
}

// registerSwagger monta la UI de documentación solo si el archivo generado
// existe; sin el archivo la API arranca igual, solo sin /docs.
func registerSwagger(app *fiber.App, log *logger.Logger, filePath string) {
	if _, err := os.Stat(filePath); err != nil {
		log.Warn().Str("file", filePath).Msg("swagger.json no encontrado, UI de docs deshabilitada")
		return
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    "POS Engine API",
	}))
}
