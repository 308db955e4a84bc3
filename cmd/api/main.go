package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Booking-api/internal/application/auth"
	"github.com/jhoicas/Booking-api/internal/application/usecase"
	"github.com/jhoicas/Booking-api/internal/application/voucher"
	"github.com/jhoicas/Booking-api/internal/domain/orderpolicy"
	"github.com/jhoicas/Booking-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/Booking-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Booking-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Booking-api/internal/interfaces/http"
	"github.com/jhoicas/Booking-api/pkg/config"
	"github.com/jhoicas/Booking-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == config.DevJWTSecret {
		log.Warn().Msg("JWT_SECRET no definido: se usa el secreto de desarrollo")
	}

	policy, err := orderpolicy.ParseStatusPolicy(cfg.Orders.StatusPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("ORDER_STATUS_POLICY")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepositories(pool)
	txRunner := postgres.NewTxRunner(pool)

	tokens := auth.NewTokenIssuer(auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	authUC := auth.NewAuthUseCase(repos.Users, txRunner, tokens)
	invitationUC := usecase.NewInvitationUseCase(
		repos.Users, repos.Invitations, txRunner, tokens,
		mail.New(cfg.SMTP, log), cfg.App.FrontendURL, log,
	)
	agentUC := usecase.NewAgentUseCase(repos.Users)
	orderUC := usecase.NewOrderUseCase(repos.Orders, repos.Users, txRunner, orderpolicy.NewAuthorizer(policy), log)
	bankAccountUC := usecase.NewBankAccountUseCase(repos.BankAccounts, repos.Users)

	// Voucher PDF de pedidos aprobados
	voucherUC := voucher.NewUseCase(
		repos.Orders, repos.Users, repos.BankAccounts,
		infrapdf.NewVoucherGenerator(),
		voucher.Agency{
			Name:  cfg.Voucher.AgencyName,
			Phone: cfg.Voucher.AgencyPhone,
			Email: cfg.Voucher.AgencyEmail,
		},
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log, cfg.App.IsProduction()),
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.App.IsProduction()}))
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Booking API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger deshabilitado: fichero no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		InvitationUC:  invitationUC,
		AgentUC:       agentUC,
		OrderUC:       orderUC,
		BankAccountUC: bankAccountUC,
		VoucherUC:     voucherUC,
		Users:         repos.Users,
		DB:            pool,
		Env:           cfg.App.Env,
		JWTSecret:     cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
