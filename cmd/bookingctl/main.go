// bookingctl tareas de administración fuera del servidor HTTP.
//
// Uso:
//
//	go run ./cmd/bookingctl migrate
//	go run ./cmd/bookingctl bootstrap-admin --email admin@agencia.com --first-name Ana --last-name Ruiz
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Booking-api/internal/application/auth"
	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Booking-api/migrations"
	"github.com/jhoicas/Booking-api/pkg/config"
	"github.com/jhoicas/Booking-api/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "bookingctl",
		Short:         "Herramientas de administración de Booking API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(bootstrapAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup carga configuración, logger y pool compartidos por los subcomandos.
func setup(ctx context.Context) (*config.Config, *logger.Logger, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return cfg, log, pool, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			_, log, pool, err := setup(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := postgres.Migrate(ctx, pool, migrations.FS)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				log.Info().Msg("esquema al día")
				return nil
			}
			log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
			return nil
		},
	}
}

func bootstrapAdminCmd() *cobra.Command {
	var in dto.RegisterFirstAdminRequest
	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Crea el administrador inicial si todavía no existe ninguno",
		Long: `Crea el administrador inicial. La contraseña se toma de --password
o, si no se indica, de la variable BOOTSTRAP_ADMIN_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
			}
			if len(in.Password) < 8 {
				return fmt.Errorf("la contraseña debe tener al menos 8 caracteres")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			cfg, log, pool, err := setup(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			tokens := auth.NewTokenIssuer(auth.JWTConfig{
				Secret:     cfg.JWT.Secret,
				ExpMinutes: cfg.JWT.Expiration,
				Issuer:     cfg.JWT.Issuer,
			})
			uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), postgres.NewTxRunner(pool), tokens)
			out, err := uc.RegisterFirstAdmin(ctx, in)
			if err != nil {
				return err
			}
			log.Info().Str("user_id", out.User.ID).Str("email", out.User.Email).Msg("administrador creado")
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email del administrador")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "Admin", "nombre")
	cmd.Flags().StringVar(&in.LastName, "last-name", "Principal", "apellido")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "teléfono")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
