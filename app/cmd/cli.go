package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/go-shop/app/configs"
	"github.com/Rakhulsr/go-shop/app/db/seeders"
	"github.com/Rakhulsr/go-shop/app/models/migrations"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/Rakhulsr/go-shop/app/services"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func NewCommand(env configs.ENV) *cli.Command {
	return &cli.Command{
		Name:  "shop",
		Usage: "e-commerce catalog API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, env)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, env)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					zap.S().Info("migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Fill the database with demo data",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "users", Value: int64(seeders.DefaultOptions().Users)},
					&cli.IntFlag{Name: "categories", Value: int64(seeders.DefaultOptions().Categories)},
					&cli.IntFlag{Name: "products", Value: int64(seeders.DefaultOptions().Products)},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					return seeders.DBSeed(db.WithContext(ctx), seeders.Options{
						Users:      int(c.Int("users")),
						Categories: int(c.Int("categories")),
						Products:   int(c.Int("products")),
					})
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "env-file", Usage: "also write the keys to this file"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return configs.GenerateSessionKeys(os.Stdout, c.String("env-file"))
				},
			},
			{
				Name:  "createsuperuser",
				Usage: "Create an administrator account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "email"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					users := services.NewUserService(db, repositories.NewUserRepository(db), repositories.NewImageRepository(db), nil)
					user, err := users.CreateSuperuser(ctx, services.UserInput{
						Username: c.String("username"),
						Password: c.String("password"),
						Email:    c.String("email"),
					})
					if err != nil {
						var verr *services.ValidationError
						if errors.As(err, &verr) {
							return fmt.Errorf("invalid superuser: %v", verr.Fields)
						}
						return err
					}
					fmt.Fprintf(os.Stdout, "superuser %q created with id %d\n", user.Username, user.ID)
					return nil
				},
			},
		},
	}
}

func RunCli(env configs.ENV) error {
	return NewCommand(env).Run(context.Background(), os.Args)
}

func serve(ctx context.Context, env configs.ENV) error {
	app, err := NewApp(env)
	if err != nil {
		return err
	}
	defer app.Close()

	server := &http.Server{
		Addr:              env.Port,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("server starting on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	zap.S().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
