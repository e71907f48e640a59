package cmd

import (
	"net/http"
	"time"

	"github.com/Rakhulsr/go-shop/app/configs"
	"github.com/Rakhulsr/go-shop/app/routes"
	"github.com/Rakhulsr/go-shop/app/services"
	"github.com/Rakhulsr/go-shop/app/utils/renderer"
	"github.com/Rakhulsr/go-shop/app/utils/sessions"
	"go.uber.org/zap"
)

// App is the wired HTTP application.
type App struct {
	Handler http.Handler
	closers []func()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func NewApp(env configs.ENV) (*App, error) {
	app := &App{}

	db, err := configs.OpenConnection(env)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		app.closers = append(app.closers, func() { _ = sqlDB.Close() })
	}

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return nil, err
	}
	secret := env.JWTSecret
	if secret == "" {
		zap.S().Warn("JWT_SECRET not set, signing tokens with APP_AUTH_KEY")
		secret = env.AppAuthKey
	}

	var notifier services.Notifier = services.LogNotifier{}
	if env.EmailHost != "" && env.AdminEmail != "" {
		mailer := services.NewMailer(services.Config{
			Host:     env.EmailHost,
			Port:     env.EmailPort,
			Username: env.EmailUsername,
			Password: env.EmailPassword,
			From:     env.EmailFrom,
		})
		feedbackNotifier, err := services.NewFeedbackNotifier(mailer, env.AdminEmail, env.NotifyWorkers)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, feedbackNotifier.Close)
		notifier = feedbackNotifier
	} else {
		zap.S().Info("EMAIL_HOST or ADMIN_EMAIL not set, feedback notifications are only logged")
	}

	var gateway services.PaymentGateway
	if env.MidtransServerKey != "" {
		gateway = configs.NewSnapClient(env)
	} else {
		zap.S().Info("MIDTRANS_SERVER_KEY not set, payments are disabled")
	}

	app.Handler = routes.NewRouter(routes.Deps{
		DB:                db,
		Render:            renderer.New(!env.IsProduction()),
		Storage:           services.NewLocalStorage(env.MediaRoot, env.MediaURL),
		Sessions:          sessions.NewCookieSessionStore(env.IsProduction(), keys.AuthKey, keys.EncKey),
		Notifier:          notifier,
		Gateway:           gateway,
		JWTSecret:         secret,
		JWTTTL:            time.Duration(env.JWTTTLHours) * time.Hour,
		MidtransServerKey: env.MidtransServerKey,
		AppURL:            env.AppURL,
		MediaRoot:         env.MediaRoot,
		MediaURL:          env.MediaURL,
		CSRFKey:           keys.AuthKey[:32],
		CSRFEnabled:       env.CSRFEnabled,
		Secure:            env.IsProduction(),
	})
	return app, nil
}
