package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"growsense/internal/handlers"
	"growsense/internal/logging"
	"growsense/internal/metrics"
	"growsense/internal/pages"
	"growsense/internal/repository"
	"growsense/internal/service"
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	Port           string
	Logger         *logging.ContextLogger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	GinMode        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	Site           pages.Site
	StoreDriver    string
	Repository     repository.SignupRepository // Falls back to in-memory when nil
	ServiceOptions []service.Option
}

type Application struct {
	server *http.Server
	config *Config
	router *gin.Engine
	repo   repository.SignupRepository
}

func Build(config *Config) (*Application, error) {
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}

	var repo repository.SignupRepository
	if config.Repository != nil {
		repo = config.Repository
	} else {
		repo = repository.NewInMemorySignupRepository()
	}

	meterProvider := config.MeterProvider
	if meterProvider == nil {
		meterProvider = otel.GetMeterProvider()
	}
	appMetrics, err := metrics.New(meterProvider.Meter(config.ServiceName))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	signupService := service.NewSignupService(repo, config.Logger, appMetrics, config.ServiceOptions...)
	signupHandler := handlers.NewSignupHandler(signupService, config.Site, config.Logger)
	pageHandler := handlers.NewPageHandler(config.Site, appMetrics)

	router := gin.New()
	router.Use(gin.Recovery())

	var otelOpts []otelgin.Option
	if config.TracerProvider != nil {
		otelOpts = append(otelOpts, otelgin.WithTracerProvider(config.TracerProvider))
	}
	router.Use(otelgin.Middleware(config.ServiceName, otelOpts...))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		config.Logger.WithTracing(c.Request.Context()).WithFields(map[string]interface{}{
			"method":     method,
			"path":       path,
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}).Info("HTTP request completed")
	})

	router.SetHTMLTemplate(pages.Templates())
	router.StaticFS("/static", pages.Static())

	for _, page := range pages.Pages {
		if page.Name == "register" {
			continue
		}
		router.GET(page.Path, pageHandler.Show(page))
	}
	router.GET("/register", signupHandler.ShowForm)
	router.POST("/register", signupHandler.SubmitForm)

	api := router.Group("/api/v1")
	{
		api.POST("/signups", signupHandler.CreateSignup)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"service":   config.ServiceName,
			"version":   config.ServiceVersion,
			"store":     config.StoreDriver,
		})
	})

	server := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return &Application{
		server: server,
		config: config,
		router: router,
		repo:   repo,
	}, nil
}

func (app *Application) Run() error {
	app.config.Logger.Info("Starting server on :" + app.config.Port)
	if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (app *Application) Shutdown(ctx context.Context) error {
	app.config.Logger.Info("Shutting down server...")
	return app.server.Shutdown(ctx)
}

func (app *Application) GetRepo() repository.SignupRepository {
	return app.repo
}

func (app *Application) GetRouter() *gin.Engine {
	return app.router
}
