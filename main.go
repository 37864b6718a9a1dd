package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/backsoul/quizgate/pkg/auth"
	"github.com/backsoul/quizgate/pkg/config"
	"github.com/backsoul/quizgate/pkg/extractor"
	"github.com/backsoul/quizgate/pkg/handlers"
	"github.com/backsoul/quizgate/pkg/logger"
	"github.com/backsoul/quizgate/pkg/models"
	"github.com/backsoul/quizgate/pkg/services"
	"github.com/backsoul/quizgate/pkg/store"
	"github.com/backsoul/quizgate/pkg/websocket"
)

func main() {
	cfg, err := config.LoadConfig(getEnv("QUIZGATE_CONFIG_PATH", "."))
	if err != nil {
		// todavía no hay logger configurado
		zap.NewExample().Fatal("❌ Configuración inválida", zap.Error(err))
	}

	log := logger.New(cfg)
	defer func() { _ = log.Sync() }()
	log.Info("🚀 Iniciando servidor QuizGate")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Almacenamiento
	log.Info("🔌 Conectando almacenamiento", zap.String("driver", cfg.Store.Driver))
	backend, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		log.Fatal("❌ Error abriendo almacenamiento", zap.Error(err))
	}
	defer backend.Close()

	gate, err := auth.NewGate(auth.Options{
		Password:        cfg.Admin.Password,
		PasswordHash:    cfg.Admin.PasswordHash,
		JWTSecret:       cfg.Admin.JWTSecret,
		TokenTTL:        cfg.Admin.TokenTTL,
		LoginsPerMinute: cfg.Admin.LoginsPerMinute,
	})
	if err != nil {
		log.Fatal("❌ Error configurando acceso de administración", zap.Error(err))
	}

	// Inicializar WebSocket Hub
	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	log.Info("⚙️  Inicializando servicios...")
	quizOpts := services.QuizOptions{
		Store: backend,
		Defaults: models.Settings{
			SourceText:    cfg.Quiz.DefaultSourceText,
			RewardCode:    cfg.Quiz.DefaultRewardCode,
			RequiredCount: cfg.Quiz.DefaultRequiredCount,
		},
		Cooldown: cfg.Quiz.Cooldown,
		Notifier: hub,
		Logger:   log,
	}
	ai := extractor.NewClient(extractor.Config{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, nil)
	if ai.Configured() {
		quizOpts.Extractor = ai
	} else {
		log.Warn("⚠️ Extractor IA sin configurar, /api/settings/extract no estará disponible")
	}
	quizService := services.NewQuizService(quizOpts)

	if err := quizService.Load(ctx); err != nil {
		log.Fatal("❌ Error cargando configuración del quiz", zap.Error(err))
	}
	go quizService.RunCountdown(ctx, cfg.Server.CountdownInterval, hub)

	router := &handlers.Router{
		Quiz:    handlers.NewQuizHandler(quizService, log),
		Admin:   handlers.NewAdminHandler(quizService, gate, log),
		Live:    handlers.NewLiveHandler(quizService, hub, log),
		Health:  handlers.NewHealthHandler(backend, quizService),
		Metrics: fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()),
		Log:     log,
	}

	server := &fasthttp.Server{
		Handler:      router.Handle,
		Name:         "QuizGate Server",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("🛑 Deteniendo servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warn("⚠️ Error deteniendo servidor", zap.Error(err))
		}
	}()

	log.Info("🎮 Servidor QuizGate iniciado", zap.String("addr", cfg.Server.Addr))
	log.Info("📱 API Quiz: http://localhost" + cfg.Server.Addr + "/api/quiz/status")
	log.Info("🔧 API Health: http://localhost" + cfg.Server.Addr + "/api/health")

	if err := server.ListenAndServe(cfg.Server.Addr); err != nil {
		log.Fatal("❌ Error al iniciar el servidor", zap.Error(err))
	}
	log.Info("👋 Servidor detenido")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
