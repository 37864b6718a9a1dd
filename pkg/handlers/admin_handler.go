package handlers

import (
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/backsoul/quizgate/pkg/auth"
	"github.com/backsoul/quizgate/pkg/extractor"
	"github.com/backsoul/quizgate/pkg/metrics"
	"github.com/backsoul/quizgate/pkg/models"
	"github.com/backsoul/quizgate/pkg/services"
)

// AdminHandler maneja el login y la edición de la configuración
type AdminHandler struct {
	quizService *services.QuizService
	gate        *auth.Gate
	log         *zap.Logger
}

// NewAdminHandler crea una nueva instancia del handler
func NewAdminHandler(quizService *services.QuizService, gate *auth.Gate, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		quizService: quizService,
		gate:        gate,
		log:         log,
	}
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SettingsResponse configuración junto con el banco que produce
type SettingsResponse struct {
	Settings      models.Settings `json:"settings"`
	QuestionCount int             `json:"questionCount"`
}

// Login maneja POST /api/admin/login
func (h *AdminHandler) Login(ctx *fasthttp.RequestCtx) {
	var req LoginRequest
	if !decodeBody(ctx, &req) {
		return
	}

	token, expiresAt, err := h.gate.Login(req.Password)
	if err != nil {
		metrics.AdminLogins.WithLabelValues("rejected").Inc()
		h.log.Warn("🚫 Login de administración rechazado", zap.Error(err))
		respondWithErr(ctx, err)
		return
	}

	metrics.AdminLogins.WithLabelValues("ok").Inc()
	h.log.Info("🔑 Login de administración")
	respondWithSuccess(ctx, LoginResponse{Token: token, ExpiresAt: expiresAt}, "Sesión iniciada")
}

// RequireAdmin exige un token Bearer válido
func (h *AdminHandler) RequireAdmin(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		header := string(ctx.Request.Header.Peek("Authorization"))
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondWithError(ctx, fasthttp.StatusUnauthorized, "Token requerido")
			return
		}
		if err := h.gate.Verify(token); err != nil {
			respondWithErr(ctx, err)
			return
		}
		next(ctx)
	}
}

// GetSettings maneja GET /api/settings
func (h *AdminHandler) GetSettings(ctx *fasthttp.RequestCtx) {
	respondWithSuccess(ctx, SettingsResponse{
		Settings:      h.quizService.Settings(),
		QuestionCount: len(h.quizService.Questions()),
	}, "")
}

// SaveSettings maneja PUT /api/settings
func (h *AdminHandler) SaveSettings(ctx *fasthttp.RequestCtx) {
	var req models.Settings
	if !decodeBody(ctx, &req) {
		return
	}

	saved, err := h.quizService.SaveSettings(ctx, req)
	if err != nil {
		h.log.Error("❌ Error guardando configuración", zap.Error(err))
		respondWithErr(ctx, err)
		return
	}
	respondWithSuccess(ctx, SettingsResponse{
		Settings:      saved,
		QuestionCount: len(h.quizService.Questions()),
	}, "Configuración guardada")
}

// ExtractQuestions maneja POST /api/settings/extract; devuelve una vista previa sin guardar
func (h *AdminHandler) ExtractQuestions(ctx *fasthttp.RequestCtx) {
	var req extractor.Input
	if !decodeBody(ctx, &req) {
		return
	}

	result, err := h.quizService.AppendExtracted(ctx, req)
	if err != nil {
		h.log.Warn("⚠️ Error extrayendo preguntas", zap.Error(err))
		status := statusFor(err)
		if status == fasthttp.StatusInternalServerError {
			status = fasthttp.StatusBadGateway
		}
		respondWithError(ctx, status, err.Error())
		return
	}
	respondWithSuccess(ctx, result, "Preguntas extraídas")
}
