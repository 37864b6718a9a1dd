package handlers

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/backsoul/quizgate/pkg/services"
)

// HealthChecker backend que sabe verificarse
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler maneja GET /api/health
type HealthHandler struct {
	backend     HealthChecker
	quizService *services.QuizService
}

func NewHealthHandler(backend HealthChecker, quizService *services.QuizService) *HealthHandler {
	return &HealthHandler{backend: backend, quizService: quizService}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Questions int    `json:"questions"`
	Time      string `json:"time"`
}

// Health verifica el almacenamiento y reporta el tamaño del banco
func (h *HealthHandler) Health(ctx *fasthttp.RequestCtx) {
	checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.backend.HealthCheck(checkCtx); err != nil {
		respondWithError(ctx, fasthttp.StatusServiceUnavailable, "Almacenamiento no disponible: "+err.Error())
		return
	}
	respondWithSuccess(ctx, HealthResponse{
		Status:    "ok",
		Questions: len(h.quizService.Questions()),
		Time:      time.Now().UTC().Format(time.RFC3339),
	}, "Servicio funcionando")
}
