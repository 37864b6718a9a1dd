package handlers

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/backsoul/quizgate/pkg/services"
)

// QuizHandler maneja las peticiones del jugador
type QuizHandler struct {
	quizService *services.QuizService
	log         *zap.Logger
}

// NewQuizHandler crea una nueva instancia del handler
func NewQuizHandler(quizService *services.QuizService, log *zap.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		log:         log,
	}
}

// AnswerRequest cuerpo de POST /api/quiz/answer
type AnswerRequest struct {
	Option string `json:"option"`
}

// GetStatus maneja GET /api/quiz/status
func (h *QuizHandler) GetStatus(ctx *fasthttp.RequestCtx) {
	status, err := h.quizService.Status(ctx)
	if err != nil {
		h.log.Error("❌ Error obteniendo estado", zap.Error(err))
		respondWithErr(ctx, err)
		return
	}
	respondWithSuccess(ctx, status, "")
}

// StartQuiz maneja POST /api/quiz/start
func (h *QuizHandler) StartQuiz(ctx *fasthttp.RequestCtx) {
	view, err := h.quizService.Start(ctx)
	if err != nil {
		respondWithErr(ctx, err)
		return
	}
	respondWithSuccess(ctx, view, "Partida iniciada")
}

// GetQuestion maneja GET /api/quiz/question
func (h *QuizHandler) GetQuestion(ctx *fasthttp.RequestCtx) {
	view, err := h.quizService.CurrentQuestion()
	if err != nil {
		respondWithErr(ctx, err)
		return
	}
	respondWithSuccess(ctx, view, "")
}

// SubmitAnswer maneja POST /api/quiz/answer
func (h *QuizHandler) SubmitAnswer(ctx *fasthttp.RequestCtx) {
	var req AnswerRequest
	if !decodeBody(ctx, &req) {
		return
	}
	if req.Option == "" {
		respondWithError(ctx, fasthttp.StatusBadRequest, "La opción es requerida")
		return
	}

	result, err := h.quizService.Answer(ctx, req.Option)
	if err != nil && result.State == "" {
		respondWithErr(ctx, err)
		return
	}
	if err != nil {
		h.log.Error("❌ Error guardando bloqueo", zap.Error(err))
	}

	message := "Respuesta correcta"
	if !result.Correct {
		message = "Respuesta incorrecta"
	}
	respondWithSuccess(ctx, result, message)
}

// ResetQuiz maneja POST /api/quiz/reset; con ?abandon=1 abandona la partida en curso
func (h *QuizHandler) ResetQuiz(ctx *fasthttp.RequestCtx) {
	if ctx.QueryArgs().GetBool("abandon") {
		h.quizService.Abandon(ctx)
		respondWithSuccess(ctx, nil, "Partida abandonada")
		return
	}
	if err := h.quizService.Reset(ctx); err != nil {
		respondWithErr(ctx, err)
		return
	}
	respondWithSuccess(ctx, nil, "Partida reiniciada")
}
