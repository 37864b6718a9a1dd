package handlers

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Router enrutamiento de la API del quiz
type Router struct {
	Quiz    *QuizHandler
	Admin   *AdminHandler
	Live    *LiveHandler
	Health  *HealthHandler
	Metrics fasthttp.RequestHandler
	Log     *zap.Logger
}

// Handle punto de entrada de fasthttp
func (r *Router) Handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	r.Log.Debug("📡 Petición", zap.String("method", method), zap.String("path", path))

	ctx.Response.Header.Set("Server", "QuizGate-FastHTTP/1.0")
	ctx.Response.Header.Set("Cache-Control", "no-cache")

	// Headers CORS para desarrollo
	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
	ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if method == fasthttp.MethodOptions {
		ctx.SetStatusCode(fasthttp.StatusOK)
		return
	}

	switch {
	case path == "/api/health":
		r.Health.Health(ctx)
	case path == "/metrics" && r.Metrics != nil:
		r.Metrics(ctx)

	// Jugador
	case path == "/api/quiz/status" && method == fasthttp.MethodGet:
		r.Quiz.GetStatus(ctx)
	case path == "/api/quiz/start" && method == fasthttp.MethodPost:
		r.Quiz.StartQuiz(ctx)
	case path == "/api/quiz/question" && method == fasthttp.MethodGet:
		r.Quiz.GetQuestion(ctx)
	case path == "/api/quiz/answer" && method == fasthttp.MethodPost:
		r.Quiz.SubmitAnswer(ctx)
	case path == "/api/quiz/reset" && method == fasthttp.MethodPost:
		r.Quiz.ResetQuiz(ctx)

	// Administración
	case path == "/api/admin/login" && method == fasthttp.MethodPost:
		r.Admin.Login(ctx)
	case path == "/api/settings" && method == fasthttp.MethodGet:
		r.Admin.RequireAdmin(r.Admin.GetSettings)(ctx)
	case path == "/api/settings" && method == fasthttp.MethodPut:
		r.Admin.RequireAdmin(r.Admin.SaveSettings)(ctx)
	case path == "/api/settings/extract" && method == fasthttp.MethodPost:
		r.Admin.RequireAdmin(r.Admin.ExtractQuestions)(ctx)

	case path == "/ws":
		r.Live.HandleWebSocket(ctx)

	default:
		respondWithError(ctx, fasthttp.StatusNotFound, "Ruta no encontrada: "+method+" "+path)
	}
}
