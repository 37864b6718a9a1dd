package handlers

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"

	"github.com/backsoul/quizgate/pkg/auth"
	"github.com/backsoul/quizgate/pkg/extractor"
	"github.com/backsoul/quizgate/pkg/models"
	"github.com/backsoul/quizgate/pkg/quiz"
)

// respondWithJSON envía una respuesta JSON
func respondWithJSON(ctx *fasthttp.RequestCtx, statusCode int, response interface{}) {
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.SetStatusCode(statusCode)

	jsonData, err := json.Marshal(response)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"success": false, "error": "Error al serializar respuesta"}`)
		return
	}

	ctx.SetBody(jsonData)
}

// respondWithError envía una respuesta de error
func respondWithError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	response := models.APIResponse{
		Success: false,
		Error:   message,
	}
	respondWithJSON(ctx, statusCode, response)
}

// respondWithSuccess envía una respuesta exitosa
func respondWithSuccess(ctx *fasthttp.RequestCtx, data interface{}, message string) {
	response := models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
	respondWithJSON(ctx, fasthttp.StatusOK, response)
}

// respondWithErr traduce errores del dominio a códigos HTTP
func respondWithErr(ctx *fasthttp.RequestCtx, err error) {
	respondWithError(ctx, statusFor(err), err.Error())
}

func statusFor(err error) int {
	var pre *quiz.PreconditionError
	switch {
	case errors.Is(err, quiz.ErrLockedOut):
		return fasthttp.StatusLocked
	case errors.As(err, &pre):
		return fasthttp.StatusConflict
	case errors.Is(err, auth.ErrTooManyAttempts):
		return fasthttp.StatusTooManyRequests
	case errors.Is(err, auth.ErrInvalidPassword), errors.Is(err, auth.ErrInvalidToken):
		return fasthttp.StatusUnauthorized
	case errors.Is(err, extractor.ErrNotConfigured):
		return fasthttp.StatusServiceUnavailable
	case errors.Is(err, extractor.ErrEmptyInput), errors.Is(err, extractor.ErrUnknownMode):
		return fasthttp.StatusBadRequest
	case errors.Is(err, extractor.ErrNoChoices):
		return fasthttp.StatusBadGateway
	default:
		return fasthttp.StatusInternalServerError
	}
}

// decodeBody deserializa el cuerpo JSON de la petición
func decodeBody(ctx *fasthttp.RequestCtx, v interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "JSON inválido")
		return false
	}
	return true
}
