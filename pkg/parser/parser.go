// Package parser convierte texto libre (manual, OCR o IA) en preguntas del banco.
//
// Formato de cada bloque, separado por una línea en blanco:
//
//	Texto de la pregunta
//	A. opción
//	B. opción
//	#B
//
// La primera línea es la pregunta, las líneas que empiezan con '#' marcan la respuesta
// correcta (gana la última) y el resto son opciones en orden.
package parser

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/backsoul/quizgate/pkg/models"
)

// AnswerMarker prefijo de la línea de respuesta correcta
const AnswerMarker = "#"

var blockSeparator = regexp.MustCompile(`\n\s*\n`)

// Parse convierte el texto en preguntas. Nunca falla: los bloques inválidos se descartan.
func Parse(raw string) []models.Question {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []models.Question{}
	}

	questions := make([]models.Question, 0)
	for _, block := range blockSeparator.Split(raw, -1) {
		question, ok := parseBlock(block)
		if !ok {
			continue
		}
		questions = append(questions, question)
	}

	return questions
}

func parseBlock(block string) (models.Question, bool) {
	lines := nonEmptyLines(block)
	if len(lines) < 2 {
		return models.Question{}, false
	}

	question := models.Question{
		ID:      uuid.NewString(),
		Text:    lines[0],
		Options: make([]string, 0, len(lines)-1),
	}
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, AnswerMarker) {
			question.CorrectAnswer = strings.TrimSpace(strings.TrimPrefix(line, AnswerMarker))
			continue
		}
		question.Options = append(question.Options, line)
	}

	// solo marcadores, nada que elegir
	if len(question.Options) == 0 {
		return models.Question{}, false
	}

	return question, true
}

func nonEmptyLines(block string) []string {
	raw := strings.Split(block, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
