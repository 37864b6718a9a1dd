// Package bank guarda el banco de preguntas parseado y sortea las partidas.
package bank

import (
	"math/rand/v2"

	"github.com/backsoul/quizgate/pkg/models"
)

// Bank banco de preguntas con el número de aciertos requeridos por partida
type Bank struct {
	Questions     []models.Question
	RequiredCount int
}

// New crea un banco; requiredCount negativo se trata como 0
func New(questions []models.Question, requiredCount int) *Bank {
	return &Bank{
		Questions:     questions,
		RequiredCount: max(requiredCount, 0),
	}
}

// Len número de preguntas en el banco
func (b *Bank) Len() int {
	return len(b.Questions)
}

// RunLength largo efectivo de una partida: min(requiredCount, tamaño del banco)
func (b *Bank) RunLength() int {
	return min(max(b.RequiredCount, 0), len(b.Questions))
}

// SelectRun sortea una partida del banco
func (b *Bank) SelectRun(rng *rand.Rand) []models.Question {
	return SelectRun(b.Questions, b.RequiredCount, rng)
}

// SelectRun baraja una copia de las preguntas (Fisher-Yates) y toma las primeras
// min(requiredCount, len(questions)). El slice original no se reordena.
// Con rng nil se usa la fuente global.
func SelectRun(questions []models.Question, requiredCount int, rng *rand.Rand) []models.Question {
	n := min(max(requiredCount, 0), len(questions))
	if n == 0 {
		return []models.Question{}
	}

	shuffled := make([]models.Question, len(questions))
	copy(shuffled, questions)
	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if rng != nil {
		rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}

	return shuffled[:n:n]
}
