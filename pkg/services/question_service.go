package services

import (
	"math/rand/v2"
	"sync"

	"github.com/backsoul/quizgate/pkg/bank"
	"github.com/backsoul/quizgate/pkg/metrics"
	"github.com/backsoul/quizgate/pkg/models"
	"github.com/backsoul/quizgate/pkg/parser"
)

// QuestionService mantiene el banco parseado a partir del texto fuente
type QuestionService struct {
	mu         sync.RWMutex
	sourceText string
	questions  []models.Question
	loaded     bool
}

// NewQuestionService crea un servicio con el banco vacío
func NewQuestionService() *QuestionService {
	return &QuestionService{questions: []models.Question{}}
}

// Reload vuelve a parsear solo si el texto cambió; devuelve el número de preguntas válidas
func (s *QuestionService) Reload(sourceText string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && sourceText == s.sourceText {
		return len(s.questions)
	}
	s.sourceText = sourceText
	s.questions = parser.Parse(sourceText)
	s.loaded = true
	metrics.BankQuestions.Set(float64(len(s.questions)))
	return len(s.questions)
}

// GetAllQuestions copia del banco actual
func (s *QuestionService) GetAllQuestions() []models.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]models.Question, len(s.questions))
	copy(questions, s.questions)
	return questions
}

// GetQuestionCount número de preguntas válidas
func (s *QuestionService) GetQuestionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

// Bank banco con la cantidad requerida indicada
func (s *QuestionService) Bank(requiredCount int) *bank.Bank {
	return bank.New(s.GetAllQuestions(), requiredCount)
}

// SelectRun elige la partida; rng nil usa el generador global
func (s *QuestionService) SelectRun(requiredCount int, rng *rand.Rand) []models.Question {
	return s.Bank(requiredCount).SelectRun(rng)
}
