package services

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/backsoul/quizgate/pkg/extractor"
	"github.com/backsoul/quizgate/pkg/lockout"
	"github.com/backsoul/quizgate/pkg/metrics"
	"github.com/backsoul/quizgate/pkg/models"
	"github.com/backsoul/quizgate/pkg/parser"
	"github.com/backsoul/quizgate/pkg/quiz"
	"github.com/backsoul/quizgate/pkg/store"
)

// Notifier recibe los cambios de estado (el hub de websocket)
type Notifier interface {
	BroadcastMessage(msgType string, data interface{})
}

// Extractor convierte texto o imagen al formato de bloques
type Extractor interface {
	Extract(ctx context.Context, in extractor.Input) (string, error)
}

// ExtractResult texto fuente combinado y cuántas preguntas produce
type ExtractResult struct {
	SourceText    string `json:"sourceText"`
	Extracted     string `json:"extracted"`
	QuestionCount int    `json:"questionCount"`
}

// QuizOptions dependencias de QuizService
type QuizOptions struct {
	Store     store.Store
	Defaults  models.Settings
	Cooldown  time.Duration
	Extractor Extractor
	Notifier  Notifier
	Logger    *zap.Logger
	// Now reloj del bloqueo; nil usa time.Now
	Now func() time.Time
	// Rand fuente para sortear partidas; nil usa la global
	Rand *rand.Rand
}

// QuizService orquesta configuración, banco, partida y bloqueo.
// Todas las operaciones se serializan con un mutex.
type QuizService struct {
	mu        sync.Mutex
	log       *zap.Logger
	settings  *SettingsService
	questions *QuestionService
	timer     *lockout.Timer
	machine   *quiz.Machine
	extractor Extractor
	notifier  Notifier
	rng       *rand.Rand

	current models.Settings
}

// NewQuizService crea el servicio; hay que llamar a Load antes de usarlo
func NewQuizService(opts QuizOptions) *QuizService {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timer := lockout.New(opts.Store, opts.Now)
	return &QuizService{
		log:       log,
		settings:  NewSettingsService(opts.Store, opts.Defaults),
		questions: NewQuestionService(),
		timer:     timer,
		machine:   quiz.NewMachine(timer, opts.Cooldown),
		extractor: opts.Extractor,
		notifier:  opts.Notifier,
		rng:       opts.Rand,
		current:   opts.Defaults,
	}
}

// Load lee la configuración persistida y parsea el banco
func (s *QuizService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return err
	}
	s.current = settings
	count := s.questions.Reload(settings.SourceText)
	s.log.Info("📚 Banco cargado", zap.Int("questions", count), zap.Int("required", settings.RequiredCount))
	return nil
}

// Settings configuración vigente
func (s *QuizService) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SaveSettings persiste la configuración, reparsea el banco si cambió el texto y
// abandona cualquier partida en curso
func (s *QuizService) SaveSettings(ctx context.Context, settings models.Settings) (models.Settings, error) {
	s.mu.Lock()
	saved, err := s.settings.SaveSettings(ctx, settings)
	if err != nil {
		s.mu.Unlock()
		return models.Settings{}, err
	}
	s.current = saved
	count := s.questions.Reload(saved.SourceText)
	s.machine.Abandon()
	status, err := s.statusLocked(ctx)
	s.mu.Unlock()

	s.log.Info("💾 Configuración guardada", zap.Int("questions", count), zap.Int("required", saved.RequiredCount))
	if err == nil {
		s.notify(models.MessageQuizState, status)
	}
	return saved, nil
}

// Questions banco parseado actual
func (s *QuizService) Questions() []models.Question {
	return s.questions.GetAllQuestions()
}

// Status estado visible para la pantalla de inicio
func (s *QuizService) Status(ctx context.Context) (models.QuizStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked(ctx)
}

func (s *QuizService) statusLocked(ctx context.Context) (models.QuizStatus, error) {
	remaining, err := s.timer.RemainingSeconds(ctx)
	if err != nil {
		return models.QuizStatus{}, err
	}
	b := s.questions.Bank(s.current.RequiredCount)
	state := s.machine.State()

	status := models.QuizStatus{
		State:           string(state),
		CooldownSeconds: remaining,
		TotalQuestions:  b.Len(),
		RequiredCount:   b.RequiredCount,
		RunLength:       b.RunLength(),
		CanStart:        state == quiz.Idle && b.Len() > 0 && b.RunLength() > 0 && remaining == 0,
	}
	switch state {
	case quiz.InProgress:
		status.Current = s.machine.Index() + 1
	case quiz.Succeeded:
		status.RewardCode = s.current.RewardCode
	}
	return status, nil
}

// Start sortea una partida y la inicia
func (s *QuizService) Start(ctx context.Context) (models.QuestionView, error) {
	s.mu.Lock()
	run := s.questions.SelectRun(s.current.RequiredCount, s.rng)
	if err := s.machine.Start(ctx, run); err != nil {
		s.mu.Unlock()
		return models.QuestionView{}, err
	}
	view := s.currentViewLocked()
	status, statusErr := s.statusLocked(ctx)
	s.mu.Unlock()

	metrics.RunsStarted.Inc()
	s.log.Info("🎮 Partida iniciada", zap.Int("total", len(run)))
	if statusErr == nil {
		s.notify(models.MessageQuizState, status)
	}
	return view, nil
}

// CurrentQuestion pregunta actual con opciones con letra y progreso 1-based
func (s *QuizService) CurrentQuestion() (models.QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine.State() != quiz.InProgress {
		return models.QuestionView{}, &quiz.PreconditionError{Op: "question", State: s.machine.State(), Err: quiz.ErrNotInProgress}
	}
	return s.currentViewLocked(), nil
}

func (s *QuizService) currentViewLocked() models.QuestionView {
	q, _ := s.machine.Current()
	return q.View(s.machine.Index(), s.machine.Total())
}

// Answer responde la pregunta actual con el texto completo de la opción elegida
func (s *QuizService) Answer(ctx context.Context, option string) (models.AnswerResult, error) {
	s.mu.Lock()
	outcome, err := s.machine.Answer(ctx, option)
	var pre *quiz.PreconditionError
	if errors.As(err, &pre) {
		s.mu.Unlock()
		return models.AnswerResult{}, err
	}

	result := models.AnswerResult{
		Correct: outcome.Correct,
		State:   string(outcome.State),
		Current: outcome.Index + 1,
		Total:   outcome.Total,
	}
	if err != nil {
		// la partida ya quedó en Failed aunque el bloqueo no se haya guardado
		s.log.Error("❌ Error armando bloqueo", zap.Error(err))
	}
	switch outcome.State {
	case quiz.Succeeded:
		result.RewardCode = s.current.RewardCode
	case quiz.Failed:
		if remaining, rerr := s.timer.RemainingSeconds(ctx); rerr == nil {
			result.CooldownSeconds = remaining
		}
	}
	status, statusErr := s.statusLocked(ctx)
	s.mu.Unlock()

	switch outcome.State {
	case quiz.Succeeded:
		metrics.RunsFinished.WithLabelValues(string(quiz.Succeeded)).Inc()
		s.log.Info("🏆 Partida superada", zap.Int("total", outcome.Total))
	case quiz.Failed:
		metrics.RunsFinished.WithLabelValues(string(quiz.Failed)).Inc()
		if err == nil {
			metrics.LockoutsArmed.Inc()
		}
		s.log.Info("🔒 Partida fallida, bloqueo armado",
			zap.Int("question", outcome.Index+1), zap.Int("cooldown", result.CooldownSeconds))
	}
	if statusErr == nil {
		s.notify(models.MessageQuizState, status)
	}
	return result, err
}

// Reset vuelve a Idle desde un estado terminal
func (s *QuizService) Reset(ctx context.Context) error {
	s.mu.Lock()
	if err := s.machine.Reset(); err != nil {
		s.mu.Unlock()
		return err
	}
	status, err := s.statusLocked(ctx)
	s.mu.Unlock()

	if err == nil {
		s.notify(models.MessageQuizState, status)
	}
	return nil
}

// Abandon vuelve a Idle desde cualquier estado
func (s *QuizService) Abandon(ctx context.Context) {
	s.mu.Lock()
	s.machine.Abandon()
	status, err := s.statusLocked(ctx)
	s.mu.Unlock()

	if err == nil {
		s.notify(models.MessageQuizState, status)
	}
}

// RemainingSeconds segundos de bloqueo restantes
func (s *QuizService) RemainingSeconds(ctx context.Context) (int, error) {
	return s.timer.RemainingSeconds(ctx)
}

// AppendExtracted pide a la IA nuevas preguntas y las añade al texto fuente vigente.
// No guarda nada: devuelve el texto combinado para que el administrador lo revise.
func (s *QuizService) AppendExtracted(ctx context.Context, in extractor.Input) (ExtractResult, error) {
	if s.extractor == nil {
		return ExtractResult{}, extractor.ErrNotConfigured
	}
	extracted, err := s.extractor.Extract(ctx, in)
	if err != nil {
		return ExtractResult{}, err
	}
	extracted = strings.TrimSpace(extracted)
	if extracted == "" {
		return ExtractResult{}, extractor.ErrNoChoices
	}

	prev := s.Settings().SourceText
	merged := extracted
	if strings.TrimSpace(prev) != "" {
		merged = prev + "\n\n" + extracted
	}
	return ExtractResult{
		SourceText:    merged,
		Extracted:     extracted,
		QuestionCount: len(parser.Parse(merged)),
	}, nil
}

// RunCountdown difunde los segundos de bloqueo restantes en cada tick mientras el
// bloqueo esté activo, y una última vez al llegar a 0
func (s *QuizService) RunCountdown(ctx context.Context, interval time.Duration, notifier Notifier) {
	if notifier == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remaining, err := s.timer.RemainingSeconds(ctx)
			if err != nil {
				s.log.Warn("⚠️ Error consultando bloqueo", zap.Error(err))
				continue
			}
			if remaining > 0 || last > 0 {
				notifier.BroadcastMessage(models.MessageCooldown, models.CooldownMessage{Seconds: remaining})
			}
			last = remaining
		}
	}
}

func (s *QuizService) notify(msgType string, data interface{}) {
	if s.notifier != nil {
		s.notifier.BroadcastMessage(msgType, data)
	}
}
