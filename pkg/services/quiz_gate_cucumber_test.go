//go:build cucumber

package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/pkg/errors"

	"github.com/backsoul/quizgate/pkg/models"
	"github.com/backsoul/quizgate/pkg/quiz"
	"github.com/backsoul/quizgate/pkg/store"
)

// TestQuizGateScenarios ejecuta los escenarios de testdata/features
func TestQuizGateScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "quiz-gate",
		ScenarioInitializer: InitializeQuizGateScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "features")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeQuizGateScenario registra los pasos del quiz
func InitializeQuizGateScenario(sc *godog.ScenarioContext) {
	state := &quizGateState{}
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, err
	})

	sc.Step(`^a memory quiz store$`, state.givenMemoryStore)
	sc.Step(`^a sqlite quiz store$`, state.givenSQLiteStore)
	sc.Step(`^a cooldown of (\d+) seconds$`, state.givenCooldown)
	sc.Step(`^the source text:$`, state.givenSourceText)
	sc.Step(`^the reward code "([^"]*)"$`, state.givenRewardCode)
	sc.Step(`^the required count (-?\d+)$`, state.givenRequiredCount)
	sc.Step(`^the stored required count "([^"]*)"$`, state.givenStoredRequiredCount)

	sc.Step(`^I save the settings$`, state.whenSaveSettings)
	sc.Step(`^the service restarts$`, state.whenServiceRestarts)
	sc.Step(`^I start a run$`, state.whenStartRun)
	sc.Step(`^I answer the run using:$`, state.whenAnswerRunUsing)
	sc.Step(`^I answer the current question with "([^"]*)"$`, state.whenAnswerCurrent)
	sc.Step(`^I reset the run$`, state.whenReset)
	sc.Step(`^(\d+) seconds pass$`, state.whenSecondsPass)

	sc.Step(`^the bank has (\d+) questions$`, state.thenBankHas)
	sc.Step(`^a run can start$`, state.thenRunCanStart)
	sc.Step(`^the run has (\d+) questions$`, state.thenRunHas)
	sc.Step(`^the run has succeeded$`, state.thenStateIs(quiz.Succeeded))
	sc.Step(`^the run has failed$`, state.thenStateIs(quiz.Failed))
	sc.Step(`^the reward code "([^"]*)" is revealed$`, state.thenRewardRevealed)
	sc.Step(`^the lockout has (\d+) seconds remaining$`, state.thenLockoutRemaining)
	sc.Step(`^starting a run is rejected by the lockout$`, state.thenStartRejectedByLockout)
	sc.Step(`^the required count is (\d+)$`, state.thenRequiredCount)
}

type quizGateState struct {
	ctx      context.Context
	store    store.Store
	closer   func() error
	tempDir  string
	clock    *fakeClock
	cooldown time.Duration
	settings models.Settings
	svc      *QuizService

	view   models.QuestionView
	result models.AnswerResult
}

func (s *quizGateState) reset() {
	s.cleanup()
	s.ctx = context.Background()
	s.store = nil
	s.clock = newFakeClock()
	s.cooldown = 60 * time.Second
	s.settings = defaultSettings()
	s.svc = nil
	s.view = models.QuestionView{}
	s.result = models.AnswerResult{}
}

func (s *quizGateState) cleanup() {
	if s.closer != nil {
		_ = s.closer()
		s.closer = nil
	}
	if s.tempDir != "" {
		_ = os.RemoveAll(s.tempDir)
		s.tempDir = ""
	}
}

func (s *quizGateState) service() *QuizService {
	if s.svc == nil {
		s.svc = NewQuizService(QuizOptions{
			Store:    s.store,
			Defaults: defaultSettings(),
			Cooldown: s.cooldown,
			Now:      s.clock.Now,
		})
	}
	return s.svc
}

func (s *quizGateState) givenMemoryStore() error {
	s.cleanup()
	s.store = store.NewMemory()
	return nil
}

func (s *quizGateState) givenSQLiteStore() error {
	s.cleanup()
	dir, err := os.MkdirTemp("", "quizgate-*")
	if err != nil {
		return err
	}
	s.tempDir = dir
	sqlStore, err := store.OpenSQL(s.ctx, store.DriverSQLite, filepath.Join(dir, "quiz.db"))
	if err != nil {
		return err
	}
	s.store = sqlStore
	s.closer = sqlStore.Close
	return nil
}

func (s *quizGateState) givenCooldown(seconds int) error {
	s.cooldown = time.Duration(seconds) * time.Second
	return nil
}

func (s *quizGateState) givenSourceText(doc *godog.DocString) error {
	s.settings.SourceText = doc.Content
	return nil
}

func (s *quizGateState) givenRewardCode(code string) error {
	s.settings.RewardCode = code
	return nil
}

func (s *quizGateState) givenRequiredCount(n int) error {
	s.settings.RequiredCount = n
	return nil
}

func (s *quizGateState) givenStoredRequiredCount(raw string) error {
	return s.store.Set(s.ctx, store.KeyRequired, raw)
}

func (s *quizGateState) whenSaveSettings() error {
	svc := s.service()
	if err := svc.Load(s.ctx); err != nil {
		return err
	}
	_, err := svc.SaveSettings(s.ctx, s.settings)
	return err
}

func (s *quizGateState) whenServiceRestarts() error {
	s.svc = nil
	return s.service().Load(s.ctx)
}

func (s *quizGateState) whenStartRun() error {
	view, err := s.service().Start(s.ctx)
	if err != nil {
		return err
	}
	s.view = view
	return nil
}

func (s *quizGateState) whenAnswerRunUsing(table *godog.Table) error {
	answers := map[string]string{}
	for _, row := range table.Rows[1:] {
		answers[strings.TrimSpace(row.Cells[0].Value)] = strings.TrimSpace(row.Cells[1].Value)
	}

	for {
		view, err := s.service().CurrentQuestion()
		if errors.Is(err, quiz.ErrNotInProgress) {
			return nil
		}
		if err != nil {
			return err
		}
		option, ok := answers[view.Text]
		if !ok {
			return fmt.Errorf("no hay respuesta para %q", view.Text)
		}
		if err := s.whenAnswerCurrent(option); err != nil {
			return err
		}
	}
}

func (s *quizGateState) whenAnswerCurrent(option string) error {
	result, err := s.service().Answer(s.ctx, option)
	if err != nil {
		return err
	}
	s.result = result
	return nil
}

func (s *quizGateState) whenReset() error {
	return s.service().Reset(s.ctx)
}

func (s *quizGateState) whenSecondsPass(seconds int) error {
	s.clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

func (s *quizGateState) status() (models.QuizStatus, error) {
	return s.service().Status(s.ctx)
}

func (s *quizGateState) thenBankHas(n int) error {
	status, err := s.status()
	if err != nil {
		return err
	}
	if status.TotalQuestions != n {
		return fmt.Errorf("expected %d questions in bank, got %d", n, status.TotalQuestions)
	}
	return nil
}

func (s *quizGateState) thenRunCanStart() error {
	status, err := s.status()
	if err != nil {
		return err
	}
	if !status.CanStart {
		return fmt.Errorf("expected a run to be startable, status %+v", status)
	}
	return nil
}

func (s *quizGateState) thenRunHas(n int) error {
	if s.view.Total != n {
		return fmt.Errorf("expected run of %d, got %d", n, s.view.Total)
	}
	return nil
}

func (s *quizGateState) thenStateIs(want quiz.State) func() error {
	return func() error {
		status, err := s.status()
		if err != nil {
			return err
		}
		if status.State != string(want) {
			return fmt.Errorf("expected state %s, got %s", want, status.State)
		}
		return nil
	}
}

func (s *quizGateState) thenRewardRevealed(code string) error {
	if s.result.RewardCode != code {
		return fmt.Errorf("expected reward %q in answer result, got %q", code, s.result.RewardCode)
	}
	status, err := s.status()
	if err != nil {
		return err
	}
	if status.RewardCode != code {
		return fmt.Errorf("expected reward %q in status, got %q", code, status.RewardCode)
	}
	return nil
}

func (s *quizGateState) thenLockoutRemaining(seconds int) error {
	remaining, err := s.service().RemainingSeconds(s.ctx)
	if err != nil {
		return err
	}
	if remaining != seconds {
		return fmt.Errorf("expected %ds remaining, got %d", seconds, remaining)
	}
	return nil
}

func (s *quizGateState) thenStartRejectedByLockout() error {
	_, err := s.service().Start(s.ctx)
	if !errors.Is(err, quiz.ErrLockedOut) {
		return fmt.Errorf("expected lockout rejection, got %v", err)
	}
	return nil
}

func (s *quizGateState) thenRequiredCount(n int) error {
	if got := s.service().Settings().RequiredCount; got != n {
		return fmt.Errorf("expected required count %d, got %d", n, got)
	}
	return nil
}
