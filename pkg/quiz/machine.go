// Package quiz implementa la máquina de estados de una partida:
// Idle -> InProgress -> Succeeded | Failed -> Idle.
package quiz

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/backsoul/quizgate/pkg/models"
)

type State string

const (
	Idle       State = "idle"
	InProgress State = "in_progress"
	Succeeded  State = "succeeded"
	Failed     State = "failed"
)

// Lockout lo que la máquina necesita del temporizador de bloqueo
type Lockout interface {
	Arm(ctx context.Context, d time.Duration) error
	RemainingSeconds(ctx context.Context) (int, error)
}

// Outcome resultado de una respuesta
type Outcome struct {
	Correct bool
	State   State
	// Index posición (0-based) de la pregunta respondida
	Index int
	Total int
}

// Machine una partida a la vez; no es segura para uso concurrente
type Machine struct {
	lockout  Lockout
	cooldown time.Duration

	state State
	run   []models.Question
	index int
}

// NewMachine crea una máquina en Idle que arma el bloqueo por cooldown al fallar
func NewMachine(lockout Lockout, cooldown time.Duration) *Machine {
	return &Machine{
		lockout:  lockout,
		cooldown: cooldown,
		state:    Idle,
	}
}

// IsCorrect regla de acierto: igualdad exacta, o la opción empieza por la respuesta
// ("B. Beijing" acierta con "B"). Una respuesta vacía nunca acierta.
func IsCorrect(q models.Question, selected string) bool {
	if q.CorrectAnswer == "" {
		return false
	}
	return selected == q.CorrectAnswer || strings.HasPrefix(selected, q.CorrectAnswer)
}

// Start inicia la partida si está en Idle, la partida no está vacía y no hay bloqueo
func (m *Machine) Start(ctx context.Context, run []models.Question) error {
	if m.state != Idle {
		return m.precondition("start", ErrRunInProgress)
	}
	if len(run) == 0 {
		return m.precondition("start", ErrEmptyRun)
	}
	remaining, err := m.lockout.RemainingSeconds(ctx)
	if err != nil {
		return errors.Wrap(err, "error consultando bloqueo")
	}
	if remaining > 0 {
		return m.precondition("start", errors.Wrapf(ErrLockedOut, "%ds restantes", remaining))
	}

	m.run = run
	m.index = 0
	m.state = InProgress
	return nil
}

// Answer responde la pregunta actual. Un fallo termina la partida y arma el bloqueo;
// si el bloqueo no se puede guardar la partida queda igualmente en Failed.
func (m *Machine) Answer(ctx context.Context, selected string) (Outcome, error) {
	if m.state != InProgress {
		return Outcome{State: m.state}, m.precondition("answer", ErrNotInProgress)
	}

	outcome := Outcome{Index: m.index, Total: len(m.run)}
	if !IsCorrect(m.run[m.index], selected) {
		m.state = Failed
		outcome.State = Failed
		if err := m.lockout.Arm(ctx, m.cooldown); err != nil {
			return outcome, errors.Wrap(err, "error armando bloqueo")
		}
		return outcome, nil
	}

	outcome.Correct = true
	if m.index+1 >= len(m.run) {
		m.state = Succeeded
	} else {
		m.index++
	}
	outcome.State = m.state
	return outcome, nil
}

// Reset vuelve a Idle desde un estado terminal
func (m *Machine) Reset() error {
	if m.state != Succeeded && m.state != Failed {
		return m.precondition("reset", ErrNotFinished)
	}
	m.Abandon()
	return nil
}

// Abandon vuelve a Idle desde cualquier estado sin efectos secundarios
func (m *Machine) Abandon() {
	m.state = Idle
	m.run = nil
	m.index = 0
}

func (m *Machine) State() State {
	return m.state
}

// Current pregunta actual mientras la partida está en curso
func (m *Machine) Current() (models.Question, bool) {
	if m.state != InProgress {
		return models.Question{}, false
	}
	return m.run[m.index], true
}

// Index posición (0-based) de la pregunta actual
func (m *Machine) Index() int {
	return m.index
}

// Total largo de la partida actual
func (m *Machine) Total() int {
	return len(m.run)
}

func (m *Machine) precondition(op string, err error) error {
	return &PreconditionError{Op: op, State: m.state, Err: err}
}
