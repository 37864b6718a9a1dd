package quiz

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrEmptyRun      = errors.New("la partida no tiene preguntas")
	ErrLockedOut     = errors.New("bloqueo activo")
	ErrRunInProgress = errors.New("ya hay una partida en curso")
	ErrNotInProgress = errors.New("no hay partida en curso")
	ErrNotFinished   = errors.New("la partida no ha terminado")
)

// PreconditionError llamada inválida para el estado actual de la máquina (error del llamador)
type PreconditionError struct {
	Op    string
	State State
	Err   error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("quiz %s en estado %s: %v", e.Op, e.State, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
