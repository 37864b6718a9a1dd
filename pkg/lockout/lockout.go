// Package lockout guarda el instante de desbloqueo tras una partida fallida.
// No tiene temporizador interno: cada consulta recalcula desde el valor persistido y el reloj.
package lockout

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/backsoul/quizgate/pkg/store"
)

// Timer bloqueo persistido en store.KeyCooldown como epoch en milisegundos
type Timer struct {
	store store.Store
	now   func() time.Time
}

// New crea un Timer; now nil usa time.Now
func New(s store.Store, now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{store: s, now: now}
}

// Arm fija unlockAt = ahora + d y lo persiste de inmediato
func (t *Timer) Arm(ctx context.Context, d time.Duration) error {
	unlockAt := t.now().Add(d).UnixMilli()
	if err := t.store.Set(ctx, store.KeyCooldown, strconv.FormatInt(unlockAt, 10)); err != nil {
		return errors.Wrap(err, "error guardando bloqueo")
	}
	return nil
}

// UnlockAt instante de desbloqueo persistido; cero si no hay
func (t *Timer) UnlockAt(ctx context.Context) (time.Time, error) {
	raw, found, err := t.store.Get(ctx, store.KeyCooldown)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "error leyendo bloqueo")
	}
	if !found {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(ms), nil
}

// RemainingSeconds segundos restantes redondeados hacia arriba; 0 significa desbloqueado
func (t *Timer) RemainingSeconds(ctx context.Context) (int, error) {
	unlockAt, err := t.UnlockAt(ctx)
	if err != nil || unlockAt.IsZero() {
		return 0, err
	}
	remaining := unlockAt.UnixMilli() - t.now().UnixMilli()
	if remaining <= 0 {
		return 0, nil
	}
	return int((remaining + 999) / 1000), nil
}

// Active indica si el bloqueo sigue vigente
func (t *Timer) Active(ctx context.Context) (bool, error) {
	remaining, err := t.RemainingSeconds(ctx)
	return remaining > 0, err
}
