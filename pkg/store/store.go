// Package store define el contrato clave/valor donde se persiste la configuración y el
// bloqueo del quiz, con implementaciones en memoria, Redis y SQL.
package store

import (
	"context"
)

// Claves persistidas
const (
	KeyQuestions = "quiz_questions_raw"
	KeyPrize     = "quiz_prize_code"
	KeyRequired  = "quiz_required_count"
	KeyCooldown  = "quiz_cooldown_timestamp"
)

// Store almacenamiento clave/valor de strings opacos
type Store interface {
	// Get devuelve el valor y si la clave existe
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Backend Store con ciclo de vida (health check y cierre)
type Backend interface {
	Store
	HealthCheck(ctx context.Context) error
	Close() error
}
