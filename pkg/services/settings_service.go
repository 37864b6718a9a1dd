package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/backsoul/quizgate/pkg/models"
	"github.com/backsoul/quizgate/pkg/store"
)

// SettingsService lee y guarda la configuración del quiz en el store
type SettingsService struct {
	store    store.Store
	defaults models.Settings
}

// NewSettingsService crea el servicio; defaults se usa para claves ausentes
func NewSettingsService(s store.Store, defaults models.Settings) *SettingsService {
	return &SettingsService{store: s, defaults: defaults}
}

// GetSettings devuelve la configuración persistida. Una clave ausente o vacía usa el
// valor por defecto; la cantidad requerida también cae al defecto si no es un entero > 0.
func (s *SettingsService) GetSettings(ctx context.Context) (models.Settings, error) {
	settings := s.defaults

	raw, found, err := s.store.Get(ctx, store.KeyQuestions)
	if err != nil {
		return settings, errors.Wrapf(err, "error leyendo %s", store.KeyQuestions)
	}
	if found && strings.TrimSpace(raw) != "" {
		settings.SourceText = raw
	}

	prize, found, err := s.store.Get(ctx, store.KeyPrize)
	if err != nil {
		return settings, errors.Wrapf(err, "error leyendo %s", store.KeyPrize)
	}
	if found && prize != "" {
		settings.RewardCode = prize
	}

	required, found, err := s.store.Get(ctx, store.KeyRequired)
	if err != nil {
		return settings, errors.Wrapf(err, "error leyendo %s", store.KeyRequired)
	}
	if found {
		if n, err := strconv.Atoi(strings.TrimSpace(required)); err == nil && n > 0 {
			settings.RequiredCount = n
		}
	}

	return settings, nil
}

// SaveSettings persiste las tres claves (una cantidad negativa se guarda como 0) y devuelve
// la configuración releída, con las mismas reglas de defecto que GetSettings
func (s *SettingsService) SaveSettings(ctx context.Context, settings models.Settings) (models.Settings, error) {
	settings.RequiredCount = max(settings.RequiredCount, 0)

	values := []struct{ key, value string }{
		{store.KeyQuestions, settings.SourceText},
		{store.KeyPrize, settings.RewardCode},
		{store.KeyRequired, strconv.Itoa(settings.RequiredCount)},
	}
	for _, kv := range values {
		if err := s.store.Set(ctx, kv.key, kv.value); err != nil {
			return settings, errors.Wrapf(err, "error guardando %s", kv.key)
		}
	}
	return s.GetSettings(ctx)
}
