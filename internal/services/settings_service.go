package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"rental/internal/currency"
	"rental/internal/ledger"
	"rental/internal/models"

	"github.com/jmoiron/sqlx"
)

const DefaultAppName = "Rental Ledger"

func DefaultSettings() models.Settings {
	return models.Settings{AppName: DefaultAppName, Currency: currency.Default}
}

type SettingsService struct {
	deps     Deps
	settings SettingsStore
}

func NewSettingsService(deps Deps, settings SettingsStore) *SettingsService {
	return &SettingsService{deps: deps.withDefaults(), settings: settings}
}

// Get returns the settings, saving the defaults on first read.
func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	current, err := s.settings.Get(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, err
	}
	defaults := DefaultSettings()
	defaults.UpdatedAt = s.deps.now()
	err = s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.settings.Upsert(ctx, tx, defaults)
	})
	if err != nil {
		return models.Settings{}, err
	}
	return defaults, nil
}

type SettingsInput struct {
	AppName  *string
	Currency *string
}

func (s *SettingsService) Update(ctx context.Context, actorID string, in SettingsInput) (models.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if in.AppName != nil {
		name := strings.TrimSpace(*in.AppName)
		if name == "" {
			return models.Settings{}, ledger.Invalid("app_name", "must not be empty")
		}
		current.AppName = name
	}
	if in.Currency != nil {
		code := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if !currency.Valid(code) {
			return models.Settings{}, ledger.Invalid("currency", "is not a supported currency")
		}
		current.Currency = code
	}
	current.UpdatedAt = s.deps.now()
	err = s.deps.TxRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.settings.Upsert(ctx, tx, current); err != nil {
			return err
		}
		return s.deps.audit(ctx, tx, actorID, "settings.update", "settings", "1", map[string]any{
			"app_name": current.AppName,
			"currency": current.Currency,
		})
	})
	if err != nil {
		return models.Settings{}, err
	}
	s.deps.committed(ctx, "settings.updated", "")
	return current, nil
}
