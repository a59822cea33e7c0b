package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/models"
)

type localStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewLocalStateRepository constructs the SQLite-backed [LocalStorage]
// implementation over the local_state key-value table.
func NewLocalStateRepository(db *DB, log *logger.Logger) LocalStorage {
	return &localStateRepository{
		DB:     db,
		logger: log,
	}
}

func (l *localStateRepository) GetAppState(ctx context.Context) (models.AppState, error) {
	var state models.AppState
	found, err := l.getJSON(ctx, keyAppData, &state)
	if err != nil {
		return models.AppState{}, fmt.Errorf("get app state: %w", err)
	}
	if !found {
		return models.AppState{Notes: []models.Note{}, Categories: []models.Category{}}, nil
	}
	if state.Notes == nil {
		state.Notes = []models.Note{}
	}
	if state.Categories == nil {
		state.Categories = []models.Category{}
	}

	return state, nil
}

func (l *localStateRepository) SaveAppState(ctx context.Context, state models.AppState) error {
	if err := l.putJSON(ctx, keyAppData, state); err != nil {
		return fmt.Errorf("save app state: %w", err)
	}
	return nil
}

func (l *localStateRepository) GetUIState(ctx context.Context) (models.UIState, error) {
	var state models.UIState
	_, err := l.getJSON(ctx, keyUIState, &state)
	if err != nil {
		return models.UIState{}, fmt.Errorf("get ui state: %w", err)
	}
	return state, nil
}

func (l *localStateRepository) SaveUIState(ctx context.Context, state models.UIState) error {
	if err := l.putJSON(ctx, keyUIState, state); err != nil {
		return fmt.Errorf("save ui state: %w", err)
	}
	return nil
}

func (l *localStateRepository) GetToken(ctx context.Context) (string, error) {
	value, err := l.getRaw(ctx, keyAuthToken)
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return value, nil
}

func (l *localStateRepository) SaveToken(ctx context.Context, token string) error {
	if err := l.putRaw(ctx, keyAuthToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (l *localStateRepository) DeleteToken(ctx context.Context) error {
	query, args, err := buildDeleteStateQuery(keyAuthToken)
	if err != nil {
		return fmt.Errorf("build delete token query: %w", err)
	}

	if _, err = l.DB.ExecContext(ctx, query, args...); err != nil {
		l.logger.Err(err).Str("func", "localStateRepository.DeleteToken").Msg("failed to delete token")
		return fmt.Errorf("delete token: %w", err)
	}

	return nil
}

func (l *localStateRepository) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	value, err := l.getRaw(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}

	if err = json.Unmarshal([]byte(value), dst); err != nil {
		return false, fmt.Errorf("decode stored value for %q: %w", key, err)
	}
	return true, nil
}

func (l *localStateRepository) putJSON(ctx context.Context, key string, src any) error {
	payload, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	return l.putRaw(ctx, key, string(payload))
}

func (l *localStateRepository) getRaw(ctx context.Context, key string) (string, error) {
	query, args, err := buildSelectStateQuery(key)
	if err != nil {
		return "", fmt.Errorf("build select query: %w", err)
	}

	var value string
	err = l.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		l.logger.Err(err).Str("func", "localStateRepository.getRaw").Str("key", key).Msg("failed to query local state")
		return "", err
	}

	return value, nil
}

func (l *localStateRepository) putRaw(ctx context.Context, key, value string) error {
	query, args, err := buildUpsertStateQuery(key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}

	if _, err = l.DB.ExecContext(ctx, query, args...); err != nil {
		l.logger.Err(err).Str("func", "localStateRepository.putRaw").Str("key", key).Msg("failed to upsert local state")
		return err
	}

	return nil
}
