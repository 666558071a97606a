package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Concierge/internal/domain"
)

// SessionRepo — репозиторий signup-сессий.
//
// Помимо самой сессии хранит отложенные корзину и параметры сайта
// неаутентифицированного checkout-пути (shopping_cart, site_params),
// реализуя signup.FallbackStore.
type SessionRepo struct {
	pool *pgxpool.Pool
}

// NewSessionRepo создаёт новый SessionRepo.
func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// Create создаёт новую сессию.
func (r *SessionRepo) Create(ctx context.Context, sess *domain.SignupSession) error {
	depsJSON, err := json.Marshal(sess.Dependencies)
	if err != nil {
		return fmt.Errorf("marshal dependencies: %w", err)
	}
	progressJSON, err := json.Marshal(sess.Progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	query := `
		INSERT INTO sessions (id, flow_name, status, dependencies, excluded_steps, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.pool.Exec(ctx, query,
		sess.ID,
		sess.FlowName,
		sess.Status,
		depsJSON,
		sess.ExcludedSteps,
		progressJSON,
		sess.CreatedAt,
		sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByID возвращает сессию по ID.
func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SignupSession, error) {
	query := `
		SELECT id, flow_name, status, dependencies, excluded_steps, progress, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`
	return scanSession(r.pool.QueryRow(ctx, query, id))
}

// Update сохраняет изменённое состояние сессии.
func (r *SessionRepo) Update(ctx context.Context, sess *domain.SignupSession) error {
	depsJSON, err := json.Marshal(sess.Dependencies)
	if err != nil {
		return fmt.Errorf("marshal dependencies: %w", err)
	}
	progressJSON, err := json.Marshal(sess.Progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	query := `
		UPDATE sessions
		SET status = $2, dependencies = $3, excluded_steps = $4, progress = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		sess.ID,
		sess.Status,
		depsJSON,
		sess.ExcludedSteps,
		progressJSON,
		sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List возвращает сессии с фильтрацией.
func (r *SessionRepo) List(ctx context.Context, filter SessionFilter) ([]domain.SignupSession, error) {
	query := `
		SELECT id, flow_name, status, dependencies, excluded_steps, progress, created_at, updated_at
		FROM sessions
		WHERE ($1::text IS NULL OR flow_name = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(filter.FlowName),
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.SignupSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// SaveShoppingCart сохраняет отложенные позиции корзины сессии.
func (r *SessionRepo) SaveShoppingCart(ctx context.Context, sessionID uuid.UUID, items []domain.CartItem) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal shopping cart: %w", err)
	}

	result, err := r.pool.Exec(ctx,
		`UPDATE sessions SET shopping_cart = $2, updated_at = now() WHERE id = $1`,
		sessionID, itemsJSON,
	)
	if err != nil {
		return fmt.Errorf("save shopping cart: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveSiteParams сохраняет отложенные параметры создания сайта.
func (r *SessionRepo) SaveSiteParams(ctx context.Context, sessionID uuid.UUID, params *domain.NewSiteParams) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal site params: %w", err)
	}

	result, err := r.pool.Exec(ctx,
		`UPDATE sessions SET site_params = $2, updated_at = now() WHERE id = $1`,
		sessionID, paramsJSON,
	)
	if err != nil {
		return fmt.Errorf("save site params: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PendingCheckout возвращает отложенные корзину и параметры сайта.
// После аутентификации следующий шаг завершает ими создание сайта.
func (r *SessionRepo) PendingCheckout(ctx context.Context, sessionID uuid.UUID) ([]domain.CartItem, *domain.NewSiteParams, error) {
	var cartJSON, paramsJSON []byte
	err := r.pool.QueryRow(ctx,
		`SELECT shopping_cart, site_params FROM sessions WHERE id = $1`,
		sessionID,
	).Scan(&cartJSON, &paramsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("pending checkout: %w", err)
	}

	var items []domain.CartItem
	if cartJSON != nil {
		if err := json.Unmarshal(cartJSON, &items); err != nil {
			return nil, nil, fmt.Errorf("unmarshal shopping cart: %w", err)
		}
	}
	var params *domain.NewSiteParams
	if paramsJSON != nil {
		params = &domain.NewSiteParams{}
		if err := json.Unmarshal(paramsJSON, params); err != nil {
			return nil, nil, fmt.Errorf("unmarshal site params: %w", err)
		}
	}
	return items, params, nil
}

// ClearPendingCheckout очищает отложенные данные после их использования.
func (r *SessionRepo) ClearPendingCheckout(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE sessions SET shopping_cart = NULL, site_params = NULL, updated_at = now() WHERE id = $1`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("clear pending checkout: %w", err)
	}
	return nil
}

// MarkAbandonedBefore переводит активные сессии без изменений с cutoff
// в статус ABANDONED. Возвращает число затронутых сессий.
func (r *SessionRepo) MarkAbandonedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE sessions SET status = $1, updated_at = now() WHERE status = $2 AND updated_at < $3`,
		domain.SessionStatusAbandoned, domain.SessionStatusActive, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("mark abandoned: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteTerminalBefore удаляет завершённые и брошенные сессии старше
// cutoff. Возвращает число удалённых сессий.
func (r *SessionRepo) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM sessions WHERE status <> $1 AND updated_at < $2`,
		domain.SessionStatusActive, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("delete terminal: %w", err)
	}
	return result.RowsAffected(), nil
}

// --- Helpers ---

// SessionFilter — параметры фильтрации сессий.
type SessionFilter struct {
	FlowName string
	Status   domain.SessionStatus
	Limit    int
	Offset   int
}

// scanSession сканирует строку в SignupSession.
func scanSession(row pgx.Row) (*domain.SignupSession, error) {
	var sess domain.SignupSession
	var depsJSON, progressJSON []byte

	err := row.Scan(
		&sess.ID,
		&sess.FlowName,
		&sess.Status,
		&depsJSON,
		&sess.ExcludedSteps,
		&progressJSON,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if depsJSON != nil {
		if err := json.Unmarshal(depsJSON, &sess.Dependencies); err != nil {
			return nil, fmt.Errorf("unmarshal dependencies: %w", err)
		}
	}
	if progressJSON != nil {
		if err := json.Unmarshal(progressJSON, &sess.Progress); err != nil {
			return nil, fmt.Errorf("unmarshal progress: %w", err)
		}
	}

	return &sess, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
