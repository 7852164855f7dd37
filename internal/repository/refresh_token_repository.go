package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffdesk/api/internal/models"
)

var ErrTokenNotFound = errors.New("refresh token not found")

const tokenColumns = `
	token, account_id, expires_at, created_by_ip, created_at,
	revoked_at, revoked_by_ip, replaced_by_token`

type RefreshTokenRepository struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepository(pool *pgxpool.Pool) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: pool}
}

func scanToken(row pgx.Row) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(
		&t.Token,
		&t.AccountID,
		&t.ExpiresAt,
		&t.CreatedByIP,
		&t.CreatedAt,
		&t.RevokedAt,
		&t.RevokedByIP,
		&t.ReplacedByToken,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RefreshToken{}, ErrTokenNotFound
		}
		return models.RefreshToken{}, err
	}
	return t, nil
}

const insertTokenQuery = `
	INSERT INTO refresh_tokens (
		token, account_id, expires_at, created_by_ip, created_at
	) VALUES (
		$1, $2, $3, $4, NOW()
	)
`

func (r *RefreshTokenRepository) Create(ctx context.Context, token models.RefreshToken) error {
	_, err := r.pool.Exec(ctx, insertTokenQuery,
		token.Token,
		token.AccountID,
		token.ExpiresAt,
		token.CreatedByIP,
	)
	return err
}

func (r *RefreshTokenRepository) FindByToken(ctx context.Context, token string) (models.RefreshToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM refresh_tokens WHERE token = $1`
	return scanToken(r.pool.QueryRow(ctx, query, token))
}

const revokeTokenQuery = `
	UPDATE refresh_tokens
	SET revoked_at = $2, revoked_by_ip = $3, replaced_by_token = $4
	WHERE token = $1
`

func (r *RefreshTokenRepository) Update(ctx context.Context, token models.RefreshToken) error {
	cmd, err := r.pool.Exec(ctx, revokeTokenQuery,
		token.Token,
		token.RevokedAt,
		token.RevokedByIP,
		token.ReplacedByToken,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// Rotate marks the old token revoked and inserts its replacement in one
// transaction, so there is no window where the old token is dead but no
// replacement exists.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, revoked models.RefreshToken, replacement models.RefreshToken) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, revokeTokenQuery,
		revoked.Token,
		revoked.RevokedAt,
		revoked.RevokedByIP,
		revoked.ReplacedByToken,
	)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrTokenNotFound
	}

	if _, err := tx.Exec(ctx, insertTokenQuery,
		replacement.Token,
		replacement.AccountID,
		replacement.ExpiresAt,
		replacement.CreatedByIP,
	); err != nil {
		return fmt.Errorf("insert replacement: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteExpiredBefore drops tokens that expired before the cutoff. Revoked
// tokens inside the window stay, their replaced_by_token chain is still
// useful for reuse detection.
func (r *RefreshTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
