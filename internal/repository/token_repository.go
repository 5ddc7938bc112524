package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Innei/mx-gobackend/internal/constants"
	"github.com/Innei/mx-gobackend/internal/database"
	"github.com/Innei/mx-gobackend/internal/models"
	"github.com/Innei/mx-gobackend/internal/utils"
)

// TokenRepository defines methods for interacting with API token data
type TokenRepository interface {
	Create(ctx context.Context, token *models.APIToken) error
	GetByToken(ctx context.Context, token string) (*models.APIToken, error)
	List(ctx context.Context) ([]*models.APIToken, error)
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// PostgresTokenRepository is a PostgreSQL implementation of TokenRepository
type PostgresTokenRepository struct {
	db *database.Pool
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *database.Pool) TokenRepository {
	return &PostgresTokenRepository{
		db: db,
	}
}

// Create adds a new API token to the database
func (r *PostgresTokenRepository) Create(ctx context.Context, token *models.APIToken) error {
	startTime := time.Now()

	token.CreatedAt = time.Now()

	query := `
        INSERT INTO api_tokens (token, name, expires_at, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING token_id
    `

	err := r.db.QueryRowContext(
		ctx,
		query,
		token.Token,
		token.Name,
		token.ExpiresAt,
		token.CreatedAt,
	).Scan(&token.ID)

	utils.LogDBQuery(
		query,
		[]interface{}{constants.LogRedactedValue, token.Name, token.ExpiresAt, token.CreatedAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return utils.NewConflictError("An API token with the same name already exists")
		}
		return fmt.Errorf("failed to create API token: %w", err)
	}

	log.Info().
		Int64("token_id", token.ID).
		Str("name", token.Name).
		Msg("API token created")

	return nil
}

// GetByToken retrieves an API token by its value
func (r *PostgresTokenRepository) GetByToken(ctx context.Context, token string) (*models.APIToken, error) {
	startTime := time.Now()

	query := `
        SELECT token_id, token, name, expires_at, created_at
        FROM api_tokens
        WHERE token = $1
    `

	apiToken := &models.APIToken{}
	var expiresAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&apiToken.ID,
		&apiToken.Token,
		&apiToken.Name,
		&expiresAt,
		&apiToken.CreatedAt,
	)

	utils.LogDBQuery(
		query,
		[]interface{}{constants.LogRedactedValue},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("APIToken", "token")
		}
		return nil, fmt.Errorf("failed to get API token: %w", err)
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		apiToken.ExpiresAt = &t
	}

	return apiToken, nil
}

// List retrieves all API tokens, newest first
func (r *PostgresTokenRepository) List(ctx context.Context) ([]*models.APIToken, error) {
	startTime := time.Now()

	query := `
        SELECT token_id, token, name, expires_at, created_at
        FROM api_tokens
        ORDER BY created_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query)

	utils.LogDBQuery(query, nil, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list API tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*models.APIToken
	for rows.Next() {
		token := &models.APIToken{}
		var expiresAt sql.NullTime
		if err := rows.Scan(
			&token.ID,
			&token.Token,
			&token.Name,
			&expiresAt,
			&token.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan API token: %w", err)
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			token.ExpiresAt = &t
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating API tokens: %w", err)
	}

	return tokens, nil
}

// Delete removes an API token by ID
func (r *PostgresTokenRepository) Delete(ctx context.Context, id int64) error {
	startTime := time.Now()

	query := `DELETE FROM api_tokens WHERE token_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to delete API token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("APIToken", id)
	}

	log.Info().
		Int64("token_id", id).
		Msg("API token revoked")

	return nil
}

// DeleteExpired removes all API tokens past their expiry and returns how
// many were removed. Tokens without an expiry are never touched.
func (r *PostgresTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	startTime := time.Now()

	query := `DELETE FROM api_tokens WHERE expires_at IS NOT NULL AND expires_at < $1`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, now)

	utils.LogDBQuery(query, []interface{}{now}, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to delete expired API tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		log.Info().
			Int64("count", rowsAffected).
			Msg("Expired API tokens removed")
	}

	return rowsAffected, nil
}
