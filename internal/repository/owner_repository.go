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

// OwnerRepository defines methods for interacting with the owner record.
// The table holds at most one row; Create enforces that.
type OwnerRepository interface {
	Create(ctx context.Context, owner *models.Owner) error
	First(ctx context.Context) (*models.Owner, error)
	GetByID(ctx context.Context, id int64) (*models.Owner, error)
	GetByUsername(ctx context.Context, username string) (*models.Owner, error)
	Update(ctx context.Context, owner *models.Owner) error
	UpdateCredentials(ctx context.Context, id int64, passwordHash, salt, authCode string, authGeneration int64) error
	Exists(ctx context.Context) (bool, error)
	RecordLogin(ctx context.Context, id int64, ip string) (*models.Footstep, error)
}

// PostgresOwnerRepository is a PostgreSQL implementation of OwnerRepository
type PostgresOwnerRepository struct {
	db *database.Pool
}

// NewOwnerRepository creates a new OwnerRepository
func NewOwnerRepository(db *database.Pool) OwnerRepository {
	return &PostgresOwnerRepository{
		db: db,
	}
}

const ownerColumns = `owner_id, username, password_hash, salt, auth_code, auth_generation,
		name, mail, url, avatar, introduce, last_login_at, last_login_ip, created_at, updated_at`

// scanOwner scans a full owner row from a QueryRow result.
func scanOwner(row *sql.Row) (*models.Owner, error) {
	owner := &models.Owner{}
	var lastLoginAt sql.NullTime
	var lastLoginIP sql.NullString

	err := row.Scan(
		&owner.ID,
		&owner.Username,
		&owner.PasswordHash,
		&owner.Salt,
		&owner.AuthCode,
		&owner.AuthGeneration,
		&owner.Name,
		&owner.Mail,
		&owner.URL,
		&owner.Avatar,
		&owner.Introduce,
		&lastLoginAt,
		&lastLoginIP,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastLoginAt.Valid {
		t := lastLoginAt.Time
		owner.LastLoginAt = &t
	}
	if lastLoginIP.Valid {
		owner.LastLoginIP = lastLoginIP.String
	}

	return owner, nil
}

// Create adds the owner record. It runs inside a transaction so the
// single-owner invariant holds even under concurrent registration attempts.
func (r *PostgresOwnerRepository) Create(ctx context.Context, owner *models.Owner) error {
	startTime := time.Now()

	now := time.Now()
	owner.CreatedAt = now
	owner.UpdatedAt = now

	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		var exists bool
		existsQuery := `SELECT EXISTS(SELECT 1 FROM owners)`
		if err := tx.QueryRowContext(ctx, existsQuery).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check for existing owner: %w", err)
		}
		if exists {
			return utils.NewConflictError(constants.MsgOwnerExists)
		}

		query := `
        INSERT INTO owners (username, password_hash, salt, auth_code, auth_generation,
            name, mail, url, avatar, introduce, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING owner_id
    `

		err := tx.QueryRowContext(
			ctx,
			query,
			owner.Username,
			owner.PasswordHash,
			owner.Salt,
			owner.AuthCode,
			owner.AuthGeneration,
			owner.Name,
			owner.Mail,
			owner.URL,
			owner.Avatar,
			owner.Introduce,
			owner.CreatedAt,
			owner.UpdatedAt,
		).Scan(&owner.ID)

		utils.LogDBQuery(
			query,
			[]interface{}{owner.Username, constants.LogRedactedValue, constants.LogRedactedValue},
			time.Since(startTime),
			err,
		)

		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return utils.NewConflictError(constants.MsgOwnerExists)
			}
			return fmt.Errorf("failed to create owner: %w", err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	log.Info().
		Int64("owner_id", owner.ID).
		Str("username", owner.Username).
		Msg("Owner created")

	return nil
}

// First retrieves the owner record. There is at most one.
func (r *PostgresOwnerRepository) First(ctx context.Context) (*models.Owner, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s
        FROM owners
        ORDER BY owner_id
        LIMIT 1
    `, ownerColumns)

	owner, err := scanOwner(r.db.QueryRowContext(ctx, query))

	utils.LogDBQuery(query, nil, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Owner", "first")
		}
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}

	return owner, nil
}

// GetByID retrieves the owner by ID
func (r *PostgresOwnerRepository) GetByID(ctx context.Context, id int64) (*models.Owner, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s
        FROM owners
        WHERE owner_id = $1
    `, ownerColumns)

	owner, err := scanOwner(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Owner", id)
		}
		return nil, fmt.Errorf("failed to get owner by ID: %w", err)
	}

	return owner, nil
}

// GetByUsername retrieves the owner by username (case-insensitive)
func (r *PostgresOwnerRepository) GetByUsername(ctx context.Context, username string) (*models.Owner, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s
        FROM owners
        WHERE LOWER(username) = LOWER($1)
    `, ownerColumns)

	owner, err := scanOwner(r.db.QueryRowContext(ctx, query, username))

	utils.LogDBQuery(query, []interface{}{username}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Owner", fmt.Sprintf("username=%s", username))
		}
		return nil, fmt.Errorf("failed to get owner by username: %w", err)
	}

	return owner, nil
}

// Update updates the owner's profile fields. Credential and revocation
// state go through UpdateCredentials instead.
func (r *PostgresOwnerRepository) Update(ctx context.Context, owner *models.Owner) error {
	startTime := time.Now()

	owner.UpdatedAt = time.Now()

	query := `
        UPDATE owners
        SET name = $1, mail = $2, url = $3, avatar = $4, introduce = $5, updated_at = $6
        WHERE owner_id = $7
    `

	result, err := r.db.ExecContext(
		ctx,
		query,
		owner.Name,
		owner.Mail,
		owner.URL,
		owner.Avatar,
		owner.Introduce,
		owner.UpdatedAt,
		owner.ID,
	)

	utils.LogDBQuery(
		query,
		[]interface{}{owner.Name, owner.Mail, owner.URL, owner.Avatar, owner.Introduce, owner.UpdatedAt, owner.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update owner: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Owner", owner.ID)
	}

	log.Info().
		Int64("owner_id", owner.ID).
		Msg("Owner profile updated")

	return nil
}

// UpdateCredentials replaces the password hash and salt and rotates the
// revocation state. All session tokens minted before this call become
// invalid because their embedded generation no longer matches.
func (r *PostgresOwnerRepository) UpdateCredentials(ctx context.Context, id int64, passwordHash, salt, authCode string, authGeneration int64) error {
	startTime := time.Now()

	query := `
        UPDATE owners
        SET password_hash = $1, salt = $2, auth_code = $3, auth_generation = $4, updated_at = $5
        WHERE owner_id = $6
    `

	now := time.Now()
	result, err := r.db.ExecContext(
		ctx,
		query,
		passwordHash,
		salt,
		authCode,
		authGeneration,
		now,
		id,
	)

	utils.LogDBQuery(
		query,
		[]interface{}{constants.LogRedactedValue, constants.LogRedactedValue, constants.LogRedactedValue, authGeneration, now, id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Owner", id)
	}

	log.Info().
		Int64("owner_id", id).
		Int64("auth_generation", authGeneration).
		Msg("Owner credentials rotated")

	return nil
}

// Exists checks whether the owner record has been created
func (r *PostgresOwnerRepository) Exists(ctx context.Context) (bool, error) {
	startTime := time.Now()

	query := `SELECT EXISTS(SELECT 1 FROM owners)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query).Scan(&exists)

	utils.LogDBQuery(query, nil, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check if owner exists: %w", err)
	}

	return exists, nil
}

// RecordLogin overwrites the login trace with the current time and address
// and returns the previous trace. Read and overwrite run in one transaction
// so concurrent logins cannot interleave.
func (r *PostgresOwnerRepository) RecordLogin(ctx context.Context, id int64, ip string) (*models.Footstep, error) {
	startTime := time.Now()

	previous := &models.Footstep{}

	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		selectQuery := `
        SELECT last_login_at, last_login_ip
        FROM owners
        WHERE owner_id = $1
        FOR UPDATE
    `

		var lastLoginAt sql.NullTime
		var lastLoginIP sql.NullString
		if err := tx.QueryRowContext(ctx, selectQuery, id).Scan(&lastLoginAt, &lastLoginIP); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return utils.NewNotFoundError("Owner", id)
			}
			return fmt.Errorf("failed to read login trace: %w", err)
		}

		if lastLoginAt.Valid {
			t := lastLoginAt.Time
			previous.LastLoginAt = &t
		}
		if lastLoginIP.Valid {
			previous.LastLoginIP = lastLoginIP.String
		}

		updateQuery := `
        UPDATE owners
        SET last_login_at = $1, last_login_ip = $2
        WHERE owner_id = $3
    `

		now := time.Now()
		result, err := tx.ExecContext(ctx, updateQuery, now, ip, id)

		utils.LogDBQuery(
			updateQuery,
			[]interface{}{now, ip, id},
			time.Since(startTime),
			err,
		)

		if err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return utils.NewNotFoundError("Owner", id)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	utils.LogFootstep(ip)

	return previous, nil
}
