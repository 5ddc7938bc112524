package migrations

import (
	"context"
	"database/sql"
)

// createOwnersTable creates the owners table. The table holds at most one
// row; the single-owner invariant is enforced at the repository layer.
func createOwnersTable() Migration {
	return Migration{
		Name:        "create_owners_table",
		Description: "Creates the owners table",
		TableName:   "owners",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS owners (
					owner_id BIGINT PRIMARY KEY GENERATED ALWAYS AS IDENTITY,
					username VARCHAR(50) NOT NULL UNIQUE,
					password_hash VARCHAR(255) NOT NULL,
					salt VARCHAR(255) NOT NULL,
					auth_code VARCHAR(32) NOT NULL,
					auth_generation BIGINT NOT NULL DEFAULT 1,
					name VARCHAR(50) NOT NULL DEFAULT '',
					mail VARCHAR(255) NOT NULL DEFAULT '',
					url VARCHAR(255) NOT NULL DEFAULT '',
					avatar VARCHAR(255) NOT NULL DEFAULT '',
					introduce VARCHAR(255) NOT NULL DEFAULT '',
					last_login_at TIMESTAMP,
					last_login_ip VARCHAR(50),
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
				)
			`
			_, err := tx.ExecContext(ctx, query)
			if err != nil {
				return err
			}

			indexQuery := `CREATE INDEX IF NOT EXISTS idx_owners_username ON owners(LOWER(username))`
			_, err = tx.ExecContext(ctx, indexQuery)
			return err
		},
	}
}

// createAPITokensTable creates the api_tokens table
func createAPITokensTable() Migration {
	return Migration{
		Name:        "create_api_tokens_table",
		Description: "Creates the api_tokens table",
		TableName:   "api_tokens",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS api_tokens (
					token_id BIGINT PRIMARY KEY GENERATED ALWAYS AS IDENTITY,
					token VARCHAR(255) NOT NULL UNIQUE,
					name VARCHAR(50) NOT NULL,
					expires_at TIMESTAMP,
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
				)
			`
			_, err := tx.ExecContext(ctx, query)
			if err != nil {
				return err
			}

			indexes := []string{
				`CREATE INDEX IF NOT EXISTS idx_api_tokens_token ON api_tokens(token)`,
				`CREATE INDEX IF NOT EXISTS idx_api_tokens_expires_at ON api_tokens(expires_at)`,
			}

			for _, idx := range indexes {
				if _, err := tx.ExecContext(ctx, idx); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
