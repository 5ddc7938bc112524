package migrations

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Innei/mx-gobackend/internal/database"
)

func setupMigratorTest(t *testing.T) (*Migrator, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	migrator := NewMigrator(&database.Pool{DB: db})

	cleanup := func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}

	return migrator, mock, cleanup
}

func TestGetMigrations(t *testing.T) {
	all := GetMigrations()
	require.Len(t, all, 2)

	assert.Equal(t, "create_owners_table", all[0].Name)
	assert.Equal(t, "owners", all[0].TableName)
	assert.NotNil(t, all[0].RunSQL)

	assert.Equal(t, "create_api_tokens_table", all[1].Name)
	assert.Equal(t, "api_tokens", all[1].TableName)
	assert.NotNil(t, all[1].RunSQL)
}

func TestRunMigrations_FreshDatabase(t *testing.T) {
	migrator, mock, cleanup := setupMigratorTest(t)
	defer cleanup()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT name FROM migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	indexCounts := map[string]int{"owners": 1, "api_tokens": 2}
	for _, migration := range GetMigrations() {
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM information_schema.tables`).
			WithArgs(migration.TableName).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS ` + migration.TableName).
			WillReturnResult(sqlmock.NewResult(0, 0))
		for i := 0; i < indexCounts[migration.TableName]; i++ {
			mock.ExpectExec(`CREATE INDEX`).
				WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectExec(`INSERT INTO migrations`).
			WithArgs(migration.Name, migration.Description).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	err := migrator.RunMigrations(context.Background())
	require.NoError(t, err)
}

func TestRunMigrations_AlreadyExecuted(t *testing.T) {
	migrator, mock, cleanup := setupMigratorTest(t)
	defer cleanup()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT name FROM migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow("create_owners_table").
			AddRow("create_api_tokens_table"))

	// Nothing else runs
	err := migrator.RunMigrations(context.Background())
	require.NoError(t, err)
}

func TestRunMigrations_ExistingTableRecordedWithoutRunning(t *testing.T) {
	migrator, mock, cleanup := setupMigratorTest(t)
	defer cleanup()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT name FROM migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow("create_api_tokens_table"))

	// owners table pre-dates the tracking table: record, don't re-create
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM information_schema.tables`).
		WithArgs("owners").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`INSERT INTO migrations`).
		WithArgs("create_owners_table", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := migrator.RunMigrations(context.Background())
	require.NoError(t, err)
}
