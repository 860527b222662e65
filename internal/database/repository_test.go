package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Omarlsant/job-scraper/internal/config"
	"github.com/Omarlsant/job-scraper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *Repository {
	t.Helper()
	repo, err := ConnectDB(context.Background(),
		config.Database{Driver: config.DriverSQLite, Name: filepath.Join(t.TempDir(), "jobs.db")},
		config.Storage{Table: "frontend_jobs"},
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleListing(title string) models.JobListing {
	return models.JobListing{
		Title:           title,
		Company:         "Test Company",
		Location:        "Madrid",
		WorkFormat:      "Híbrido",
		PublicationDate: "Hace 2h",
		Description:     "React y TypeScript",
		ContractType:    "Contrato indefinido",
		WorkType:        "Jornada completa",
		Salary:          models.NotAvailable,
		URL:             "https://www.infojobs.net/madrid/frontend/of-i123",
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	var tables int
	err := repo.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'frontend_jobs'").Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 1, tables)
}

func TestInsertListings_StoresEveryField(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)
	require.NoError(t, repo.EnsureSchema(ctx))

	want := sampleListing("Desarrollador/a Frontend — Señor")
	n, err := repo.InsertListings(ctx, []models.JobListing{want})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got models.JobListing
	var id int
	err = repo.db.QueryRowContext(ctx, `SELECT id, job_title, company_name, location, work_format,
		publication_date, description, contract_type, work_type, salary, url FROM frontend_jobs`).
		Scan(&id, &got.Title, &got.Company, &got.Location, &got.WorkFormat, &got.PublicationDate,
			&got.Description, &got.ContractType, &got.WorkType, &got.Salary, &got.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.Equal(t, want, got)
}

func TestInsertListings_AppendsAcrossRuns(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)
	require.NoError(t, repo.EnsureSchema(ctx))

	batch := []models.JobListing{sampleListing("A"), sampleListing("B")}
	for i := 0; i < 2; i++ {
		_, err := repo.InsertListings(ctx, batch)
		require.NoError(t, err)
	}

	count, err := repo.CountListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count, "rows are appended, never deduplicated")
}

func TestInsertListings_RollsBackWholeBatch(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)
	require.NoError(t, repo.EnsureSchema(ctx))

	_, err := repo.db.ExecContext(ctx, `CREATE TRIGGER reject_boom BEFORE INSERT ON frontend_jobs
		WHEN NEW.job_title = 'boom'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	n, err := repo.InsertListings(ctx, []models.JobListing{
		sampleListing("first"),
		sampleListing("boom"),
		sampleListing("third"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert listing 1")
	assert.Equal(t, 0, n)

	count, err := repo.CountListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInsertListings_EmptyBatch(t *testing.T) {
	repo := openSQLite(t)
	n, err := repo.InsertListings(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInsertListings_WithoutSchemaFails(t *testing.T) {
	repo := openSQLite(t)
	_, err := repo.InsertListings(context.Background(), []models.JobListing{sampleListing("A")})
	assert.Error(t, err)
}

func TestConnectDB_UnknownDriver(t *testing.T) {
	_, err := ConnectDB(context.Background(), config.Database{Driver: "oracle"}, config.Storage{Table: "t"})
	assert.ErrorContains(t, err, `unsupported driver "oracle"`)
}
