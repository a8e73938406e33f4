package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	return store, mock
}

func TestNewPostgresStore_NilDB(t *testing.T) {
	store, err := NewPostgresStore(nil)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestPostgresStore_Save_Upsert(t *testing.T) {
	store, mock := newMockStore(t)
	defer store.Close()

	created := time.Now().Add(-time.Hour)
	mock.ExpectQuery("INSERT INTO feedback").
		WithArgs("a3f9c2", "R_HF_SGLT2",
			"Recommend SGLT2 inhibitor (empagliflozin, dapagliflozin) for HF benefit, if eGFR allows.",
			true, "", "Started dapagliflozin", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	fb := &Feedback{
		RecordHash:     "a3f9c2",
		RuleID:         "R_HF_SGLT2",
		Recommendation: "Recommend SGLT2 inhibitor (empagliflozin, dapagliflozin) for HF benefit, if eGFR allows.",
		Agreed:         true,
		Notes:          "Started dapagliflozin",
	}

	err := store.Save(context.Background(), fb)

	require.NoError(t, err)
	assert.Equal(t, int64(7), fb.ID)
	assert.Equal(t, created, fb.CreatedAt)
	assert.False(t, fb.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newMockStore(t)
	defer store.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "record_hash", "rule_id", "recommendation",
		"agreed", "alternative", "notes", "created_at", "updated_at",
	}).AddRow(int64(3), "a3f9c2", "R_ASCVD_CV", "Prioritize GLP-1 RA and/or SGLT2i.",
		false, "Continued current regimen", "", now, now)

	mock.ExpectQuery("SELECT (.+) FROM feedback").
		WithArgs("a3f9c2", "R_ASCVD_CV").
		WillReturnRows(rows)

	fb, err := store.Get(context.Background(), "a3f9c2", "R_ASCVD_CV")

	require.NoError(t, err)
	require.NotNil(t, fb)
	assert.Equal(t, "R_ASCVD_CV", fb.RuleID)
	assert.False(t, fb.Agreed)
	assert.Equal(t, "Continued current regimen", fb.Alternative)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	defer store.Close()

	mock.ExpectQuery("SELECT (.+) FROM feedback").
		WithArgs("deadbeef", "R_NOPE").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "record_hash", "rule_id", "recommendation",
			"agreed", "alternative", "notes", "created_at", "updated_at",
		}))

	fb, err := store.Get(context.Background(), "deadbeef", "R_NOPE")

	require.NoError(t, err)
	assert.Nil(t, fb)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Count(t *testing.T) {
	store, mock := newMockStore(t)
	defer store.Close()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))

	count, err := store.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	store, mock := newMockStore(t)
	defer store.Close()

	mock.ExpectExec("DELETE FROM feedback").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Delete(context.Background(), 3)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
