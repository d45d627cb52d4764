package items

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemCols = []string{"id", "user_id", "title", "ciphertext", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+encrypted_items\s*\(id,\s*user_id,\s*title,\s*ciphertext\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at,\s*updated_at$`).
		WithArgs("i-1", "u-1", "wifi", "BLOB").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	item := &models.Item{ID: "i-1", UserID: "u-1", Title: "wifi", Blob: "BLOB"}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.Equal(t, ts, item.CreatedAt)
	assert.Equal(t, ts, item.UpdatedAt)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	q := `(?s)^UPDATE\s+encrypted_items\s+SET\s+title\s*=\s*\$3,\s*ciphertext\s*=\s*\$4,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`
	mock.ExpectQuery(q).
		WithArgs("i-1", "u-1", "wifi", "NEWBLOB").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, updated))
	mock.ExpectQuery(q).
		WithArgs("i-1", "intruder", "x", "y").
		WillReturnError(sql.ErrNoRows)

	item := &models.Item{ID: "i-1", UserID: "u-1", Title: "wifi", Blob: "NEWBLOB"}
	require.NoError(t, repo.Update(context.Background(), item))
	assert.Equal(t, updated, item.UpdatedAt)

	err := repo.Update(context.Background(), &models.Item{ID: "i-1", UserID: "intruder", Title: "x", Blob: "y"})
	assert.True(t, errors.Is(err, common.ErrorNotFound), "got %v", err)
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Now().UTC()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*ciphertext,\s*created_at,\s*updated_at\s+FROM\s+encrypted_items\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
	mock.ExpectQuery(q).WithArgs("i-1", "u-1").
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow("i-1", "u-1", "wifi", "BLOB", ts, ts))
	mock.ExpectQuery(q).WithArgs("i-1", "u-2").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q).WithArgs("i-9", "u-1").WillReturnError(errors.New("db down"))

	item, err := repo.Get(context.Background(), "u-1", "i-1")
	require.NoError(t, err)
	assert.Equal(t, "BLOB", item.Blob)

	_, err = repo.Get(context.Background(), "u-2", "i-1")
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	_, err = repo.Get(context.Background(), "u-1", "i-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Now().UTC()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+encrypted_items\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow("i-2", "u-1", "newer", "B2", ts, ts).
			AddRow("i-1", "u-1", "older", "B1", ts.Add(-time.Hour), ts.Add(-time.Hour)))

	list, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "i-2", list[0].ID)
	assert.Equal(t, "i-1", list[1].ID)
}

func TestListByUser_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+encrypted_items`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(itemCols))

	list, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^DELETE\s+FROM\s+encrypted_items\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
	mock.ExpectExec(q).WithArgs("i-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("i-1", "u-2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u-1", "i-1"))
	assert.True(t, errors.Is(repo.Delete(context.Background(), "u-2", "i-1"), common.ErrorNotFound))
}
