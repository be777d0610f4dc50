package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open gorm: %v", err)
	}
	return gormDB, mock
}

func TestTableRepoFetchQuotesCollection(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTableRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "metaAds"`)).
		WillReturnRows(sqlmock.NewRows([]string{"ad_id", "spend"}).
			AddRow("123", "10.5").
			AddRow("456", nil))

	records, err := repo.Fetch(context.Background(), models.CollectionMetaAds)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "123", records[0]["ad_id"])
	assert.Nil(t, records[1]["spend"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepoFetchEmptyAndError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTableRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "stories"`)).
		WillReturnRows(sqlmock.NewRows([]string{"reach"}))

	records, err := repo.Fetch(context.Background(), models.CollectionStories)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "Posts"`)).
		WillReturnError(errors.New("connection refused"))

	_, err = repo.Fetch(context.Background(), models.CollectionPosts)
	assert.ErrorContains(t, err, "fetch Posts")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepoVerify(t *testing.T) {
	contract := models.Contracts[models.CollectionEstoque]
	query := regexp.QuoteMeta(`SELECT column_name FROM information_schema.columns`)

	t.Run("all columns present", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(query).
			WithArgs("estoque", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"column_name"}).
				AddRow("sku").AddRow("inventory_quantity").AddRow("timestamp"))

		assert.NoError(t, NewTableRepo(db).Verify(context.Background(), contract))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing column", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(query).
			WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("sku").AddRow("timestamp"))

		err := NewTableRepo(db).Verify(context.Background(), contract)
		var mce *MissingColumnError
		require.ErrorAs(t, err, &mce)
		assert.Equal(t, "estoque", mce.Collection)
		assert.Equal(t, "inventory_quantity", mce.Column)
	})

	t.Run("missing table", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

		err := NewTableRepo(db).Verify(context.Background(), contract)
		var mce *MissingColumnError
		require.ErrorAs(t, err, &mce)
		assert.Equal(t, "*", mce.Column)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("store error", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(query).WillReturnError(errors.New("timeout"))

		err := NewTableRepo(db).Verify(context.Background(), contract)
		var mce *MissingColumnError
		assert.False(t, errors.As(err, &mce))
		assert.Error(t, err)
	})
}

func TestChatRepoHistoryIsOldestFirst(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewChatRepo(db)
	userID := uuid.New()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "chat_messages" WHERE user_id = $1 ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "role", "content", "created_at"}).
			AddRow(uuid.New().String(), userID.String(), "assistant", "second", now).
			AddRow(uuid.New().String(), userID.String(), "user", "first", now.Add(-time.Minute)))

	history, err := repo.History(context.Background(), userID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", history[1].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepoClear(t *testing.T) {
	db, mock := setupMockDB(t)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "chat_messages" WHERE user_id = $1`)).
		WithArgs(userID.String()).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	require.NoError(t, NewChatRepo(db).Clear(context.Background(), userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepoSaveNothing(t *testing.T) {
	db, mock := setupMockDB(t)
	assert.NoError(t, NewChatRepo(db).Save(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
