package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/ShopWizard/internal/models"
	"github.com/Kerhoff/ShopWizard/internal/repository"
)

func newMock(t *testing.T) (sqlmock.Sqlmock, func() *shopListRepository, func() *contactRepository, *transactor) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	lists := func() *shopListRepository { return &shopListRepository{db: db} }
	contacts := func() *contactRepository { return &contactRepository{db: db} }
	return mock, lists, contacts, &transactor{db: db}
}

func TestShopListRepository_GetListByNameMissing(t *testing.T) {
	mock, lists, _, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM shop_lists")).
		WithArgs(int64(1), "Groceries").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "list_name", "created_at", "updated_at"}))

	list, err := lists().GetListByName(context.Background(), 1, "Groceries")
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestShopListRepository_CreateList(t *testing.T) {
	mock, lists, _, _ := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO shop_lists")).
		WithArgs(int64(1), "Groceries", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	list, err := lists().CreateList(context.Background(), &models.ShopList{UserID: 1, Name: "Groceries"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), list.ID)
}

func TestShopListRepository_GetItemsKeepsOrder(t *testing.T) {
	mock, lists, _, _ := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id ASC")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "list_id", "name", "created_at"}).
			AddRow(1, 3, "milk", now).
			AddRow(2, 3, "bread", now))

	items, err := lists().GetItems(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "milk", items[0].Name)
	assert.Equal(t, "bread", items[1].Name)
}

func TestShopListRepository_DeleteItemNotFound(t *testing.T) {
	mock, lists, _, _ := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := lists().DeleteItem(context.Background(), 9)
	assert.Error(t, err)
}

func TestTransactor_CommitsBothDeletes(t *testing.T) {
	mock, lists, _, tx := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE list_id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shop_lists WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := lists()
	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		if err := repo.DeleteItems(ctx, 3); err != nil {
			return err
		}
		return repo.DeleteList(ctx, 3)
	})
	require.NoError(t, err)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	mock, lists, _, tx := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE list_id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shop_lists WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	repo := lists()
	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		if err := repo.DeleteItems(ctx, 3); err != nil {
			return err
		}
		return repo.DeleteList(ctx, 3)
	})
	assert.ErrorContains(t, err, "connection reset")
}

func TestContactRepository_CreateDuplicate(t *testing.T) {
	mock, _, contacts, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO contacts")).
		WithArgs(int64(1), "Ann", "Lee", "123", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := contacts().Create(context.Background(), &models.Contact{
		UserID: 1, FirstName: "Ann", LastName: "Lee", PhoneNumber: "123",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestContactRepository_CountByUser(t *testing.T) {
	mock, _, contacts, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM contacts")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := contacts().CountByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestShopListRepository_AddItemTooLong(t *testing.T) {
	mock, lists, _, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO items")).
		WithArgs(int64(3), "milk", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "22001"})

	_, err := lists().AddItem(context.Background(), &models.Item{ListID: 3, Name: "milk"})
	assert.ErrorIs(t, err, repository.ErrValueTooLong)
}

func TestContactRepository_CreateTooLong(t *testing.T) {
	mock, _, contacts, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO contacts")).
		WithArgs(int64(1), "Ann", "Lee", "123456789012345678901", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "22001"})

	_, err := contacts().Create(context.Background(), &models.Contact{
		UserID: 1, FirstName: "Ann", LastName: "Lee", PhoneNumber: "123456789012345678901",
	})
	assert.ErrorIs(t, err, repository.ErrValueTooLong)
	assert.NotErrorIs(t, err, repository.ErrDuplicate)
}
