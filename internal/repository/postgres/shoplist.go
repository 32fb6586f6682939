package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kerhoff/ShopWizard/internal/models"
	"github.com/Kerhoff/ShopWizard/internal/repository"
)

type shopListRepository struct {
	db *sql.DB
}

// NewShopListRepository creates a new shop list repository
func NewShopListRepository(db *sql.DB) repository.ShopListRepository {
	return &shopListRepository{db: db}
}

func (r *shopListRepository) CreateList(ctx context.Context, list *models.ShopList) (*models.ShopList, error) {
	query := `
		INSERT INTO shop_lists (user_id, list_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	now := time.Now()
	list.CreatedAt = now
	list.UpdatedAt = now

	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		list.UserID,
		list.Name,
		list.CreatedAt,
		list.UpdatedAt,
	).Scan(&list.ID, &list.CreatedAt, &list.UpdatedAt)

	if err != nil {
		if isValueTooLong(err) {
			return nil, fmt.Errorf("shop list name: %w", repository.ErrValueTooLong)
		}
		return nil, fmt.Errorf("failed to create shop list: %w", err)
	}

	return list, nil
}

// GetListByName returns the oldest list with the given name; names are not unique.
func (r *shopListRepository) GetListByName(ctx context.Context, userID int64, name string) (*models.ShopList, error) {
	query := `
		SELECT id, user_id, list_name, created_at, updated_at
		FROM shop_lists
		WHERE user_id = $1 AND list_name = $2
		ORDER BY id ASC
		LIMIT 1`

	list := &models.ShopList{}
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID, name).Scan(
		&list.ID,
		&list.UserID,
		&list.Name,
		&list.CreatedAt,
		&list.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shop list by name: %w", err)
	}

	return list, nil
}

func (r *shopListRepository) GetListsByUser(ctx context.Context, userID int64) ([]*models.ShopList, error) {
	query := `
		SELECT id, user_id, list_name, created_at, updated_at
		FROM shop_lists
		WHERE user_id = $1
		ORDER BY id ASC`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shop lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.ShopList
	for rows.Next() {
		list := &models.ShopList{}
		if err := rows.Scan(
			&list.ID,
			&list.UserID,
			&list.Name,
			&list.CreatedAt,
			&list.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shop list: %w", err)
		}
		lists = append(lists, list)
	}

	return lists, rows.Err()
}

func (r *shopListRepository) RenameList(ctx context.Context, listID int64, name string) error {
	query := `
		UPDATE shop_lists
		SET list_name = $2, updated_at = $3
		WHERE id = $1`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, listID, name, time.Now())
	if err != nil {
		if isValueTooLong(err) {
			return fmt.Errorf("shop list name: %w", repository.ErrValueTooLong)
		}
		return fmt.Errorf("failed to rename shop list: %w", err)
	}

	return expectOneRow(result, "shop list", listID)
}

func (r *shopListRepository) DeleteList(ctx context.Context, listID int64) error {
	query := `DELETE FROM shop_lists WHERE id = $1`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, listID)
	if err != nil {
		return fmt.Errorf("failed to delete shop list: %w", err)
	}

	return expectOneRow(result, "shop list", listID)
}

func (r *shopListRepository) AddItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	query := `
		INSERT INTO items (list_id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	item.CreatedAt = time.Now()

	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		item.ListID,
		item.Name,
		item.CreatedAt,
	).Scan(&item.ID, &item.CreatedAt)

	if err != nil {
		if isValueTooLong(err) {
			return nil, fmt.Errorf("item name: %w", repository.ErrValueTooLong)
		}
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	return item, nil
}

// GetItems returns the items of a list in insertion order.
func (r *shopListRepository) GetItems(ctx context.Context, listID int64) ([]*models.Item, error) {
	query := `
		SELECT id, list_id, name, created_at
		FROM items
		WHERE list_id = $1
		ORDER BY id ASC`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(
			&item.ID,
			&item.ListID,
			&item.Name,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *shopListRepository) GetItemByName(ctx context.Context, listID int64, name string) (*models.Item, error) {
	query := `
		SELECT id, list_id, name, created_at
		FROM items
		WHERE list_id = $1 AND name = $2
		ORDER BY id ASC
		LIMIT 1`

	item := &models.Item{}
	err := conn(ctx, r.db).QueryRowContext(ctx, query, listID, name).Scan(
		&item.ID,
		&item.ListID,
		&item.Name,
		&item.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item by name: %w", err)
	}

	return item, nil
}

func (r *shopListRepository) DeleteItem(ctx context.Context, itemID int64) error {
	query := `DELETE FROM items WHERE id = $1`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return expectOneRow(result, "item", itemID)
}

func (r *shopListRepository) DeleteItems(ctx context.Context, listID int64) error {
	query := `DELETE FROM items WHERE list_id = $1`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, listID); err != nil {
		return fmt.Errorf("failed to delete items of list %d: %w", listID, err)
	}

	return nil
}
