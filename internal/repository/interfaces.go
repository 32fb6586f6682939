package repository

import (
	"context"

	"github.com/Kerhoff/ShopWizard/internal/models"
)

// Lookups return (nil, nil) when the row does not exist.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}

// ShopListRepository defines the interface for shop list and item operations
type ShopListRepository interface {
	CreateList(ctx context.Context, list *models.ShopList) (*models.ShopList, error)
	GetListByName(ctx context.Context, userID int64, name string) (*models.ShopList, error)
	GetListsByUser(ctx context.Context, userID int64) ([]*models.ShopList, error)
	RenameList(ctx context.Context, listID int64, name string) error
	DeleteList(ctx context.Context, listID int64) error

	AddItem(ctx context.Context, item *models.Item) (*models.Item, error)
	GetItems(ctx context.Context, listID int64) ([]*models.Item, error)
	GetItemByName(ctx context.Context, listID int64, name string) (*models.Item, error)
	DeleteItem(ctx context.Context, itemID int64) error
	DeleteItems(ctx context.Context, listID int64) error
}

// ContactRepository defines the interface for contact book operations
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	GetByName(ctx context.Context, userID int64, firstName, lastName string) (*models.Contact, error)
	GetByUser(ctx context.Context, userID int64) ([]*models.Contact, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

// Transactor runs fn inside one transaction. Repository calls made with the
// context passed to fn join that transaction; fn's error rolls it back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
