package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Kerhoff/ShopWizard/internal/errors"
	"github.com/Kerhoff/ShopWizard/internal/models"
	"github.com/Kerhoff/ShopWizard/internal/repository"
)

// ShopWizardService manages a user's shop lists and their items.
//
// List names are not unique per user: CreateList accepts duplicates and every
// name lookup resolves to the oldest matching list.
type ShopWizardService struct {
	tx       repository.Transactor
	users    repository.UserRepository
	lists    repository.ShopListRepository
	validate *validator.Validate
}

// Shop list lookups that miss. show_items words it with a trailing period.
const (
	listNotFound      = `Shop list "%s" not found. Please try other name`
	listItemsNotFound = `Shop list "%s" not found. Please try other name.`
)

func (s *ShopWizardService) CreateList(ctx context.Context, userID int64, name string) (*models.ShopList, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	if err := checkLength(s.validate, "List name", name, repository.MaxNameLength); err != nil {
		return nil, err
	}

	list, err := s.lists.CreateList(ctx, &models.ShopList{UserID: userID, Name: name})
	if err != nil {
		return nil, storeErr("create shop list", err)
	}
	return list, nil
}

// RemoveList deletes the list and all of its items in one transaction.
func (s *ShopWizardService) RemoveList(ctx context.Context, userID int64, name string) error {
	list, err := s.requireList(ctx, userID, name)
	if err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.lists.DeleteItems(ctx, list.ID); err != nil {
			return fmt.Errorf("remove items of shop list: %w", err)
		}
		if err := s.lists.DeleteList(ctx, list.ID); err != nil {
			return fmt.Errorf("remove shop list: %w", err)
		}
		return nil
	})
}

func (s *ShopWizardService) RenameList(ctx context.Context, userID int64, oldName, newName string) error {
	list, err := s.requireList(ctx, userID, oldName)
	if err != nil {
		return err
	}
	if err := checkLength(s.validate, "List name", newName, repository.MaxNameLength); err != nil {
		return err
	}

	if err := s.lists.RenameList(ctx, list.ID, newName); err != nil {
		return storeErr("rename shop list", err)
	}
	return nil
}

func (s *ShopWizardService) AddItem(ctx context.Context, userID int64, listName, itemName string) (*models.Item, error) {
	list, err := s.requireList(ctx, userID, listName)
	if err != nil {
		return nil, err
	}
	if err := checkLength(s.validate, "Item name", itemName, repository.MaxNameLength); err != nil {
		return nil, err
	}

	item, err := s.lists.AddItem(ctx, &models.Item{ListID: list.ID, Name: itemName})
	if err != nil {
		return nil, storeErr("add item", err)
	}
	return item, nil
}

// ListItems returns the item names of a list in insertion order. An empty
// list yields an empty slice, not an error.
func (s *ShopWizardService) ListItems(ctx context.Context, userID int64, listName string) ([]string, error) {
	list, err := s.findList(ctx, userID, listName)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperrors.NotFound("shop list", listItemsNotFound, listName)
	}

	items, err := s.lists.GetItems(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names, nil
}

func (s *ShopWizardService) RemoveItem(ctx context.Context, userID int64, listName, itemName string) error {
	list, err := s.requireList(ctx, userID, listName)
	if err != nil {
		return err
	}

	item, err := s.lists.GetItemByName(ctx, list.ID, itemName)
	if err != nil {
		return fmt.Errorf("lookup item: %w", err)
	}
	if item == nil {
		return apperrors.NotFound("item", `Item "%s" not found in the list "%s". Please try other name`, itemName, listName)
	}

	if err := s.lists.DeleteItem(ctx, item.ID); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	return nil
}

// Lists returns every list of the user, oldest first.
func (s *ShopWizardService) Lists(ctx context.Context, userID int64) ([]*models.ShopList, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	lists, err := s.lists.GetListsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get shop lists: %w", err)
	}
	return lists, nil
}

func (s *ShopWizardService) requireList(ctx context.Context, userID int64, name string) (*models.ShopList, error) {
	list, err := s.findList(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperrors.NotFound("shop list", listNotFound, name)
	}
	return list, nil
}

// findList loads the owner, then the oldest list called name; (nil, nil) when
// there is none.
func (s *ShopWizardService) findList(ctx context.Context, userID int64, name string) (*models.ShopList, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	list, err := s.lists.GetListByName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("lookup shop list: %w", err)
	}
	return list, nil
}
