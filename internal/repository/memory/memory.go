// Package memory implements the repository interfaces in process memory.
// It backs the service, dispatcher and webhook tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Kerhoff/ShopWizard/internal/models"
	"github.com/Kerhoff/ShopWizard/internal/repository"
)

// Store holds every table. Its zero value is not usable; call New.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]models.User
	lists    map[int64]models.ShopList
	items    map[int64]models.Item
	contacts map[int64]models.Contact

	failOp  string
	failErr error
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:    make(map[int64]models.User),
		lists:    make(map[int64]models.ShopList),
		items:    make(map[int64]models.Item),
		contacts: make(map[int64]models.Contact),
	}
}

func (s *Store) Users() repository.UserRepository        { return (*userRepo)(s) }
func (s *Store) ShopLists() repository.ShopListRepository { return (*shopListRepo)(s) }
func (s *Store) Contacts() repository.ContactRepository   { return (*contactRepo)(s) }
func (s *Store) Transactor() repository.Transactor        { return (*transactor)(s) }

// ItemCount returns the number of stored items across all lists.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// FailOn makes the next call of the named mutation (e.g. "DeleteList")
// return err instead of applying.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOp, s.failErr = op, err
}

func (s *Store) takeFailure(op string) error {
	if s.failOp != op {
		return nil
	}
	err := s.failErr
	s.failOp, s.failErr = "", nil
	return err
}

// sortedIDs returns map keys in ascending order, which is insertion order.
func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type transactor Store

// WithinTx restores a snapshot of the store when fn fails.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s := (*Store)(t)

	s.mu.Lock()
	snapshot := struct {
		lists    map[int64]models.ShopList
		items    map[int64]models.Item
		contacts map[int64]models.Contact
	}{clone(s.lists), clone(s.items), clone(s.contacts)}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.lists, s.items, s.contacts = snapshot.lists, snapshot.items, snapshot.contacts
		s.mu.Unlock()
		return err
	}
	return nil
}

func clone[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type userRepo Store

func (r *userRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure("CreateUser"); err != nil {
		return nil, err
	}
	if _, ok := s.users[user.ID]; ok {
		return nil, fmt.Errorf("user %d: %w", user.ID, repository.ErrDuplicate)
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return user, nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *userRepo) Update(_ context.Context, user *models.User) (*models.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure("UpdateUser"); err != nil {
		return nil, err
	}
	if _, ok := s.users[user.ID]; !ok {
		return nil, fmt.Errorf("user with ID %d not found", user.ID)
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return user, nil
}

type shopListRepo Store

func (r *shopListRepo) CreateList(_ context.Context, list *models.ShopList) (*models.ShopList, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure("CreateList"); err != nil {
		return nil, err
	}
	if repository.TooLong(list.Name, repository.MaxNameLength) {
		return nil, fmt.Errorf("shop list name: %w", repository.ErrValueTooLong)
	}
	list.ID = s.id()
	list.CreatedAt = time.Now()
	list.UpdatedAt = list.CreatedAt
	s.lists[list.ID] = *list
	return list, nil
}

func (r *shopListRepo) GetListByName(_ context.Context, userID int64, name string) (*models.ShopList, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range sortedIDs(s.lists) {
		if l := s.lists[id]; l.UserID == userID && l.Name == name {
			return &l, nil
		}
	}
	return nil, nil
}

func (r *shopListRepo) GetListsByUser(_ context.Context, userID int64) ([]*models.ShopList, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	var lists []*models.ShopList
	for _, id := range sortedIDs(s.lists) {
		if l := s.lists[id]; l.UserID == userID {
			lists = append(lists, &l)
		}
	}
	return lists, nil
}

func (r *shopListRepo) RenameList(_ context.Context, listID int64, name string) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure("RenameList"); err != nil {
		return err
	}
	if repository.TooLong(name, repository.MaxNameLength) {
		return fmt.Errorf("shop list name: %w", repository.ErrValueTooLong)
	}
	l, ok := s.lists[listID]
	if !ok {
		return fmt.Errorf("shop list with ID %d not found", listID)
	}
	l.Name = name
	l.UpdatedAt = time.Now()
	s.lists[listID] = l
	return nil
}

func (r *shopListRepo) DeleteList(_ context.Context, listID int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure("DeleteList"); err != nil {
		return err
	}
	if _, ok := s.lists[listID]; !ok {
		return fmt.Errorf("shop list with ID %d not found", listID)
	}
	delete(s.lists, listID)
	return nil
}

func (r *shopListRepo) AddItem(_ context.Context, item *models.Item) (*models.Item, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure("AddItem"); err != nil {
		return nil, err
	}
	if repository.TooLong(item.Name, repository.MaxNameLength) {
		return nil, fmt.Errorf("item name: %w", repository.ErrValueTooLong)
	}
	item.ID = s.id()
	item.CreatedAt = time.Now()
	s.items[item.ID] = *item
	return item, nil
}

func (r *shopListRepo) GetItems(_ context.Context, listID int64) ([]*models.Item, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*models.Item
	for _, id := range sortedIDs(s.items) {
		if it := s.items[id]; it.ListID == listID {
			items = append(items, &it)
		}
	}
	return items, nil
}

func (r *shopListRepo) GetItemByName(_ context.Context, listID int64, name string) (*models.Item, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range sortedIDs(s.items) {
		if it := s.items[id]; it.ListID == listID && it.Name == name {
			return &it, nil
		}
	}
	return nil, nil
}

func (r *shopListRepo) DeleteItem(_ context.Context, itemID int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure("DeleteItem"); err != nil {
		return err
	}
	if _, ok := s.items[itemID]; !ok {
		return fmt.Errorf("item with ID %d not found", itemID)
	}
	delete(s.items, itemID)
	return nil
}

func (r *shopListRepo) DeleteItems(_ context.Context, listID int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure("DeleteItems"); err != nil {
		return err
	}
	for id, it := range s.items {
		if it.ListID == listID {
			delete(s.items, id)
		}
	}
	return nil
}

type contactRepo Store

func (r *contactRepo) Create(_ context.Context, contact *models.Contact) (*models.Contact, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure("CreateContact"); err != nil {
		return nil, err
	}
	if repository.TooLong(contact.FirstName, repository.MaxNameLength) ||
		repository.TooLong(contact.LastName, repository.MaxNameLength) ||
		repository.TooLong(contact.PhoneNumber, repository.MaxPhoneLength) {
		return nil, fmt.Errorf("contact %s: %w", contact.FullName(), repository.ErrValueTooLong)
	}
	for _, c := range s.contacts {
		if c.UserID == contact.UserID && c.FirstName == contact.FirstName && c.LastName == contact.LastName {
			return nil, fmt.Errorf("contact %s: %w", contact.FullName(), repository.ErrDuplicate)
		}
	}
	contact.ID = s.id()
	contact.CreatedAt = time.Now()
	s.contacts[contact.ID] = *contact
	return contact, nil
}

func (r *contactRepo) GetByName(_ context.Context, userID int64, firstName, lastName string) (*models.Contact, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.contacts {
		if c.UserID == userID && c.FirstName == firstName && c.LastName == lastName {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *contactRepo) GetByUser(_ context.Context, userID int64) ([]*models.Contact, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	var contacts []*models.Contact
	for _, id := range sortedIDs(s.contacts) {
		if c := s.contacts[id]; c.UserID == userID {
			contacts = append(contacts, &c)
		}
	}
	return contacts, nil
}

func (r *contactRepo) CountByUser(_ context.Context, userID int64) (int, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, c := range s.contacts {
		if c.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *contactRepo) Delete(_ context.Context, id int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure("DeleteContact"); err != nil {
		return err
	}
	if _, ok := s.contacts[id]; !ok {
		return fmt.Errorf("contact with ID %d not found", id)
	}
	delete(s.contacts, id)
	return nil
}
