package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	apperrors "github.com/Kerhoff/ShopWizard/internal/errors"
	"github.com/Kerhoff/ShopWizard/internal/service"
	"github.com/Kerhoff/ShopWizard/internal/telegram"
)

// Every shop list handler serves both the slash command and the callback
// button of the same name.

// ---------------------------------------------------------------------------
// CreateListHandler – /create_list <list_name>
// ---------------------------------------------------------------------------

// CreateListHandler handles /create_list and the create_list button.
type CreateListHandler struct {
	usage
	svc    *service.Service
	logger *logrus.Logger
}

// NewCreateListHandler creates a new CreateListHandler.
func NewCreateListHandler(svc *service.Service, logger *logrus.Logger) *CreateListHandler {
	return &CreateListHandler{usage: usage{1, usageListName}, svc: svc, logger: logger}
}

func (h *CreateListHandler) Handle(ctx context.Context, message *tgbotapi.Message, args []string) (*telegram.Reply, error) {
	return h.create(ctx, message.From.ID, args[0])
}

func (h *CreateListHandler) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, p telegram.CallbackPayload) (*telegram.Reply, error) {
	if p.ListName == "" {
		return nil, apperrors.BadInput(usageListName)
	}
	return h.create(ctx, query.From.ID, p.ListName)
}

func (h *CreateListHandler) create(ctx context.Context, userID int64, name string) (*telegram.Reply, error) {
	list, err := h.svc.ShopWizard.CreateList(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"list_id": list.ID,
	}).Info("Shop list created")

	return telegram.NewReply(`Shop list "%s" created successfully!`, name), nil
}

// ---------------------------------------------------------------------------
// RemoveListHandler – /remove_list <list_name>
// ---------------------------------------------------------------------------

// RemoveListHandler handles /remove_list and the remove_list button. The list
// is removed together with its items.
type RemoveListHandler struct {
	usage
	svc    *service.Service
	logger *logrus.Logger
}

// NewRemoveListHandler creates a new RemoveListHandler.
func NewRemoveListHandler(svc *service.Service, logger *logrus.Logger) *RemoveListHandler {
	return &RemoveListHandler{usage: usage{1, usageListName}, svc: svc, logger: logger}
}

func (h *RemoveListHandler) Handle(ctx context.Context, message *tgbotapi.Message, args []string) (*telegram.Reply, error) {
	return h.remove(ctx, message.From.ID, args[0])
}

func (h *RemoveListHandler) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, p telegram.CallbackPayload) (*telegram.Reply, error) {
	if p.ListName == "" {
		return nil, apperrors.BadInput(usageListName)
	}
	return h.remove(ctx, query.From.ID, p.ListName)
}

func (h *RemoveListHandler) remove(ctx context.Context, userID int64, name string) (*telegram.Reply, error) {
	if err := h.svc.ShopWizard.RemoveList(ctx, userID, name); err != nil {
		return nil, err
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"list_name": name,
	}).Info("Shop list removed")

	return telegram.NewReply(`Shop list "%s" and its items removed successfully!`, name), nil
}

// ---------------------------------------------------------------------------
// EditListHandler – /edit_list <old_list_name> <new_list_name>
// ---------------------------------------------------------------------------

// EditListHandler handles /edit_list and the edit_list button.
type EditListHandler struct {
	usage
	svc    *service.Service
	logger *logrus.Logger
}

// NewEditListHandler creates a new EditListHandler.
func NewEditListHandler(svc *service.Service, logger *logrus.Logger) *EditListHandler {
	return &EditListHandler{usage: usage{2, usageRenameList}, svc: svc, logger: logger}
}

func (h *EditListHandler) Handle(ctx context.Context, message *tgbotapi.Message, args []string) (*telegram.Reply, error) {
	return h.rename(ctx, message.From.ID, args[0], args[1])
}

func (h *EditListHandler) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, p telegram.CallbackPayload) (*telegram.Reply, error) {
	if p.OldListName == "" || p.NewListName == "" {
		return nil, apperrors.BadInput(usageRenameList)
	}
	return h.rename(ctx, query.From.ID, p.OldListName, p.NewListName)
}

func (h *EditListHandler) rename(ctx context.Context, userID int64, oldName, newName string) (*telegram.Reply, error) {
	if err := h.svc.ShopWizard.RenameList(ctx, userID, oldName, newName); err != nil {
		return nil, err
	}
	return telegram.NewReply(`Shop list "%s" renamed to "%s" successfully!`, oldName, newName), nil
}

// ---------------------------------------------------------------------------
// AddItemHandler – /add_item <list_name> <item...>
// ---------------------------------------------------------------------------

// AddItemHandler handles /add_item and the add_item button.
type AddItemHandler struct {
	usage
	svc    *service.Service
	logger *logrus.Logger
}

// NewAddItemHandler creates a new AddItemHandler.
func NewAddItemHandler(svc *service.Service, logger *logrus.Logger) *AddItemHandler {
	return &AddItemHandler{usage: usage{2, usageListAndItem}, svc: svc, logger: logger}
}

// Handle joins every argument after the list name into the item name.
func (h *AddItemHandler) Handle(ctx context.Context, message *tgbotapi.Message, args []string) (*telegram.Reply, error) {
	return h.add(ctx, message.From.ID, args[0], strings.Join(args[1:], " "))
}

func (h *AddItemHandler) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, p telegram.CallbackPayload) (*telegram.Reply, error) {
	if p.ListName == "" || p.Item == "" {
		return nil, apperrors.BadInput(usageListAndItem)
	}
	return h.add(ctx, query.From.ID, p.ListName, p.Item)
}

func (h *AddItemHandler) add(ctx context.Context, userID int64, listName, item string) (*telegram.Reply, error) {
	if _, err := h.svc.ShopWizard.AddItem(ctx, userID, listName, item); err != nil {
		return nil, err
	}
	return telegram.NewReply(`Item "%s" added to list "%s" successfully!`, item, listName), nil
}

// ---------------------------------------------------------------------------
// ShowItemsHandler – /show_items <list_name>
// ---------------------------------------------------------------------------

// ShowItemsHandler handles /show_items and the show_items button. Each item
// that fits in callback data gets a remove button.
type ShowItemsHandler struct {
	usage
	svc    *service.Service
	logger *logrus.Logger
}

// NewShowItemsHandler creates a new ShowItemsHandler.
func NewShowItemsHandler(svc *service.Service, logger *logrus.Logger) *ShowItemsHandler {
	return &ShowItemsHandler{usage: usage{1, usageListName}, svc: svc, logger: logger}
}

func (h *ShowItemsHandler) Handle(ctx context.Context, message *tgbotapi.Message, args []string) (*telegram.Reply, error) {
	return h.show(ctx, message.From.ID, args[0])
}

func (h *ShowItemsHandler) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, p telegram.CallbackPayload) (*telegram.Reply, error) {
	if p.ListName == "" {
		return nil, apperrors.BadInput(usageListName)
	}
	return h.show(ctx, query.From.ID, p.ListName)
}

func (h *ShowItemsHandler) show(ctx context.Context, userID int64, listName string) (*telegram.Reply, error) {
	items, err := h.svc.ShopWizard.ListItems(ctx, userID, listName)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return telegram.NewReply(`List "%s" is empty.`, listName), nil
	}

	reply := telegram.NewReply("Items in list \"%s\":\n- %s", listName, strings.Join(items, "\n- "))

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items {
		data, err := telegram.RemoveItemPayload(listName, item).Encode()
		if err != nil {
			// Item or list name too long for a button; the item is still listed.
			h.logger.WithError(err).WithField("item", item).Debug("Skipping remove button")
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Remove %s", item), data),
		))
	}
	if len(rows) > 0 {
		markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
		reply.Markup = &markup
	}
	return reply, nil
}

// ---------------------------------------------------------------------------
// RemoveItemHandler – /remove_item <list_name> <item...>
// ---------------------------------------------------------------------------

// RemoveItemHandler handles /remove_item and the remove_item button.
type RemoveItemHandler struct {
	usage
	svc    *service.Service
	logger *logrus.Logger
}

// NewRemoveItemHandler creates a new RemoveItemHandler.
func NewRemoveItemHandler(svc *service.Service, logger *logrus.Logger) *RemoveItemHandler {
	return &RemoveItemHandler{usage: usage{2, usageListAndItem}, svc: svc, logger: logger}
}

func (h *RemoveItemHandler) Handle(ctx context.Context, message *tgbotapi.Message, args []string) (*telegram.Reply, error) {
	return h.remove(ctx, message.From.ID, args[0], strings.Join(args[1:], " "))
}

func (h *RemoveItemHandler) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, p telegram.CallbackPayload) (*telegram.Reply, error) {
	if p.ListName == "" || p.Item == "" {
		return nil, apperrors.BadInput(usageListAndItem)
	}
	return h.remove(ctx, query.From.ID, p.ListName, p.Item)
}

func (h *RemoveItemHandler) remove(ctx context.Context, userID int64, listName, item string) (*telegram.Reply, error) {
	if err := h.svc.ShopWizard.RemoveItem(ctx, userID, listName, item); err != nil {
		return nil, err
	}
	return telegram.NewReply(`Item "%s" removed from list "%s" successfully!`, item, listName), nil
}
