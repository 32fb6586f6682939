package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ShopWizard/internal/service"
	"github.com/Kerhoff/ShopWizard/internal/telegram"
)

// Register wires every command and callback handler into the router.
func Register(router *telegram.Router, svc *service.Service, ws WeatherService, logger *logrus.Logger) {
	router.RegisterCommand("start", NewStartHandler(logger))
	router.RegisterCommand("commands", NewHelpHandler(logger))

	// Shop lists
	createList := NewCreateListHandler(svc, logger)
	removeList := NewRemoveListHandler(svc, logger)
	editList := NewEditListHandler(svc, logger)
	addItem := NewAddItemHandler(svc, logger)
	showItems := NewShowItemsHandler(svc, logger)
	removeItem := NewRemoveItemHandler(svc, logger)

	router.RegisterCommand("create_list", createList)
	router.RegisterCommand("remove_list", removeList)
	router.RegisterCommand("edit_list", editList)
	router.RegisterCommand("add_item", addItem)
	router.RegisterCommand("show_items", showItems)
	router.RegisterCommand("remove_item", removeItem)

	router.RegisterCallback(telegram.CallbackCreateList, createList)
	router.RegisterCallback(telegram.CallbackRemoveList, removeList)
	router.RegisterCallback(telegram.CallbackEditList, editList)
	router.RegisterCallback(telegram.CallbackAddItem, addItem)
	router.RegisterCallback(telegram.CallbackShowItems, showItems)
	router.RegisterCallback(telegram.CallbackRemoveItem, removeItem)

	// Contact book
	router.RegisterCommand("add", NewAddContactHandler(svc, logger))
	router.RegisterCommand("delete", NewDeleteContactHandler(svc, logger))
	router.RegisterCommand("status", NewStatusHandler(svc, logger))
	router.RegisterCommand("list", NewListContactsHandler(svc, logger))
	router.RegisterCommand("show", NewShowContactHandler(svc, logger))

	// Weather
	router.RegisterCommand("weather", NewWeatherHandler(ws, logger))
	router.RegisterCallback(telegram.CallbackWeatherCity, NewWeatherCityHandler(ws, logger))
}
