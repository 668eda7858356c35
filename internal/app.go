package internal

import (
	"github.com/rios0rios0/pubcheck/internal/domain/entities"
	"github.com/rios0rios0/pubcheck/internal/infrastructure/controllers"
)

// AppInternal holds everything the CLI layer needs from the container.
type AppInternal struct {
	controllers     *[]entities.Controller
	checkController *controllers.CheckController
}

// NewAppInternal creates the AppInternal from the registered controllers.
func NewAppInternal(
	allControllers *[]entities.Controller,
	checkController *controllers.CheckController,
) *AppInternal {
	return &AppInternal{
		controllers:     allControllers,
		checkController: checkController,
	}
}

// GetControllers returns every controller exposed as a subcommand.
func (it *AppInternal) GetControllers() []entities.Controller {
	return *it.controllers
}

// GetCheckController returns the controller bound to the root command.
func (it *AppInternal) GetCheckController() *controllers.CheckController {
	return it.checkController
}
