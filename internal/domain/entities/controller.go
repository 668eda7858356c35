package entities

import "github.com/spf13/cobra"

// ControllerBind holds the Cobra command metadata a controller is bound to.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
}

// Controller is a CLI entry point backed by a domain command.
type Controller interface {
	GetBind() ControllerBind
	Execute(cmd *cobra.Command, args []string) error
}
