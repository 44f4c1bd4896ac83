package inspect

import (
	"github.com/spf13/cobra"
)

// InspectCmd is the parent command for inspection operations.
var InspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Run site inspections",
	Long:  `Start, resume, fill in and submit site inspections against a template.`,
}
