package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyclecoach/engine/internal/archetype"
	"github.com/cyclecoach/engine/internal/docstore"
)

// App holds the dependencies every subcommand needs. It is deliberately
// narrow: the CLI never touches the SQLite cross-athlete stores or the
// webhook intake — those belong to cyclecoachd. The CLI works directly
// against one athlete's document directory.
type App struct {
	Store      *docstore.Store
	Archetypes *archetype.Registry
}

// NewRootCmd builds the top-level "cyclecoach" command and registers its
// three subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	var athletesDir string

	root := &cobra.Command{
		Use:           "cyclecoach",
		Short:         "Operator CLI for generating and delivering training packages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				app.Store = docstore.New(athletesDir)
			}
			if app.Archetypes == nil {
				reg, err := archetype.BuildRegistry(archetype.BaseCategories(), archetype.ImportedCategories(), archetype.AdvancedCategories())
				if err != nil {
					return fmt.Errorf("building archetype registry: %w", err)
				}
				app.Archetypes = reg
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&athletesDir, "athletes-dir", "athletes", "root directory of per-athlete documents")

	root.AddCommand(
		newGeneratePackageCmd(app),
		newValidateDistributionCmd(app),
		newPreDeliveryChecklistCmd(app),
	)

	return root
}
