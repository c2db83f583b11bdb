package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/metadata"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var images bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report structural problems in the metadata document",
		Long: `Report structural problems in the metadata document: duplicate revision
versions, empty region revision lists, transforms without a reference image
and dangling parents. With --images, every referenced image is also read
from the asset directory.

Problems are warnings; the viewer loads the document regardless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			issues := metadata.Check(e.meta)
			for _, issue := range issues {
				printWarning("%s", issue)
			}

			missing := 0
			if images {
				names := e.meta.Images()
				spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Reading %d images", len(names)))
				spinner.Start()
				prog := newProgress(c.Logger)
				failed, err := e.prober.Warm(cmd.Context(), names, e.cfg.Assets.ProbeConcurrency)
				if err != nil {
					spinner.StopWithError("Image check interrupted")
					return err
				}
				spinner.StopWithSuccess(fmt.Sprintf("%d images checked", len(names)))
				prog.measured(len(names), len(failed))
				for _, name := range failed {
					printWarning("image %s cannot be read from %s", name, e.cfg.Assets.Dir)
				}
				missing = len(failed)
			}

			if n := len(issues) + missing; n > 0 {
				return fmt.Errorf("%d problems found", n)
			}
			printSuccess("No problems found in %d drawings", e.meta.Drawings.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&images, "images", false, "also verify that every referenced image can be read")
	return cmd
}
