package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/hierarchy"
)

type treeOpts struct {
	output   string
	detailed bool
	dotOnly  bool
}

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Draw the drawing hierarchy with Graphviz",
		Example: `  blueprint tree -o drawings.svg
  blueprint tree --detailed --dot | dot -Tpng > drawings.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			dot := hierarchy.ToDOT(e.meta, hierarchy.Options{Detailed: opts.detailed})
			if opts.dotOnly {
				_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
				return err
			}

			prog := newProgress(c.Logger)
			svg, err := hierarchy.RenderSVG(dot)
			if err != nil {
				return err
			}
			prog.done("Rendered drawing tree")

			if opts.output == "" || opts.output == "-" {
				_, err := cmd.OutOrStdout().Write(svg)
				return err
			}
			if err := os.WriteFile(opts.output, svg, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output SVG file (default stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include disciplines, regions and revision counts")
	cmd.Flags().BoolVar(&opts.dotOnly, "dot", false, "print DOT source instead of rendering")

	return cmd
}
