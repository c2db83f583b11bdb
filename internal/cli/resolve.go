package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/viewer"
)

type resolveOpts struct {
	sel     selectionFlags
	jsonOut bool
	svgPath string
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a selection to its image, polygon and overlay",
		Long: `Resolve a selection the way the viewer does and print the result.

Unset or invalid selections are repaired: the first drawing, discipline and
region, and the latest revision are picked.`,
		Example: `  blueprint resolve
  blueprint resolve -d 01 --discipline structure --region north
  blueprint resolve -d 01 --with structure --dx 4 --rotate 0.5 --json
  blueprint resolve -d 01 --svg polygon.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.Close()

			v := viewer.New(e.meta, e.viewerOptions())
			if err := v.Apply(opts.sel.update(cmd)); err != nil {
				return err
			}

			if opts.svgPath != "" {
				if err := os.WriteFile(opts.svgPath, v.PolygonSVG(), 0o644); err != nil {
					return fmt.Errorf("write svg: %w", err)
				}
				printFile(opts.svgPath)
			}

			view := v.View()
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			printView(view)
			return nil
		},
	}

	opts.sel.register(cmd)
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the view as JSON")
	cmd.Flags().StringVar(&opts.svgPath, "svg", "", "write the polygon layer to this SVG file")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printView prints a human readable summary of a view.
func printView(v viewer.View) {
	fmt.Println(StyleTitle.Render(v.Project))
	fmt.Println(StyleDim.Render(strings.Join(v.Breadcrumb, " "+iconArrow+" ")))
	printNewline()

	if v.Details != nil {
		printKeyValue("Revision", v.Details.Version+" "+StyleDim.Render(v.Details.Date))
		if v.Details.Description != "" {
			printKeyValue("", v.Details.Description)
		}
		printKeyValue("Changes", v.Details.Summary)
	}

	if v.Image == nil {
		printWarning("%s", v.Message)
		return
	}
	size := v.Image.Size.String()
	if !v.Image.Known {
		size += StyleDim.Render(" (placeholder)")
	}
	printKeyValue("Image", v.Image.Name)
	printKeyValue("URL", StyleLink.Render(v.Image.URL))
	printKeyValue("Size", size)

	if v.Polygon != nil {
		printKeyValue("Polygon", v.Polygon.Points)
		if v.Polygon.Transform != "" {
			printKeyValue("Transform", v.Polygon.Transform)
		}
	}

	if v.Compare == nil {
		return
	}
	printNewline()
	fmt.Println(StyleTitle.Render("Compare") + " " + StyleDim.Render(string(v.Compare.Mode)))
	if v.Compare.Image != nil {
		printKeyValue("Overlay", v.Compare.Image.Name)
	}
	if !v.Compare.Style.Aligned() {
		printWarning("overlay is not aligned to %s; showing opacity only", v.Image.Name)
	}
	for _, decl := range strings.Split(strings.TrimSpace(v.Compare.CSS), ";") {
		if decl = strings.TrimSpace(decl); decl != "" {
			printDetail("%s;", decl)
		}
	}
	if v.Compare.Polygon != nil {
		printKeyValue("Polygon", v.Compare.Polygon.Points)
	}
}
