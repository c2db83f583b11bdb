package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/geometry"
	"github.com/matzehuels/blueprint/pkg/overlay"
	"github.com/matzehuels/blueprint/pkg/viewer"
)

type calibrateOpts struct {
	sel       selectionFlags
	pairs     []string
	pairsFile string
	jsonOut   bool
}

type calibrateResult struct {
	Solution overlay.Solution `json:"solution"`
	CSS      string           `json:"css"`
}

// calibrateCommand creates the calibrate command.
func (c *CLI) calibrateCommand() *cobra.Command {
	var opts calibrateOpts

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Fit a manual calibration from control points",
		Long: `Fit the manual calibration that best aligns the compared drawing with the
base drawing.

Each control point is the same feature located on both images, given as
"overlayX,overlayY:baseX,baseY" in image pixels. At least two points are
needed; more points are fitted by least squares and the residual reports the
remaining error in base pixels.`,
		Example: `  blueprint calibrate -d 01 --with structure \
      --pair 120,80:125,77 --pair 3900,2800:3906,2795
  blueprint calibrate -d 01 --with structure --pairs points.json --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := readPairs(opts.pairs, opts.pairsFile)
			if err != nil {
				return err
			}

			e, err := c.loadEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			v := viewer.New(e.meta, e.viewerOptions())
			if err := v.Apply(opts.sel.update(cmd)); err != nil {
				return err
			}
			v.SetCompare(true)

			r := v.Resolved()
			sol, err := overlay.SolveCalibration(r.OverlayTransform, r.Image, e.cfg.Anchor, pairs)
			if err != nil {
				return err
			}
			if err := v.SetCalibration(sol.Calibration); err != nil {
				return err
			}

			result := calibrateResult{Solution: sol}
			if compare := v.View().Compare; compare != nil {
				result.CSS = compare.CSS
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			printCalibration(r.OverlayImage, r.Image, result)
			return nil
		},
	}

	opts.sel.register(cmd)
	cmd.Flags().StringArrayVar(&opts.pairs, "pair", nil, `control point "ox,oy:bx,by" (repeatable)`)
	cmd.Flags().StringVar(&opts.pairsFile, "pairs", "", "JSON file with control points")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")

	return cmd
}

// readPairs collects control points from flags and an optional JSON file
// holding [{"overlay":{"x":..,"y":..},"base":{"x":..,"y":..}}, ...].
func readPairs(flags []string, file string) ([]overlay.PointPair, error) {
	var pairs []overlay.PointPair
	if file != "" {
		if err := apperrors.ValidatePath(file); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read pairs: %w", err)
		}
		if err := json.Unmarshal(data, &pairs); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse %s", file)
		}
	}
	for _, s := range flags {
		p, err := parsePair(s)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func parsePair(s string) (overlay.PointPair, error) {
	src, dst, ok := strings.Cut(s, ":")
	if !ok {
		return overlay.PointPair{}, apperrors.New(apperrors.ErrCodeInvalidInput, "control point %q: want ox,oy:bx,by", s)
	}
	o, err := parsePoint(src)
	if err != nil {
		return overlay.PointPair{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "control point %q", s)
	}
	b, err := parsePoint(dst)
	if err != nil {
		return overlay.PointPair{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "control point %q", s)
	}
	return overlay.PointPair{Overlay: o, Base: b}, nil
}

func parsePoint(s string) (geometry.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geometry.Point{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geometry.Point{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Point{X: x, Y: y}, nil
}

func printCalibration(overlayImage, base string, r calibrateResult) {
	cal := r.Solution.Calibration
	printSuccess("Calibrated %s onto %s", StyleHighlight.Render(overlayImage), StyleHighlight.Render(base))
	printKeyValue("Offset", fmt.Sprintf("%s, %s px", geometry.FormatNumber(cal.DX), geometry.FormatNumber(cal.DY)))
	printKeyValue("Rotation", geometry.FormatNumber(cal.RotationDeg)+"°")
	printKeyValue("Scale", geometry.FormatNumber(cal.Scale))
	printKeyValue("Residual", StyleNumber.Render(fmt.Sprintf("%.3f px", r.Solution.Residual)))
	if r.CSS != "" {
		printDetail("%s", r.CSS)
	}
	printNewline()
	printNextStep("Apply with", fmt.Sprintf("blueprint resolve --dx %s --dy %s --rotate %s --scale %s",
		geometry.FormatNumber(cal.DX), geometry.FormatNumber(cal.DY),
		geometry.FormatNumber(cal.RotationDeg), geometry.FormatNumber(cal.Scale)))
}
