package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/region"
	"github.com/matzehuels/stacklayout/pkg/units"
)

// regionFlags holds the raw placement strings of the region command.
type regionFlags struct {
	parent string
	bounds string
	rect   string
	corner string
	grid   string
	gutter string
	json   bool
}

// regionCommand creates the region command for resolving placements.
func (c *CLI) regionCommand() *cobra.Command {
	var f regionFlags

	cmd := &cobra.Command{
		Use:   "region",
		Short: "Resolve a rectangle inside a parent frame",
		Long: `Resolve a rectangle inside a parent frame.

Exactly one placement is honoured, in the order --bounds, --rect, --corner,
--grid. Without any placement the parent is shrunk by the gutter (40px).

Dimensions accept px, pt, in, cm, mm and % suffixes; percentages are taken
of the matching parent side. Negative offsets count from the far edge.

Examples:
  stacklayout region --parent 0,800,0,600 --bounds 10,-10,10%,-10%
  stacklayout region --parent 0,800,0,600 --rect 0,0,50%,50%
  stacklayout region --parent 0,800,0,600 --corner top-right:10:30%:40px
  stacklayout region --parent 0,800,0,600 --grid 2x3:1,2 --gutter 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, spec, err := parseRegionFlags(f)
			if err != nil {
				return err
			}
			r, err := region.Resolve(parent, spec)
			if err != nil {
				return err
			}
			return c.printRect(r, f.json)
		},
	}

	cmd.Flags().StringVar(&f.parent, "parent", "", "parent rectangle xmin,xmax,ymin,ymax in pixels")
	cmd.Flags().StringVar(&f.bounds, "bounds", "", "x1,x2,y1,y2 offsets")
	cmd.Flags().StringVar(&f.rect, "rect", "", "x,y,width,height")
	cmd.Flags().StringVar(&f.corner, "corner", "", "position:inset:width:height")
	cmd.Flags().StringVar(&f.grid, "grid", "", "MxN:n, MxN:i,j or MxN:i,rowspan,j,colspan")
	cmd.Flags().StringVar(&f.gutter, "gutter", "", "padding for grid cells and the default placement")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the rectangle as JSON")
	_ = cmd.MarkFlagRequired("parent")
	cmd.MarkFlagsMutuallyExclusive("bounds", "rect", "corner", "grid")

	return cmd
}

// parseRegionFlags turns the flag strings into a parent and a placement.
func parseRegionFlags(f regionFlags) (region.Rect, region.Spec, error) {
	var spec region.Spec
	parent, err := region.ParseRect(f.parent)
	if err != nil {
		return region.Rect{}, spec, errors.Wrap(errors.ErrCodeInvalidRegion, err, "--parent")
	}

	switch {
	case f.bounds != "":
		spec.Bounds, err = region.ParseLengths(f.bounds)
	case f.rect != "":
		spec.Rect, err = region.ParseLengths(f.rect)
	case f.corner != "":
		spec.Corner, err = region.ParseCorner(f.corner)
	case f.grid != "":
		spec.Grid, err = region.ParseGrid(f.grid)
	}
	if err != nil {
		return region.Rect{}, spec, err
	}

	if f.gutter != "" {
		g, err := units.Parse(f.gutter)
		if err != nil {
			return region.Rect{}, spec, err
		}
		spec.Gutter = &g
	}
	return parent, spec, nil
}

// rectJSON is the --json form of a resolved rectangle.
type rectJSON struct {
	XMin   float64 `json:"xmin"`
	XMax   float64 `json:"xmax"`
	YMin   float64 `json:"ymin"`
	YMax   float64 `json:"ymax"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (c *CLI) printRect(r region.Rect, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(rectJSON{
			XMin: r.XMin, XMax: r.XMax, YMin: r.YMin, YMax: r.YMax,
			Width: r.Width(), Height: r.Height(),
		})
	}
	printNumber(c.Out, "xmin", r.XMin)
	printNumber(c.Out, "xmax", r.XMax)
	printNumber(c.Out, "ymin", r.YMin)
	printNumber(c.Out, "ymax", r.YMax)
	printNumber(c.Out, "width", r.Width())
	printNumber(c.Out, "height", r.Height())
	return nil
}
