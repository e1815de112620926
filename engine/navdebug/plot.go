package navdebug

import (
	"image/color"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/navgrid"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	nodeColour     = color.RGBA{R: 170, G: 170, B: 170, A: 255}
	obstacleColour = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	pathColour     = color.RGBA{R: 240, G: 170, B: 0, A: 255}
)

// NewPlot draws the grid from above: world X to the right, world Z upwards.
func NewPlot(title string, graph navgrid.GridGraph, waypoints []mgl32.Vec3) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Z"

	toXYs := func(nodes []navgrid.Node) plotter.XYs {
		points := make(plotter.XYs, 0, len(nodes))
		for _, n := range nodes {
			t := graph.Translation(n)
			points = append(points, plotter.XY{X: float64(t.X()), Y: float64(t.Z())})
		}
		return points
	}

	if nodes := sortedNodes(graph.Nodes); len(nodes) > 0 {
		scatter, err := plotter.NewScatter(toXYs(nodes))
		if err != nil {
			return nil, errors.Wrap(err, "plot nodes")
		}
		scatter.GlyphStyle.Color = nodeColour
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(scatter)
		p.Legend.Add("node", scatter)
	}

	if obstacles := sortedNodes(graph.Obstacles); len(obstacles) > 0 {
		scatter, err := plotter.NewScatter(toXYs(obstacles))
		if err != nil {
			return nil, errors.Wrap(err, "plot obstacles")
		}
		scatter.GlyphStyle.Color = obstacleColour
		scatter.GlyphStyle.Shape = draw.BoxGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add("obstacle", scatter)
	}

	if len(waypoints) > 1 {
		points := make(plotter.XYs, 0, len(waypoints))
		for _, w := range waypoints {
			points = append(points, plotter.XY{X: float64(w.X()), Y: float64(w.Z())})
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, errors.Wrap(err, "plot path")
		}
		line.Color = pathColour
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("path", line)
	}

	p.Legend.Top = true
	return p, nil
}

func plotSize(graph navgrid.GridGraph) (vg.Length, vg.Length) {
	width := 6 * vg.Inch
	height := width
	if graph.Context.CellCountX > 0 {
		height = width * vg.Length(graph.Context.CellCountZ) / vg.Length(graph.Context.CellCountX)
	}
	return width, max(height, 2*vg.Inch)
}

// WritePlotPNG renders the plot as PNG.
func WritePlotPNG(w io.Writer, graph navgrid.GridGraph, waypoints []mgl32.Vec3) error {
	p, err := NewPlot("navigation grid", graph, waypoints)
	if err != nil {
		return err
	}
	width, height := plotSize(graph)
	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return errors.Wrap(err, "render plot")
	}
	_, err = writer.WriteTo(w)
	return errors.Wrap(err, "write plot")
}

// SavePlot picks the image format from the file extension (png, svg, pdf, ...).
func SavePlot(filename string, graph navgrid.GridGraph, waypoints []mgl32.Vec3) error {
	p, err := NewPlot(filename, graph, waypoints)
	if err != nil {
		return err
	}
	width, height := plotSize(graph)
	return errors.Wrapf(p.Save(width, height, filename), "save %s", filename)
}
