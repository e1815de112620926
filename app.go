package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/navdebug"
	"github.com/memmaker/tilenav/engine/util"
	"github.com/memmaker/tilenav/game"
	"github.com/pkg/errors"
)

type options struct {
	levelPath  string
	from, to   mgl32.Vec3
	hasQuery   bool
	radius     float64
	search     string
	useMap     bool
	ascii      bool
	colour     bool
	gltfPath   string
	plotPath   string
	bakePath   string
	rangeLimit float64
	watch      bool
	verbose    bool
}

// parsePoint reads "x,z" in world units.
func parsePoint(s string) (mgl32.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return mgl32.Vec3{}, fmt.Errorf("invalid point '%s': expected x,z", s)
	}
	var coords [2]float32
	for i, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("invalid coordinate '%s': %w", p, err)
		}
		coords[i] = float32(v)
	}
	return mgl32.Vec3{coords[0], 0, coords[1]}, nil
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var opts options
	var from, to string
	fs := flag.NewFlagSet("tilenav", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.levelPath, "level", "", "level YAML file")
	fs.StringVar(&from, "from", "", "start position x,z")
	fs.StringVar(&to, "to", "", "end position x,z")
	fs.Float64Var(&opts.radius, "radius", -1, "agent radius, negative uses the level's")
	fs.StringVar(&opts.search, "search", "", "search method: astar, theta or dijkstra")
	fs.BoolVar(&opts.useMap, "map", false, "plan on the map graph instead of the subdivided grid")
	fs.BoolVar(&opts.ascii, "ascii", false, "print the grid with the path")
	fs.StringVar(&opts.gltfPath, "gltf", "", "write the grid and path as .gltf or .glb")
	fs.StringVar(&opts.plotPath, "plot", "", "write the grid and path as an image (png, svg, pdf)")
	fs.StringVar(&opts.bakePath, "bake", "", "write the navigation grid to a bake file")
	fs.Float64Var(&opts.rangeLimit, "range", 0, "list the cells reachable from -from within this cost")
	fs.BoolVar(&opts.watch, "watch", false, "re-run the query whenever the map image changes")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.levelPath == "" {
		return options{}, fmt.Errorf("-level is required")
	}
	if from != "" {
		p, err := parsePoint(from)
		if err != nil {
			return options{}, fmt.Errorf("-from: %w", err)
		}
		opts.from = p
	}
	if to != "" {
		p, err := parsePoint(to)
		if err != nil {
			return options{}, fmt.Errorf("-to: %w", err)
		}
		opts.to = p
	}
	if (from == "") != (to == "") {
		return options{}, fmt.Errorf("-from and -to go together")
	}
	opts.hasQuery = from != ""
	if opts.rangeLimit > 0 && from == "" {
		return options{}, fmt.Errorf("-range needs -from")
	}
	return opts, nil
}

func loadLevel(opts options) (*game.Level, error) {
	config, err := game.LoadLevelConfig(opts.levelPath)
	if err != nil {
		return nil, err
	}
	if opts.radius >= 0 {
		config.AgentRadius = float32(opts.radius)
	}
	if opts.search != "" {
		config.Search = opts.search
	}
	return game.NewLevel(config, opts.levelPath)
}

// runQuery answers the configured query once. A missing path is reported, not
// returned as an error.
func runQuery(level *game.Level, opts options, stdout io.Writer) error {
	var waypoints []mgl32.Vec3
	if opts.hasQuery {
		waypoints = findPath(level, opts, stdout)
	}

	if opts.rangeLimit > 0 {
		moves, err := level.MovementRange(opts.from, opts.rangeLimit)
		if err != nil {
			fmt.Fprintf(stdout, "no movement range: %v\n", err)
		} else {
			for _, node := range moves.GetValidTargets() {
				fmt.Fprintf(stdout, "%s %.3f\n", node.ToString(), moves.GetCost(node))
			}
		}
	}

	navigator, err := level.Navigator()
	if err != nil {
		return err
	}
	graph := navigator.Graph()
	if opts.ascii {
		if err := navdebug.RenderASCII(stdout, graph, waypoints, opts.colour); err != nil {
			return errors.Wrap(err, "render grid")
		}
	}
	if opts.gltfPath != "" {
		if err := navdebug.SaveGLTF(opts.gltfPath, graph, waypoints); err != nil {
			return err
		}
	}
	if opts.plotPath != "" {
		if err := navdebug.SavePlot(opts.plotPath, graph, waypoints); err != nil {
			return err
		}
	}
	if opts.bakePath != "" {
		if err := level.SaveBake(opts.bakePath); err != nil {
			return err
		}
	}
	return nil
}

func findPath(level *game.Level, opts options, stdout io.Writer) []mgl32.Vec3 {
	var waypoints []mgl32.Vec3
	if opts.useMap {
		var ok bool
		if waypoints, ok = level.FindMapPath(opts.from, opts.to); !ok {
			fmt.Fprintln(stdout, "no path")
			return nil
		}
	} else {
		var err error
		if waypoints, err = level.FindPath(opts.from, opts.to); err != nil {
			fmt.Fprintf(stdout, "no path: %v\n", err)
			return nil
		}
	}
	for _, p := range waypoints {
		fmt.Fprintf(stdout, "%.3f,%.3f\n", p.X(), p.Z())
	}
	return waypoints
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	util.GLOBAL_LOG_LEVEL = util.LogLevelWarning
	if opts.verbose {
		util.GLOBAL_LOG_LEVEL = util.LogLevelInfo
		util.GLOBAL_LOG_CATEGORIES |= util.LogMap | util.LogSearch
	}

	level, err := loadLevel(opts)
	if err != nil {
		return err
	}
	if err := runQuery(level, opts, stdout); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	util.LogSystemInfo(fmt.Sprintf("[Watch] Watching %s", level.MapImagePath()))
	return level.Watch(ctx, func(reloadErr error) {
		if reloadErr != nil {
			fmt.Fprintf(stdout, "reload failed: %v\n", reloadErr)
			return
		}
		if err := runQuery(level, opts, stdout); err != nil {
			fmt.Fprintf(stdout, "query failed: %v\n", err)
		}
	})
}
