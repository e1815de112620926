package game

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/navgrid"
	"github.com/memmaker/tilenav/engine/navmap"
	"github.com/memmaker/tilenav/engine/path"
	"github.com/memmaker/tilenav/engine/tilemap"
	"github.com/memmaker/tilenav/engine/util"
	"github.com/pkg/errors"
)

// Level ties a level file to its navigation data. The parsed map lives in a
// versioned source; the flat navigator and the map graph are derived from it on
// demand and rebuilt after a reload.
type Level struct {
	Config     LevelConfig
	ConfigPath string
	Source     *navmap.SourceMap

	palette    tilemap.Palette
	method     navgrid.SearchMethod
	navigators *navmap.Derived[*navmap.SourceMap, *navgrid.Navigator]
	mapGraphs  *navmap.Derived[*navmap.SourceMap, *navmap.MapGraph]
}

func LoadLevel(configPath string) (*Level, error) {
	config, err := LoadLevelConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewLevel(config, configPath)
}

// NewLevel builds a level from an already loaded config. configPath anchors a
// relative map_image.
func NewLevel(config LevelConfig, configPath string) (*Level, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid level config")
	}
	palette, _ := config.CellPalette()
	method, _ := navgrid.MethodByName(config.Search, config.MaxExpanded)

	level := &Level{
		Config:     config,
		ConfigPath: configPath,
		palette:    palette,
		method:     method,
	}
	grid, err := level.parseMap()
	if err != nil {
		return nil, err
	}
	level.Source = navmap.NewSourceMap(grid)
	level.navigators = navmap.NewDerived(func(src *navmap.SourceMap) (*navgrid.Navigator, error) {
		flat, err := level.buildGridGraph(src.Grid())
		if err != nil {
			return nil, err
		}
		return navgrid.NewNavigator(flat), nil
	})
	level.mapGraphs = navmap.NewMapGraphCache(config.CellDistance, config.Elevation)

	navigator, err := level.Navigator()
	if err != nil {
		return nil, err
	}
	util.LogSystemInfo(fmt.Sprintf("[Level] Loaded '%s': %s, %d nodes", config.Name, navigator.Graph().Context.ToString(), len(navigator.Graph().Nodes)))
	return level, nil
}

func (l *Level) MapImagePath() string {
	return util.ResolveRelative(l.ConfigPath, l.Config.MapImage)
}

func (l *Level) parseMap() (tilemap.Grid, error) {
	filename := l.MapImagePath()
	file, err := os.Open(filename)
	if err != nil {
		return tilemap.Grid{}, errors.Wrap(err, "open map image")
	}
	defer file.Close()
	pixels, err := tilemap.DecodeImage(file)
	if err != nil {
		return tilemap.Grid{}, errors.Wrapf(err, "decode %s", filename)
	}
	grid, err := tilemap.TryParse(pixels, l.palette)
	if err != nil {
		return tilemap.Grid{}, errors.Wrapf(err, "parse %s", filename)
	}
	return grid, nil
}

func (l *Level) buildGridGraph(grid tilemap.Grid) (navgrid.GridGraph, error) {
	base, err := navgrid.FromTileGrid(grid, l.Config.CellDistance, l.Config.Elevation)
	if err != nil {
		return navgrid.GridGraph{}, errors.Wrap(err, "build navigation grid")
	}
	subdivided, err := base.ToSubdivided(l.Config.Subdivisions)
	if err != nil {
		return navgrid.GridGraph{}, errors.Wrapf(err, "subdivide navigation grid by %d", l.Config.Subdivisions)
	}
	return subdivided, nil
}

func (l *Level) Navigator() (*navgrid.Navigator, error) {
	return l.navigators.Get(l.Source)
}

func (l *Level) MapGraph() (*navmap.MapGraph, error) {
	return l.mapGraphs.Get(l.Source)
}

// Reload re-reads the map image. A map that fails to parse or build leaves the
// level unchanged.
func (l *Level) Reload() error {
	grid, err := l.parseMap()
	if err != nil {
		return err
	}
	if _, err := l.buildGridGraph(grid); err != nil {
		return err
	}
	version := l.Source.Replace(grid)
	util.LogSystemInfo(fmt.Sprintf("[Level] Reloaded '%s' as version %d", l.Config.Name, version))
	return nil
}

// FindPath plans on the flat navigation grid with the level's agent radius.
func (l *Level) FindPath(start, end mgl32.Vec3) ([]mgl32.Vec3, error) {
	navigator, err := l.Navigator()
	if err != nil {
		return nil, err
	}
	return navgrid.NewPlanner(navigator, l.method).ComputePath(start, end, l.Config.AgentRadius)
}

// PathOrDirect returns the planned path, or the straight segment and false when
// planning fails.
func (l *Level) PathOrDirect(start, end mgl32.Vec3) ([]mgl32.Vec3, bool) {
	waypoints, err := l.FindPath(start, end)
	if err != nil {
		util.LogNavDebug(fmt.Sprintf("[Level] Falling back to a direct path: %v", err))
		return []mgl32.Vec3{start, end}, false
	}
	return waypoints, true
}

// FindMapPath plans on the map graph at the resolution of the map image.
func (l *Level) FindMapPath(start, end mgl32.Vec3) ([]mgl32.Vec3, bool) {
	mapGraph, err := l.MapGraph()
	if err != nil {
		util.LogNavError(fmt.Sprintf("[Level] Map graph unavailable: %v", err))
		return nil, false
	}
	return path.NewPlanner[tilemap.UInt2](mapGraph, navmap.GonumAStar{}).ComputePath(start, end, l.Config.AgentRadius)
}

func (l *Level) MovementRange(from mgl32.Vec3, budget float64) (*MovementRange, error) {
	navigator, err := l.Navigator()
	if err != nil {
		return nil, err
	}
	origin, err := movementOrigin(navigator.Graph(), from)
	if err != nil {
		return nil, err
	}
	return NewMovementRange(navigator, origin, budget), nil
}

// movementOrigin locates from and requires the node to be walkable. Baked graphs
// may carry nodes that are also obstacles.
func movementOrigin(graph navgrid.GridGraph, from mgl32.Vec3) (navgrid.Node, error) {
	origin, err := graph.LocateNode(from)
	if err != nil {
		return navgrid.Node{}, errors.Wrapf(err, "movement origin %v", from)
	}
	if !graph.Walkable(origin) {
		return navgrid.Node{}, errors.Wrapf(navgrid.ErrUnmappable, "movement origin %v is blocked", from)
	}
	return origin, nil
}

func (l *Level) SaveBake(filename string) error {
	navigator, err := l.Navigator()
	if err != nil {
		return err
	}
	return navgrid.SaveBake(filename, navigator.Graph())
}

// Watch reloads the level whenever its map image changes, until ctx is done.
// onReload receives the outcome of every reload attempt.
func (l *Level) Watch(ctx context.Context, onReload func(err error)) error {
	imagePath := l.MapImagePath()
	watcher, err := navmap.NewWatcher([]string{filepath.Ext(imagePath)}, filepath.Dir(imagePath))
	if err != nil {
		return errors.Wrap(err, "watch map image")
	}
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(name) != filepath.Clean(imagePath) {
				continue
			}
			err := l.Reload()
			if err != nil {
				util.LogIOError(fmt.Sprintf("[Level] Reload of %s failed: %v", name, err))
			}
			if onReload != nil {
				onReload(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			util.LogIOError(fmt.Sprintf("[Level] Watcher error: %v", err))
		}
	}
}
