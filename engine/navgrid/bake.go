package navgrid

import (
	"cmp"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Tnze/go-mc/nbt"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/util"
	"github.com/pkg/errors"
)

const BakeVersion int32 = 1

var ErrBakeVersion = errors.New("unsupported bake version")

// bakeFile is the NBT root compound. Indices are stored as int32 bit patterns of
// the unsigned values, translations as flat x, y, z triples.
type bakeFile struct {
	Version      int32     `nbt:"version"`
	CellCountX   int32     `nbt:"cell_count_x"`
	CellCountZ   int32     `nbt:"cell_count_z"`
	CellDistance float32   `nbt:"cell_distance"`
	NodeX        []int32   `nbt:"node_x"`
	NodeY        []int32   `nbt:"node_y"`
	Translations []float32 `nbt:"translations"`
	ObstacleX    []int32   `nbt:"obstacle_x"`
	ObstacleY    []int32   `nbt:"obstacle_y"`
}

func sortedNodes[V any](set map[Node]V) []Node {
	nodes := make([]Node, 0, len(set))
	for n := range set {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b Node) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return nodes
}

// WriteBake stores a graph as gzip-compressed NBT. Graphs whose context could not
// be read back are rejected before anything is written.
func WriteBake(w io.Writer, graph GridGraph) error {
	if _, err := NewGridContext(graph.Context.CellCountX, graph.Context.CellCountZ, graph.Context.CellDistance); err != nil {
		return errors.Wrap(err, "bake context")
	}
	file := bakeFile{
		Version:      BakeVersion,
		CellCountX:   int32(graph.Context.CellCountX),
		CellCountZ:   int32(graph.Context.CellCountZ),
		CellDistance: graph.Context.CellDistance,
		NodeX:        []int32{},
		NodeY:        []int32{},
		Translations: []float32{},
		ObstacleX:    []int32{},
		ObstacleY:    []int32{},
	}
	for _, n := range sortedNodes(graph.Nodes) {
		t := graph.Nodes[n]
		file.NodeX = append(file.NodeX, int32(n.X))
		file.NodeY = append(file.NodeY, int32(n.Y))
		file.Translations = append(file.Translations, t.X(), t.Y(), t.Z())
	}
	for _, n := range sortedNodes(graph.Obstacles) {
		file.ObstacleX = append(file.ObstacleX, int32(n.X))
		file.ObstacleY = append(file.ObstacleY, int32(n.Y))
	}

	gzipWriter := gzip.NewWriter(w)
	if err := nbt.NewEncoder(gzipWriter).Encode(file, "navgrid"); err != nil {
		return errors.Wrap(err, "encode bake")
	}
	return errors.Wrap(gzipWriter.Close(), "compress bake")
}

func ReadBake(r io.Reader) (GridGraph, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return GridGraph{}, errors.Wrap(err, "decompress bake")
	}
	defer gzipReader.Close()

	var file bakeFile
	if _, err = nbt.NewDecoder(gzipReader).Decode(&file); err != nil {
		return GridGraph{}, errors.Wrap(err, "decode bake")
	}
	if file.Version != BakeVersion {
		return GridGraph{}, errors.Wrapf(ErrBakeVersion, "version %d", file.Version)
	}
	context, err := NewGridContext(uint32(file.CellCountX), uint32(file.CellCountZ), file.CellDistance)
	if err != nil {
		return GridGraph{}, errors.Wrap(err, "bake context")
	}
	if len(file.NodeX) != len(file.NodeY) || len(file.Translations) != 3*len(file.NodeX) {
		return GridGraph{}, errors.Errorf("bake: %d node columns, %d node rows, %d translation values", len(file.NodeX), len(file.NodeY), len(file.Translations))
	}
	if len(file.ObstacleX) != len(file.ObstacleY) {
		return GridGraph{}, errors.Errorf("bake: %d obstacle columns, %d obstacle rows", len(file.ObstacleX), len(file.ObstacleY))
	}

	graph := GridGraph{
		Nodes:     make(map[Node]mgl32.Vec3, len(file.NodeX)),
		Obstacles: make(map[Node]struct{}, len(file.ObstacleX)),
		Context:   context,
	}
	for i := range file.NodeX {
		n := Node{X: uint32(file.NodeX[i]), Y: uint32(file.NodeY[i])}
		graph.Nodes[n] = mgl32.Vec3{file.Translations[3*i], file.Translations[3*i+1], file.Translations[3*i+2]}
	}
	for i := range file.ObstacleX {
		graph.Obstacles[Node{X: uint32(file.ObstacleX[i]), Y: uint32(file.ObstacleY[i])}] = struct{}{}
	}
	return graph, nil
}

func SaveBake(filename string, graph GridGraph) error {
	outfile, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create bake file")
	}
	err = WriteBake(outfile, graph)
	if closeErr := outfile.Close(); err == nil && closeErr != nil {
		err = errors.Wrap(closeErr, "close bake file")
	}
	if err != nil {
		if removeErr := os.Remove(filename); removeErr != nil {
			util.LogIOError(fmt.Sprintf("[Bake] Could not remove incomplete %s: %v", filename, removeErr))
		}
		return err
	}
	util.LogIOInfo(fmt.Sprintf("[Bake] Saved %d nodes to %s", len(graph.Nodes), filename))
	return nil
}

func LoadBake(filename string) (GridGraph, error) {
	file, err := os.Open(filename)
	if err != nil {
		return GridGraph{}, errors.Wrap(err, "open bake file")
	}
	defer file.Close()
	graph, err := ReadBake(file)
	if err != nil {
		return GridGraph{}, errors.Wrapf(err, "load %s", filename)
	}
	util.LogIOInfo(fmt.Sprintf("[Bake] Loaded %d nodes from %s", len(graph.Nodes), filename))
	return graph, nil
}
