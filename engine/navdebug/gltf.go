package navdebug

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/navgrid"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// obstacleLift raises obstacle markers above the node plane so both stay visible.
const obstacleLift = 0.05

func sortedNodes[V any](set map[navgrid.Node]V) []navgrid.Node {
	nodes := make([]navgrid.Node, 0, len(set))
	for n := range set {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b navgrid.Node) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return nodes
}

// GLTFDocument builds a scene with a point cloud for the nodes, one for the
// obstacles and a line strip for the path. Empty parts are left out.
func GLTFDocument(graph navgrid.GridGraph, waypoints []mgl32.Vec3) *gltf.Document {
	doc := gltf.NewDocument()

	nodes := sortedNodes(graph.Nodes)
	nodePositions := make([][3]float32, 0, len(nodes))
	for _, n := range nodes {
		nodePositions = append(nodePositions, graph.Nodes[n])
	}
	addMesh(doc, "nodes", gltf.PrimitivePoints, nodePositions)

	obstacles := sortedNodes(graph.Obstacles)
	obstaclePositions := make([][3]float32, 0, len(obstacles))
	for _, n := range obstacles {
		obstaclePositions = append(obstaclePositions, graph.Translation(n).Add(mgl32.Vec3{0, obstacleLift, 0}))
	}
	addMesh(doc, "obstacles", gltf.PrimitivePoints, obstaclePositions)

	pathPositions := make([][3]float32, 0, len(waypoints))
	for _, p := range waypoints {
		pathPositions = append(pathPositions, p)
	}
	if len(pathPositions) > 1 {
		addMesh(doc, "path", gltf.PrimitiveLineStrip, pathPositions)
	}
	return doc
}

func addMesh(doc *gltf.Document, name string, mode gltf.PrimitiveMode, positions [][3]float32) {
	if len(positions) == 0 {
		return
	}
	position := modeler.WritePosition(doc, positions)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Mode:       mode,
			Attributes: map[string]uint32{gltf.POSITION: position},
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
}

// SaveGLTF writes a binary .glb when the file name says so and JSON glTF otherwise.
func SaveGLTF(filename string, graph navgrid.GridGraph, waypoints []mgl32.Vec3) error {
	doc := GLTFDocument(graph, waypoints)
	var err error
	if strings.EqualFold(filepath.Ext(filename), ".glb") {
		err = gltf.SaveBinary(doc, filename)
	} else {
		err = gltf.Save(doc, filename)
	}
	return errors.Wrapf(err, "save %s", filename)
}
