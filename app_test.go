package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/navgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestLevel(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	rows := []string{
		".....",
		".###.",
		".....",
	}
	img := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	for y, row := range rows {
		for x, r := range row {
			c := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			if r == '#' {
				c = color.NRGBA{A: 0xff}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var encoded bytes.Buffer
	require.NoError(t, png.Encode(&encoded, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "map.png"), encoded.Bytes(), 0o644))

	levelPath := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(levelPath, []byte("name: test\nmap_image: map.png\nagent_radius: 0.1\n"), 0o644))
	return levelPath
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint(" 1.5, -2 ")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1.5, 0, -2}, p)

	_, err = parsePoint("1")
	assert.Error(t, err)
	_, err = parsePoint("a,b")
	assert.Error(t, err)
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"-level", "l.yaml", "-from", "0,1", "-to", "4,1", "-search", "theta", "-ascii"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "l.yaml", opts.levelPath)
	assert.Equal(t, mgl32.Vec3{4, 0, 1}, opts.to)
	assert.Equal(t, "theta", opts.search)
	assert.True(t, opts.ascii)
	assert.Equal(t, -1.0, opts.radius)
	assert.True(t, opts.hasQuery)

	_, err = parseOptions([]string{"-from", "0,1", "-to", "4,1"}, io.Discard)
	assert.Error(t, err)
	_, err = parseOptions([]string{"-level", "l.yaml", "-from", "0,1"}, io.Discard)
	assert.Error(t, err)
	_, err = parseOptions([]string{"-level", "l.yaml", "-range", "3"}, io.Discard)
	assert.Error(t, err)
}

func TestRunPrintsPathAndGrid(t *testing.T) {
	levelPath := writeTestLevel(t)
	bakePath := filepath.Join(filepath.Dir(levelPath), "level.nav")
	opts, err := parseOptions([]string{"-level", levelPath, "-from", "0,1", "-to", "4,1", "-ascii", "-bake", bakePath}, io.Discard)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, "0.000,1.000", lines[0])
	assert.Contains(t, lines, "4.000,1.000")
	assert.Contains(t, out.String(), "*###*")

	graph, err := navgrid.LoadBake(bakePath)
	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 12)
}

func TestRunReportsMissingPath(t *testing.T) {
	levelPath := writeTestLevel(t)
	opts, err := parseOptions([]string{"-level", levelPath, "-from", "0,1", "-to", "2,1"}, io.Discard)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &out))
	assert.True(t, strings.HasPrefix(out.String(), "no path"))
}

func TestRunMovementRange(t *testing.T) {
	levelPath := writeTestLevel(t)
	opts, err := parseOptions([]string{"-level", levelPath, "-from", "0,0", "-to", "0,0", "-range", "1"}, io.Discard)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &out))
	assert.Equal(t, "0.000,0.000\n0.000,0.000\n[1, 0] 1.000\n[0, 1] 1.000\n", out.String())
}

func TestRunSamePointPrintsTwoWaypoints(t *testing.T) {
	levelPath := writeTestLevel(t)
	opts, err := parseOptions([]string{"-level", levelPath, "-from", "2,2", "-to", "2,2"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, opts.hasQuery)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &out))
	assert.Equal(t, "2.000,2.000\n2.000,2.000\n", out.String())
}

func TestRunFailsOnBadLevel(t *testing.T) {
	opts, err := parseOptions([]string{"-level", filepath.Join(t.TempDir(), "nope.yaml")}, io.Discard)
	require.NoError(t, err)
	assert.Error(t, run(context.Background(), opts, io.Discard))
}
