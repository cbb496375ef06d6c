package io

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

func sampleNetwork(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddNode(13, graph.NodeData{Position: voxel.Vec3{X: 1, Y: 1, Z: 1}, Depth: 0, Flow: 2})
	g.AddNode(14, graph.NodeData{Position: voxel.Vec3{X: 2.25, Y: 1, Z: 0.75}, Depth: 0.5, Flow: 1})
	g.AddNode(5, graph.NodeData{Position: voxel.Vec3{X: 2, Y: 1, Z: 0}, Depth: 1, Flow: 0})
	for _, e := range [][2]voxel.ID{{13, 14}, {14, 5}} {
		if err := g.AddEdge(e[0], e[1], graph.EdgeData{}); err != nil {
			t.Fatalf("AddEdge() = %v", err)
		}
	}
	return g
}

func TestNetworkRoundTrip(t *testing.T) {
	g := sampleNetwork(t)
	meta := Meta{RunID: "run-1", Root: 13}

	var buf bytes.Buffer
	if err := WriteJSON(g, meta, &buf); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}
	if !strings.Contains(buf.String(), `"radius"`) {
		t.Errorf("WriteJSON() output has no radius field:\n%s", buf.String())
	}

	got, gotMeta, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() = %v", err)
	}
	if gotMeta != meta {
		t.Errorf("ReadJSON() meta = %+v, want %+v", gotMeta, meta)
	}
	if got.NodeCount() != 3 || got.EdgeCount() != 2 {
		t.Fatalf("ReadJSON() = %d nodes, %d edges, want 3, 2", got.NodeCount(), got.EdgeCount())
	}
	for _, id := range g.NodeIDs() {
		want, _ := g.Node(id)
		n, ok := got.Node(id)
		if !ok || *n != *want {
			t.Errorf("node %d = %+v, want %+v", id, n, want)
		}
	}
	for _, e := range got.Edges() {
		if !(e.A == 13 && e.B == 14) && !(e.A == 14 && e.B == 5) {
			t.Errorf("edge %d->%d lost its orientation", e.A, e.B)
		}
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cause error
	}{
		{"malformed", `{"nodes": [`, nil},
		{"duplicate node", `{"nodes": [{"id": 1}, {"id": 1}], "meta": {"root": 1}}`, nil},
		{"unknown node", `{"nodes": [{"id": 1}], "edges": [{"from": 1, "to": 2}], "meta": {"root": 1}}`, graph.ErrUnknownNode},
		{"self loop", `{"nodes": [{"id": 1}], "edges": [{"from": 1, "to": 1}], "meta": {"root": 1}}`, graph.ErrSelfLoop},
		{"missing root", `{"nodes": [{"id": 1}], "meta": {"root": 4}}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadJSON() = %v, want %v", err, errors.ErrCodeInvalidFormat)
			}
			if tt.cause != nil && !stderrors.Is(err, tt.cause) {
				t.Errorf("ReadJSON() = %v, want cause %v", err, tt.cause)
			}
		})
	}
}

func TestImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.json")
	var buf bytes.Buffer
	if err := WriteJSON(sampleNetwork(t), Meta{Root: 13}, &buf); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}
	got, meta, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() = %v", err)
	}
	if meta.Root != 13 || got.NodeCount() != 3 {
		t.Errorf("ImportJSON() = root %d, %d nodes", meta.Root, got.NodeCount())
	}

	_, _, err = ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestReadVolume(t *testing.T) {
	vol, err := ReadVolume(strings.NewReader(`{"size": [3, 2, 2], "voxels": [[0, 0, 0], [2, 1, 1], [2, 1, 1]]}`))
	if err != nil {
		t.Fatalf("ReadVolume() = %v", err)
	}
	if vol.Count() != 2 {
		t.Errorf("Count() = %d, want 2", vol.Count())
	}
	if !vol.At(voxel.Coord{X: 2, Y: 1, Z: 1}) {
		t.Error("At(2,1,1) = false")
	}

	var buf bytes.Buffer
	if err := WriteVolume(vol, &buf); err != nil {
		t.Fatalf("WriteVolume() = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"size":[3,2,2],"voxels":[[0,0,0],[2,1,1]]}` {
		t.Errorf("WriteVolume() = %s", got)
	}
}

func TestReadVolumeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  errors.Code
	}{
		{"malformed", `{"size": [`, errors.ErrCodeInvalidFormat},
		{"zero size", `{"size": [0, 2, 2], "voxels": []}`, errors.ErrCodeInvalidVolume},
		{"missing size", `{"voxels": [[0, 0, 0]]}`, errors.ErrCodeInvalidVolume},
		{"out of bounds", `{"size": [2, 2, 2], "voxels": [[2, 0, 0]]}`, errors.ErrCodeInvalidVolume},
		{"negative", `{"size": [2, 2, 2], "voxels": [[0, -1, 0]]}`, errors.ErrCodeInvalidVolume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadVolume(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadVolume() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteImportVolume(t *testing.T) {
	vol, err := voxel.Sphere(5)
	if err != nil {
		t.Fatalf("Sphere() = %v", err)
	}
	path := filepath.Join(t.TempDir(), "volume.json")
	var buf bytes.Buffer
	if err := WriteVolume(vol, &buf); err != nil {
		t.Fatalf("WriteVolume() = %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}
	got, err := ImportVolume(path)
	if err != nil {
		t.Fatalf("ImportVolume() = %v", err)
	}
	if got.Count() != vol.Count() || got.Index() != vol.Index() {
		t.Errorf("ImportVolume() = %d voxels in %v, want %d in %v", got.Count(), got.Index(), vol.Count(), vol.Index())
	}
}

func TestWriteVoxelCSV(t *testing.T) {
	idx := voxel.NewIndex(4, 4, 4)
	g := graph.New()
	g.AddNode(idx.ID(1, 2, 3), graph.NodeData{Depth: 0.25})
	g.AddNode(idx.ID(1, 0, 0), graph.NodeData{Depth: 1})

	var buf bytes.Buffer
	if err := WriteVoxelCSV(g, idx, &buf); err != nil {
		t.Fatalf("WriteVoxelCSV() = %v", err)
	}
	want := "x,y,z,depth\n1,0,0,1\n1,2,3,0.25\n"
	if buf.String() != want {
		t.Errorf("WriteVoxelCSV() = %q, want %q", buf.String(), want)
	}

	g.AddNode(999, graph.NodeData{})
	if err := WriteVoxelCSV(g, idx, &buf); err == nil {
		t.Error("WriteVoxelCSV() with an out-of-grid node succeeded")
	}
}
