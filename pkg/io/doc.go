// Package io provides JSON import and export for vessel networks and
// occupancy volumes, plus a CSV dump of the depth field.
//
// # Network Format
//
// A network is written as one JSON object with a meta block and two arrays:
//
//	{
//	  "meta": {"run_id": "5f0c...", "root": 62},
//	  "nodes": [
//	    {"id": 62, "position": [2, 2, 2], "depth": 0, "flow": 26, "radius": 0.0288},
//	    {"id": 37, "position": [2.1, 1.2, 1.4], "depth": 0.33, "flow": 0, "radius": 0.0001}
//	  ],
//	  "edges": [
//	    {"from": 62, "to": 37}
//	  ]
//	}
//
// Node ids are voxel ids of the source volume. Edges point from parent to
// child. The radius is derived from the flow with [transform.Radius] and is
// ignored on import.
//
// Use [WriteJSON] to write a network and [ImportJSON] / [ReadJSON] to read
// one back.
//
// # Volume Format
//
// Volumes are described by their extents and the list of occupied voxels:
//
//	{"size": [4, 4, 4], "voxels": [[1, 1, 1], [2, 1, 1]]}
//
// [ReadVolume] rejects non-positive or oversized extents and voxels outside
// the grid with an INVALID_VOLUME error; malformed JSON is INVALID_FORMAT.
//
// # Depth Dump
//
// [WriteVoxelCSV] writes one "x,y,z,depth" row per node, in ascending id
// order, for inspecting the distance field in a spreadsheet or plotting tool.
//
// [transform.Radius]: github.com/matzehuels/vesselgen/pkg/graph/transform.Radius
package io
