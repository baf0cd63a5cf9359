package ldfa

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"

	"github.com/ldfagames/solver/shape"
	"github.com/ldfagames/solver/storage"
)

// metadata is the side-car record written alongside an LDFA's layer files,
// REZI-encoded the way a sqlite DAO layer encodes its blob fields.
type metadata struct {
	ShapeSizes   []int
	LayerSizes   []int
	InitialState uint32
}

func metadataPath(dir string) string {
	return filepath.Join(dir, "meta.rezi")
}

func layerPath(dir string, k int) string {
	return filepath.Join(dir, fmt.Sprintf("layer=%d", k))
}

// Save writes d to dir as one memory-mapped file per layer plus a REZI
// side-car describing the shape, layer sizes, and initial state. dir must
// already exist.
func (d *LDFA) Save(dir string) error {
	meta := metadata{
		ShapeSizes:   []int(d.shape),
		LayerSizes:   d.layerSizes,
		InitialState: d.initialState,
	}
	encoded, err := rezi.EncBinary(meta)
	if err != nil {
		return wrapError(IOFailure, "Save: encoding metadata", err)
	}
	if err := os.WriteFile(metadataPath(dir), encoded, 0o644); err != nil {
		return wrapError(IOFailure, "Save: writing metadata", err)
	}

	for k := 0; k < d.Dim(); k++ {
		if d.layers[k] == nil {
			continue
		}
		if err := d.layers[k].Rename(layerPath(dir, k)); err != nil {
			return wrapError(IOFailure, fmt.Sprintf("Save: persisting layer %d", k), err)
		}
	}
	return nil
}

// Load reads an LDFA previously written by Save from dir.
func Load(dir string) (*LDFA, error) {
	raw, err := os.ReadFile(metadataPath(dir))
	if err != nil {
		return nil, wrapError(IOFailure, "Load: reading metadata", err)
	}
	var meta metadata
	if _, err := rezi.DecBinary(raw, &meta); err != nil {
		return nil, wrapError(IOFailure, "Load: decoding metadata", err)
	}

	s := shape.Shape(meta.ShapeSizes)
	if err := s.Validate(); err != nil {
		return nil, wrapError(ShapeMismatch, "Load: invalid persisted shape", err)
	}

	layers := make([]*storage.MappedArray, s.Dim())
	for k := 0; k < s.Dim(); k++ {
		size := meta.LayerSizes[k] * s[k]
		if size == 0 {
			continue
		}
		arr, err := storage.OpenMappedArray(layerPath(dir, k), size)
		if err != nil {
			return nil, wrapError(IOFailure, fmt.Sprintf("Load: opening layer %d", k), err)
		}
		layers[k] = arr
	}

	return &LDFA{
		shape:        s,
		layers:       layers,
		layerSizes:   meta.LayerSizes,
		initialState: meta.InitialState,
	}, nil
}

// Close releases the memory-mapped layer files backing d without deleting
// them on disk.
func (d *LDFA) Close() error {
	var firstErr error
	for _, arr := range d.layers {
		if arr == nil {
			continue
		}
		if err := arr.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
