package exchange

import (
	"fmt"
	"path/filepath"

	"google.golang.org/protobuf/proto"

	"github.com/meridian-robotics/voxmap/internal/fsutil"
	"github.com/meridian-robotics/voxmap/internal/mapping"
	"github.com/meridian-robotics/voxmap/internal/mapping/exchange/pb"
	"github.com/meridian-robotics/voxmap/internal/monitoring"
)

// Archiver persists and restores whole submap collections as a single
// protobuf archive file.
type Archiver struct {
	fs         fsutil.FileSystem
	worldFrame string
}

// NewArchiver creates an Archiver writing through the given filesystem.
func NewArchiver(fs fsutil.FileSystem, worldFrame string) *Archiver {
	return &Archiver{fs: fs, worldFrame: worldFrame}
}

// SaveMap writes every submap in the collection to path.
func (a *Archiver) SaveMap(path string, collection mapping.SubmapCollection) error {
	if path == "" {
		return fmt.Errorf("save map: empty path")
	}

	archive := &pb.MapArchive{}
	for _, id := range collection.IDs() {
		sm, ok := collection.Submap(id)
		if !ok {
			continue
		}
		layer, _ := collection.Layer(id)
		archive.Submaps = append(archive.Submaps, SubmapToProto(sm, layer))
	}
	if active, ok := collection.ActiveSubmapID(); ok {
		archive.ActiveSubmapId = int64(active)
	}

	data, err := proto.Marshal(archive)
	if err != nil {
		return fmt.Errorf("save map: marshal: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := a.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save map: %w", err)
		}
	}
	if err := a.fs.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save map: %w", err)
	}
	monitoring.Logf("[Exchange] Saved %d submaps to %s (%d bytes)", len(archive.Submaps), path, len(data))
	return nil
}

// LoadMap reads an archive and inserts every submap into the collection,
// overwriting submaps that share an id. It returns the loaded submap ids.
func (a *Archiver) LoadMap(path string, collection mapping.SubmapCollection) ([]mapping.SubmapID, error) {
	data, err := a.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}
	archive := &pb.MapArchive{}
	if err := proto.Unmarshal(data, archive); err != nil {
		return nil, fmt.Errorf("load map: unmarshal: %w", err)
	}

	var loaded []mapping.SubmapID
	for _, msg := range archive.Submaps {
		sm, layer, err := SubmapFromProto(msg, a.worldFrame)
		if err != nil {
			return loaded, fmt.Errorf("load map: submap %d: %w", msg.GetSubmapId(), err)
		}
		collection.Put(sm, layer)
		loaded = append(loaded, sm.ID)
	}
	monitoring.Logf("[Exchange] Loaded %d submaps from %s", len(loaded), path)
	return loaded, nil
}
