// Package config loads mapping server tuning parameters from JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MappingConfig represents the tunable parameters of the mapping server.
// All fields are pointers so a partial JSON file overrides only the values
// it names; the Get* accessors supply defaults for the rest.
type MappingConfig struct {
	// Ingestion params
	QueueSize        *int    `json:"queue_size,omitempty"`         // max pending frames awaiting a pose
	MinFrameInterval *string `json:"min_frame_interval,omitempty"` // duration string like "100ms"
	WorldFrame       *string `json:"world_frame,omitempty"`
	SensorFrame      *string `json:"sensor_frame,omitempty"` // frame id expected on incoming packets

	// Segmentation params
	FramesPerSubmap *int `json:"frames_per_submap,omitempty"`

	// Fusion layer params
	VoxelSize     *float64 `json:"voxel_size,omitempty"`      // meters
	VoxelsPerSide *int     `json:"voxels_per_side,omitempty"` // per block edge

	// Mesh params
	MeshUpdateInterval *string `json:"mesh_update_interval,omitempty"` // "0" disables the tick
	MeshPath           *string `json:"mesh_path,omitempty"`

	// Exchange params
	ExchangeListenAddr *string `json:"exchange_listen_addr,omitempty"`
	PeerAddr           *string `json:"peer_addr,omitempty"`       // remote exchange to subscribe to
	MergeToGlobal      *bool   `json:"merge_to_global,omitempty"` // publish the merged global map instead of submaps

	// Ingest transport params
	IngestListenAddr *string `json:"ingest_listen_addr,omitempty"`
	IngestRcvBuf     *int    `json:"ingest_rcv_buf,omitempty"`

	// Diagnostics params
	TimingLogDir *string `json:"timing_log_dir,omitempty"` // "" disables timing logs
	EventDBPath  *string `json:"event_db_path,omitempty"`  // "" disables the event store
}

// EmptyMappingConfig returns a MappingConfig with all fields unset.
func EmptyMappingConfig() *MappingConfig {
	return &MappingConfig{}
}

// LoadMappingConfig loads a MappingConfig from a JSON file. Fields omitted
// from the file retain their defaults, so partial configs are safe.
func LoadMappingConfig(path string) (*MappingConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyMappingConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *MappingConfig) Validate() error {
	if c.QueueSize != nil && *c.QueueSize < 1 {
		return fmt.Errorf("queue_size must be at least 1, got %d", *c.QueueSize)
	}
	if c.FramesPerSubmap != nil && *c.FramesPerSubmap < 1 {
		return fmt.Errorf("frames_per_submap must be at least 1, got %d", *c.FramesPerSubmap)
	}
	if c.VoxelSize != nil && *c.VoxelSize <= 0 {
		return fmt.Errorf("voxel_size must be positive, got %f", *c.VoxelSize)
	}
	if c.VoxelsPerSide != nil && *c.VoxelsPerSide < 1 {
		return fmt.Errorf("voxels_per_side must be at least 1, got %d", *c.VoxelsPerSide)
	}
	if c.MinFrameInterval != nil && *c.MinFrameInterval != "" {
		if _, err := time.ParseDuration(*c.MinFrameInterval); err != nil {
			return fmt.Errorf("invalid min_frame_interval '%s': %w", *c.MinFrameInterval, err)
		}
	}
	if c.MeshUpdateInterval != nil && *c.MeshUpdateInterval != "" && *c.MeshUpdateInterval != "0" {
		if _, err := time.ParseDuration(*c.MeshUpdateInterval); err != nil {
			return fmt.Errorf("invalid mesh_update_interval '%s': %w", *c.MeshUpdateInterval, err)
		}
	}
	return nil
}

// GetQueueSize returns the max pending-frame queue length or the default.
func (c *MappingConfig) GetQueueSize() int {
	if c.QueueSize == nil {
		return 10 // default
	}
	return *c.QueueSize
}

// GetMinFrameInterval parses and returns the frame throttle interval.
// Zero means no throttling.
func (c *MappingConfig) GetMinFrameInterval() time.Duration {
	if c.MinFrameInterval == nil || *c.MinFrameInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.MinFrameInterval)
	if err != nil {
		return 0
	}
	return d
}

// GetWorldFrame returns the global frame name or the default.
func (c *MappingConfig) GetWorldFrame() string {
	if c.WorldFrame == nil || *c.WorldFrame == "" {
		return "world" // default
	}
	return *c.WorldFrame
}

// GetSensorFrame returns the expected sensor frame id or the default.
func (c *MappingConfig) GetSensorFrame() string {
	if c.SensorFrame == nil || *c.SensorFrame == "" {
		return "lidar" // default
	}
	return *c.SensorFrame
}

// GetFramesPerSubmap returns the segmentation threshold or the default.
func (c *MappingConfig) GetFramesPerSubmap() int {
	if c.FramesPerSubmap == nil {
		return 20 // default
	}
	return *c.FramesPerSubmap
}

// GetVoxelSize returns the voxel edge length in meters or the default.
func (c *MappingConfig) GetVoxelSize() float64 {
	if c.VoxelSize == nil {
		return 0.05 // default
	}
	return *c.VoxelSize
}

// GetVoxelsPerSide returns voxels per block edge or the default.
func (c *MappingConfig) GetVoxelsPerSide() int {
	if c.VoxelsPerSide == nil {
		return 16 // default
	}
	return *c.VoxelsPerSide
}

// GetMeshUpdateInterval parses and returns the mesh refresh period.
// Zero disables the periodic refresh tick.
func (c *MappingConfig) GetMeshUpdateInterval() time.Duration {
	if c.MeshUpdateInterval == nil || *c.MeshUpdateInterval == "" || *c.MeshUpdateInterval == "0" {
		return 0
	}
	d, err := time.ParseDuration(*c.MeshUpdateInterval)
	if err != nil {
		return 0
	}
	return d
}

// GetMeshPath returns the mesh export path, empty if unconfigured.
func (c *MappingConfig) GetMeshPath() string {
	if c.MeshPath == nil {
		return ""
	}
	return *c.MeshPath
}

// GetExchangeListenAddr returns the exchange gRPC listen address or the default.
func (c *MappingConfig) GetExchangeListenAddr() string {
	if c.ExchangeListenAddr == nil || *c.ExchangeListenAddr == "" {
		return "localhost:50061" // default
	}
	return *c.ExchangeListenAddr
}

// GetPeerAddr returns the peer exchange address, empty if this node
// does not subscribe to a peer.
func (c *MappingConfig) GetPeerAddr() string {
	if c.PeerAddr == nil {
		return ""
	}
	return *c.PeerAddr
}

// GetMergeToGlobal reports whether publishes send the merged global map.
func (c *MappingConfig) GetMergeToGlobal() bool {
	if c.MergeToGlobal == nil {
		return false
	}
	return *c.MergeToGlobal
}

// GetIngestListenAddr returns the UDP ingest listen address or the default.
func (c *MappingConfig) GetIngestListenAddr() string {
	if c.IngestListenAddr == nil || *c.IngestListenAddr == "" {
		return ":2368" // default
	}
	return *c.IngestListenAddr
}

// GetIngestRcvBuf returns the UDP receive buffer size or the default.
func (c *MappingConfig) GetIngestRcvBuf() int {
	if c.IngestRcvBuf == nil {
		return 4 * 1024 * 1024 // default
	}
	return *c.IngestRcvBuf
}

// GetTimingLogDir returns the timing log directory, empty if disabled.
func (c *MappingConfig) GetTimingLogDir() string {
	if c.TimingLogDir == nil {
		return ""
	}
	return *c.TimingLogDir
}

// GetEventDBPath returns the event store path, empty if disabled.
func (c *MappingConfig) GetEventDBPath() string {
	if c.EventDBPath == nil {
		return ""
	}
	return *c.EventDBPath
}
