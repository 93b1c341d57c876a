package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapping.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsWhenUnset(t *testing.T) {
	cfg := EmptyMappingConfig()

	if got := cfg.GetQueueSize(); got != 10 {
		t.Errorf("GetQueueSize = %d, want 10", got)
	}
	if got := cfg.GetMinFrameInterval(); got != 0 {
		t.Errorf("GetMinFrameInterval = %v, want 0", got)
	}
	if got := cfg.GetFramesPerSubmap(); got != 20 {
		t.Errorf("GetFramesPerSubmap = %d, want 20", got)
	}
	if got := cfg.GetWorldFrame(); got != "world" {
		t.Errorf("GetWorldFrame = %q, want world", got)
	}
	if got := cfg.GetVoxelSize(); got != 0.05 {
		t.Errorf("GetVoxelSize = %f, want 0.05", got)
	}
	if got := cfg.GetMeshUpdateInterval(); got != 0 {
		t.Errorf("GetMeshUpdateInterval = %v, want 0", got)
	}
	if got := cfg.GetTimingLogDir(); got != "" {
		t.Errorf("GetTimingLogDir = %q, want empty", got)
	}
	if got := cfg.GetSensorFrame(); got != "lidar" {
		t.Errorf("GetSensorFrame = %q, want lidar", got)
	}
	if cfg.GetMergeToGlobal() {
		t.Error("GetMergeToGlobal = true, want false")
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, `{
		"queue_size": 4,
		"min_frame_interval": "250ms",
		"frames_per_submap": 2,
		"timing_log_dir": "/tmp/timings",
		"sensor_frame": "os1",
		"merge_to_global": true
	}`)

	cfg, err := LoadMappingConfig(path)
	if err != nil {
		t.Fatalf("LoadMappingConfig: %v", err)
	}

	if got := cfg.GetQueueSize(); got != 4 {
		t.Errorf("GetQueueSize = %d, want 4", got)
	}
	if got := cfg.GetMinFrameInterval(); got != 250*time.Millisecond {
		t.Errorf("GetMinFrameInterval = %v, want 250ms", got)
	}
	if got := cfg.GetFramesPerSubmap(); got != 2 {
		t.Errorf("GetFramesPerSubmap = %d, want 2", got)
	}
	if got := cfg.GetSensorFrame(); got != "os1" {
		t.Errorf("GetSensorFrame = %q, want os1", got)
	}
	if !cfg.GetMergeToGlobal() {
		t.Error("GetMergeToGlobal = false, want true")
	}
	// Unset fields fall back to defaults.
	if got := cfg.GetVoxelsPerSide(); got != 16 {
		t.Errorf("GetVoxelsPerSide = %d, want 16", got)
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	if _, err := LoadMappingConfig("mapping.yaml"); err == nil {
		t.Fatal("expected error for non-json extension")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"zero queue", `{"queue_size": 0}`},
		{"zero threshold", `{"frames_per_submap": 0}`},
		{"negative voxel size", `{"voxel_size": -0.1}`},
		{"bad interval", `{"min_frame_interval": "fast"}`},
		{"bad mesh interval", `{"mesh_update_interval": "often"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := LoadMappingConfig(path); err == nil {
				t.Fatalf("expected validation error for %s", tc.content)
			}
		})
	}
}

func TestMeshUpdateIntervalZeroString(t *testing.T) {
	path := writeConfig(t, `{"mesh_update_interval": "0"}`)
	cfg, err := LoadMappingConfig(path)
	if err != nil {
		t.Fatalf("LoadMappingConfig: %v", err)
	}
	if got := cfg.GetMeshUpdateInterval(); got != 0 {
		t.Errorf("GetMeshUpdateInterval = %v, want 0", got)
	}
}
