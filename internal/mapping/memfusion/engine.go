// Package memfusion provides an in-process fusion engine and submap
// collection behind the mapping interfaces. Integration is projective
// point insertion into a weighted voxel grid: each point lands in exactly
// one voxel whose distance, weight and color are blended. Deployments
// with a full ray-casting TSDF library swap their own implementation in
// through mapping.FusionEngine and mapping.SubmapCollection.
package memfusion

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/meridian-robotics/voxmap/internal/mapping"
)

// Config holds the layer geometry for new submaps.
type Config struct {
	VoxelSize     float64 // voxel edge length in meters (default 0.05)
	VoxelsPerSide int     // voxels per block edge (default 16)
	MaxWeight     float64 // weight saturation per voxel (default 100)
}

// DefaultConfig returns the default layer geometry.
func DefaultConfig() Config {
	return Config{
		VoxelSize:     0.05,
		VoxelsPerSide: 16,
		MaxWeight:     100,
	}
}

// Engine implements mapping.FusionEngine and mapping.SubmapCollection over
// in-memory voxel layers. Layers are stored in the global frame; a
// submap's base pose is metadata used for bookkeeping and exchange.
type Engine struct {
	mu       sync.Mutex
	config   Config
	submaps  map[mapping.SubmapID]*mapping.Submap
	layers   map[mapping.SubmapID]*mapping.VolumetricLayer
	nextID   mapping.SubmapID
	activeID mapping.SubmapID
	// target is the layer the integrator writes into; re-pointed by
	// SwitchActiveSubmap.
	target    *mapping.VolumetricLayer
	hasActive bool
}

// NewEngine creates an Engine with the given configuration.
func NewEngine(config Config) *Engine {
	if config.VoxelSize <= 0 {
		config.VoxelSize = 0.05
	}
	if config.VoxelsPerSide <= 0 {
		config.VoxelsPerSide = 16
	}
	if config.MaxWeight <= 0 {
		config.MaxWeight = 100
	}
	return &Engine{
		config:  config,
		submaps: make(map[mapping.SubmapID]*mapping.Submap),
		layers:  make(map[mapping.SubmapID]*mapping.VolumetricLayer),
	}
}

var _ mapping.FusionEngine = (*Engine)(nil)
var _ mapping.SubmapCollection = (*Engine)(nil)

// CreateSubmap allocates a new submap with the given base pose and makes
// it active.
func (e *Engine) CreateSubmap(basePose mapping.Pose) mapping.SubmapID {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.submaps[id] = &mapping.Submap{
		ID:       id,
		BasePose: basePose,
		State:    mapping.SubmapActive,
	}
	e.layers[id] = mapping.NewVolumetricLayer(e.config.VoxelSize, e.config.VoxelsPerSide)
	e.activeID = id
	e.hasActive = true
	return id
}

// SwitchActiveSubmap re-targets the integrator at the active submap's layer.
func (e *Engine) SwitchActiveSubmap() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hasActive {
		e.target = e.layers[e.activeID]
	}
}

// Integrate fuses one posed frame into the integration target.
func (e *Engine) Integrate(pose mapping.Pose, points []mapping.Point3, colors []mapping.Color) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.target == nil {
		return fmt.Errorf("no integration target: create a submap first")
	}
	if len(colors) > 0 && len(colors) != len(points) {
		return fmt.Errorf("color count %d does not match point count %d", len(colors), len(points))
	}

	for i, pt := range points {
		g := pose.Apply(pt)
		var c mapping.Color
		if len(colors) > 0 {
			c = colors[i]
		}
		e.insertPoint(e.target, g, c)
	}
	return nil
}

// insertPoint blends a single global-frame point into the layer.
func (e *Engine) insertPoint(layer *mapping.VolumetricLayer, pt mapping.Point3, c mapping.Color) {
	blockEdge := layer.VoxelSize * float64(layer.VoxelsPerSide)
	bi := mapping.BlockIndex{
		X: int32(math.Floor(pt.X / blockEdge)),
		Y: int32(math.Floor(pt.Y / blockEdge)),
		Z: int32(math.Floor(pt.Z / blockEdge)),
	}
	block := layer.Block(bi)

	vx := voxelCoord(pt.X, blockEdge, layer.VoxelSize, layer.VoxelsPerSide)
	vy := voxelCoord(pt.Y, blockEdge, layer.VoxelSize, layer.VoxelsPerSide)
	vz := voxelCoord(pt.Z, blockEdge, layer.VoxelSize, layer.VoxelsPerSide)
	idx := (vz*layer.VoxelsPerSide+vy)*layer.VoxelsPerSide + vx

	w := float64(block.Weights[idx])
	newW := w + 1
	if newW > e.config.MaxWeight {
		newW = e.config.MaxWeight
	}

	// Distance stores the point's offset from its voxel center along Z,
	// weight-blended. A crude surface estimate, sufficient for exchange
	// and diagnostics.
	center := (math.Floor(pt.Z/layer.VoxelSize) + 0.5) * layer.VoxelSize
	d := pt.Z - center
	block.Distances[idx] = float32((float64(block.Distances[idx])*w + d) / newW)
	// Blocks received from a colorless peer carry no color storage;
	// allocate it on first local integration.
	if block.Colors == nil {
		block.Colors = make([]mapping.Color, len(block.Weights))
	}
	block.Colors[idx] = blendColor(block.Colors[idx], c, w, newW)
	block.Weights[idx] = float32(newW)
}

// voxelCoord maps a coordinate to its voxel offset within its block.
func voxelCoord(v, blockEdge, voxelSize float64, voxelsPerSide int) int {
	local := v - math.Floor(v/blockEdge)*blockEdge
	i := int(local / voxelSize)
	if i >= voxelsPerSide {
		i = voxelsPerSide - 1
	}
	return i
}

func blendColor(old, add mapping.Color, oldW, newW float64) mapping.Color {
	blend := func(a, b uint8) uint8 {
		return uint8((float64(a)*oldW + float64(b)) / newW)
	}
	return mapping.Color{
		R: blend(old.R, add.R),
		G: blend(old.G, add.G),
		B: blend(old.B, add.B),
	}
}

// ActiveSubmapID returns the active submap id.
func (e *Engine) ActiveSubmapID() (mapping.SubmapID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeID, e.hasActive
}

// Exists reports whether a submap with the given id exists.
func (e *Engine) Exists(id mapping.SubmapID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.submaps[id]
	return ok
}

// Submap returns the submap record for id.
func (e *Engine) Submap(id mapping.SubmapID) (*mapping.Submap, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.submaps[id]
	return s, ok
}

// Layer returns the volumetric layer for id.
func (e *Engine) Layer(id mapping.SubmapID) (*mapping.VolumetricLayer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.layers[id]
	return l, ok
}

// Put inserts or overwrites a submap and its layer. Last write wins.
func (e *Engine) Put(submap *mapping.Submap, layer *mapping.VolumetricLayer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.submaps[submap.ID] = submap
	e.layers[submap.ID] = layer
	if submap.ID >= e.nextID {
		e.nextID = submap.ID + 1
	}
	// Re-point the integrator if the active submap's layer was replaced.
	if e.hasActive && submap.ID == e.activeID {
		e.target = layer
	}
}

// IDs returns all submap ids in ascending order.
func (e *Engine) IDs() []mapping.SubmapID {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]mapping.SubmapID, 0, len(e.submaps))
	for id := range e.submaps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Size returns the number of submaps.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.submaps)
}

// MergedGlobalLayer flattens all submap layers into one. Overlapping
// voxels merge by weight: distances and colors blend proportionally,
// weights add up to the saturation limit.
func (e *Engine) MergedGlobalLayer() *mapping.VolumetricLayer {
	e.mu.Lock()
	defer e.mu.Unlock()

	merged := mapping.NewVolumetricLayer(e.config.VoxelSize, e.config.VoxelsPerSide)
	for _, layer := range e.layers {
		mergeLayer(merged, layer, e.config.MaxWeight)
	}
	return merged
}

func mergeLayer(dst, src *mapping.VolumetricLayer, maxWeight float64) {
	for bi, sb := range src.Blocks {
		db := dst.Block(bi)
		for i := range sb.Weights {
			sw := float64(sb.Weights[i])
			if sw == 0 {
				continue
			}
			dw := float64(db.Weights[i])
			total := dw + sw
			db.Distances[i] = float32((float64(db.Distances[i])*dw + float64(sb.Distances[i])*sw) / total)
			// A colorless source block contributes no color; the
			// destination keeps what it has.
			if sb.Colors != nil {
				db.Colors[i] = mapping.Color{
					R: uint8((float64(db.Colors[i].R)*dw + float64(sb.Colors[i].R)*sw) / total),
					G: uint8((float64(db.Colors[i].G)*dw + float64(sb.Colors[i].G)*sw) / total),
					B: uint8((float64(db.Colors[i].B)*dw + float64(sb.Colors[i].B)*sw) / total),
				}
			}
			if total > maxWeight {
				total = maxWeight
			}
			db.Weights[i] = float32(total)
		}
	}
}
