package mapping

// BlockIndex addresses a voxel block within a layer's block grid.
type BlockIndex struct {
	X, Y, Z int32
}

// VoxelBlock holds the per-voxel data of one block: VoxelsPerSide³ voxels
// in linear order. A voxel with zero weight has never been observed.
type VoxelBlock struct {
	Distances []float32
	Weights   []float32
	Colors    []Color
}

// VolumetricLayer is the voxel-block representation of one submap's fused
// geometry. Blocks are allocated lazily as points are integrated.
//
// The layer's internal update rules belong to the fusion engine; the
// exchange codec only reads and writes this structure.
type VolumetricLayer struct {
	VoxelSize     float64 // voxel edge length in meters
	VoxelsPerSide int     // voxels per block edge
	Blocks        map[BlockIndex]*VoxelBlock
}

// NewVolumetricLayer creates an empty layer with the given geometry.
func NewVolumetricLayer(voxelSize float64, voxelsPerSide int) *VolumetricLayer {
	return &VolumetricLayer{
		VoxelSize:     voxelSize,
		VoxelsPerSide: voxelsPerSide,
		Blocks:        make(map[BlockIndex]*VoxelBlock),
	}
}

// VoxelsPerBlock returns the number of voxels in one block.
func (l *VolumetricLayer) VoxelsPerBlock() int {
	return l.VoxelsPerSide * l.VoxelsPerSide * l.VoxelsPerSide
}

// BlockCount returns the number of allocated blocks.
func (l *VolumetricLayer) BlockCount() int {
	if l == nil {
		return 0
	}
	return len(l.Blocks)
}

// ObservedVoxelCount returns the number of voxels with nonzero weight.
func (l *VolumetricLayer) ObservedVoxelCount() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, b := range l.Blocks {
		for _, w := range b.Weights {
			if w > 0 {
				n++
			}
		}
	}
	return n
}

// Block returns the block at idx, allocating it if absent.
func (l *VolumetricLayer) Block(idx BlockIndex) *VoxelBlock {
	b, ok := l.Blocks[idx]
	if !ok {
		n := l.VoxelsPerBlock()
		b = &VoxelBlock{
			Distances: make([]float32, n),
			Weights:   make([]float32, n),
			Colors:    make([]Color, n),
		}
		l.Blocks[idx] = b
	}
	return b
}
