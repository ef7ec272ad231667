package bind_group_provider

// BufferWrite describes a single GPU buffer write operation targeting a specific
// binding on a BindGroupProvider at a given byte offset. Writes are batched per
// frame and flushed by the Renderer before draw calls are recorded.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
