package model

// MemoryID is the storage-assigned integer identity of a memory.
// IDs are monotonically increasing within one database file and never reused.
type MemoryID int64

// Memory is one stored note as returned by fetch_memories.
type Memory struct {
	ID        MemoryID `json:"id"`
	CreatedAt string   `json:"created_at"`
	Title     *string  `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Source    *string  `json:"source"`
}

// SavedMemory is the save_memory response shape. CreatedAt is intentionally
// absent here: the tool contract returns it from fetch only.
type SavedMemory struct {
	ID      MemoryID `json:"id"`
	Title   *string  `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Source  *string  `json:"source"`
}

// Embedding is the vector stored for a memory. At most one exists per memory,
// written once at save time and never updated.
type Embedding struct {
	MemoryID MemoryID
	Model    string
	Vector   []float64
}
