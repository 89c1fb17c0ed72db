package ports

import "context"

// ArchivePort converts between archive bytes and a path to content mapping.
// Directory entries are not part of the mapping.
type ArchivePort interface {
	Decode(ctx context.Context, data []byte) (map[string][]byte, error)
	Encode(ctx context.Context, files map[string][]byte) ([]byte, error)
}
