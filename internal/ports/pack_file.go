package ports

// PackFilePort reads and writes archive files on disk.
type PackFilePort interface {
	ReadPack(path string) ([]byte, error)
	WritePack(path string, data []byte) error
}
