package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

type PackFileAdapter struct{}

func NewPackFileAdapter() PackFileAdapter {
	return PackFileAdapter{}
}

func (a PackFileAdapter) ReadPack(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("pack path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("pack file not found").
			WithCause(err)
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("pack read")
	return data, nil
}

// WritePack writes through a temporary file in the target directory so a
// failed write never leaves a truncated archive behind.
func (a PackFileAdapter) WritePack(path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is required")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	tmp, err := os.CreateTemp(dir, ".packsmith-*.zip")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create temporary pack").
			WithCause(err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write pack").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write pack").
			WithCause(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to move pack into place").
			WithCause(err)
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("pack written")
	return nil
}
