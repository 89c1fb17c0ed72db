package adapters

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"packsmith/internal/shared"
	"packsmith/internal/types"
)

// archiveEpoch is stamped on every written entry so identical file sets
// encode to identical bytes.
var archiveEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

type ZipArchiveAdapter struct {
	Workers int
}

func NewZipArchiveAdapter(workers int) ZipArchiveAdapter {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return ZipArchiveAdapter{Workers: workers}
}

// Decode inflates every file entry in parallel. Any failing entry aborts the
// whole decode.
func (a ZipArchiveAdapter) Decode(ctx context.Context, data []byte) (map[string][]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, types.MalformedArchiveError(err)
	}
	var (
		mu    sync.Mutex
		files = make(map[string][]byte, len(reader.File))
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.workers())
	for _, file := range reader.File {
		if file.FileInfo().IsDir() || strings.HasSuffix(file.Name, "/") {
			continue
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			content, err := readZipEntry(file)
			if err != nil {
				return types.MalformedArchiveError(err)
			}
			mu.Lock()
			files[file.Name] = content
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	log.Debug().Int("files", len(files)).Msg("archive decoded")
	return files, nil
}

// Encode writes the file set in lexical path order.
func (a ZipArchiveAdapter) Encode(ctx context.Context, files map[string][]byte) ([]byte, error) {
	paths := shared.SortedKeys(files)

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := writer.CreateHeader(&zip.FileHeader{
			Name:     path,
			Method:   zip.Deflate,
			Modified: archiveEpoch,
		})
		if err != nil {
			return nil, archiveWriteError(path, err)
		}
		if _, err := entry.Write(files[path]); err != nil {
			return nil, archiveWriteError(path, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, archiveWriteError("", err)
	}
	log.Debug().Int("files", len(paths)).Int("bytes", buf.Len()).Msg("archive encoded")
	return buf.Bytes(), nil
}

func (a ZipArchiveAdapter) workers() int {
	if a.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return a.Workers
}

func readZipEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func archiveWriteError(path string, err error) error {
	msg := "failed to write archive"
	if path != "" {
		msg += " entry " + path
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(msg).
		WithCause(err)
}
