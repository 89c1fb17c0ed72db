package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"packsmith/internal/core"
	"packsmith/internal/types"
)

// Open reads and decodes a pack. Decoded file sets are cached by content
// digest, so reopening an unchanged archive skips decompression.
func (s Service) Open(ctx context.Context, req OpenRequest) (OpenResult, error) {
	packPath := strings.TrimSpace(req.PackPath)
	if packPath == "" {
		return OpenResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("pack path is required")
	}
	data, err := s.Packs.ReadPack(packPath)
	if err != nil {
		return OpenResult{}, err
	}
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	if s.Sessions != nil {
		if session, ok := s.Sessions.Get(digest); ok {
			return OpenResult{Session: session, Index: core.ParseFiles(ctx, session.Files), Cached: true}, nil
		}
	}

	files, err := s.Archive.Decode(ctx, data)
	if err != nil {
		return OpenResult{}, err
	}
	meta, _ := core.ParsePackMeta(files)
	session := types.Session{
		ID:       s.NewID(),
		Digest:   digest,
		Files:    files,
		Meta:     meta,
		OpenedAt: s.Clock().UTC(),
	}
	if s.Sessions != nil {
		s.Sessions.Put(digest, session)
	}
	index := core.ParseFiles(ctx, files)
	log.Ctx(ctx).Debug().
		Str("session", session.ID).
		Str("pack", packPath).
		Int("files", len(files)).
		Msg("pack opened")
	return OpenResult{Session: session, Index: index}, nil
}
