package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"packsmith/internal/ports"
	"packsmith/internal/shared"
	"packsmith/internal/types"
)

type Parser struct {
	Archive ports.ArchivePort
}

func NewParser(archive ports.ArchivePort) Parser {
	return Parser{Archive: archive}
}

// Parse decodes an archive and indexes its resources. Only an undecodable
// container is an error.
func (p Parser) Parse(ctx context.Context, data []byte) (*RegistryIndex, error) {
	if p.Archive == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("parser requires an archive port")
	}
	files, err := p.Archive.Decode(ctx, data)
	if err != nil {
		return nil, err
	}
	return ParseFiles(ctx, files), nil
}

// ParseFiles indexes an already decoded file set. Paths outside the
// data/<namespace>/<registry>/ layout and files whose JSON does not decode
// are skipped.
func ParseFiles(ctx context.Context, files map[string][]byte) *RegistryIndex {
	index := NewRegistryIndex()
	skipped := 0
	for path, content := range files {
		if strings.HasSuffix(path, "/") {
			continue
		}
		id, registry, err := ParsePath(path)
		if err != nil {
			skipped++
			log.Ctx(ctx).Debug().Str("path", path).Msg("skipping non-resource file")
			continue
		}
		element, err := DecodeElement(content)
		if err != nil {
			skipped++
			log.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping undecodable resource")
			continue
		}
		if strings.HasPrefix(registry, "tags/") {
			if _, err := DecodeTag(element); err != nil {
				skipped++
				log.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping malformed tag")
				continue
			}
		}
		index.Insert(types.RegistryEntry{Identifier: id, Registry: registry, Data: element})
	}
	log.Ctx(ctx).Debug().
		Int("entries", index.Len()).
		Int("skipped", skipped).
		Int("registries", len(index.Keys())).
		Msg("archive parsed")
	return index
}

// DecodeElement decodes one resource file. The top level must be an object.
// Numbers keep their full precision: integers a float64 cannot hold exactly
// stay json.Number so re-encoding writes the same digits.
func DecodeElement(content []byte) (types.Element, error) {
	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()
	var element types.Element
	if err := decoder.Decode(&element); err != nil {
		return nil, types.ValidationError("resource is not a JSON object: " + err.Error())
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, types.ValidationError("resource has trailing data after the top-level object")
	}
	if element == nil {
		return nil, types.ValidationError("resource is null")
	}
	normalized, _ := types.NormalizeValue(element).(map[string]any)
	return types.Element(normalized), nil
}

// EncodeElement renders an element the way the compiler writes it: indented,
// with keys in lexical order.
func EncodeElement(element types.Element) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(element); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode element").
			WithCause(err)
	}
	return buf.Bytes(), nil
}

// DecodeTag reads a tag element into its typed form.
func DecodeTag(element types.Element) (types.TagFile, error) {
	raw, err := json.Marshal(element)
	if err != nil {
		return types.TagFile{}, types.ValidationError("tag is not encodable: " + err.Error())
	}
	var tag types.TagFile
	if err := json.Unmarshal(raw, &tag); err != nil {
		return types.TagFile{}, types.ValidationError("tag does not match {replace?, values}: " + err.Error())
	}
	if _, ok := element["values"]; !ok {
		return types.TagFile{}, types.ValidationError("tag requires values")
	}
	return tag, nil
}

// ParsePackMeta reads pack.mcmeta from a decoded file set. ok is false when
// the descriptor is absent or unreadable.
func ParsePackMeta(files map[string][]byte) (types.PackMeta, bool) {
	content, found := files[types.PackMetaPath]
	if !found {
		return types.PackMeta{}, false
	}
	var meta types.PackMeta
	if err := json.Unmarshal(content, &meta); err != nil {
		return types.PackMeta{}, false
	}
	return meta, true
}

// SortedPaths returns the keys of a file set in lexical order.
func SortedPaths(files map[string][]byte) []string {
	return shared.SortedKeys(files)
}
