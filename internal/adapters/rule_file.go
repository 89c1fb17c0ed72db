package adapters

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"packsmith/internal/types"
)

//go:embed rules_schema.cue
var rulesSchema []byte

const ruleSetDefinition = "#RuleSet"

const (
	RuleFormatYAML = "yaml"
	RuleFormatTOML = "toml"
	RuleFormatJSON = "json"
	RuleFormatCUE  = "cue"
)

type RuleFileAdapter struct{}

func NewRuleFileAdapter() RuleFileAdapter {
	return RuleFileAdapter{}
}

// RuleFormatFor maps a file extension to a rule document format.
func RuleFormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return RuleFormatYAML, nil
	case ".toml":
		return RuleFormatTOML, nil
	case ".json":
		return RuleFormatJSON, nil
	case ".cue":
		return RuleFormatCUE, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported rule file extension: %s", path))
	}
}

func (a RuleFileAdapter) LoadRules(path string) (types.RuleSet, error) {
	format, err := RuleFormatFor(path)
	if err != nil {
		return types.RuleSet{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RuleSet{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("rule file not found").
			WithCause(err)
	}
	set, err := a.parse(data, format, filepath.Base(path))
	if err != nil {
		return types.RuleSet{}, err
	}
	log.Debug().Str("path", path).Str("format", format).Int("rules", len(set.Rules)).Msg("rules loaded")
	return set, nil
}

// ParseRules validates a rule document against the embedded schema and
// builds the typed rule set.
func (a RuleFileAdapter) ParseRules(data []byte, format string) (types.RuleSet, error) {
	return a.parse(data, format, "<input>."+format)
}

func (a RuleFileAdapter) parse(data []byte, format string, filename string) (types.RuleSet, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(rulesSchema)
	if schema.Err() != nil {
		return types.RuleSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to compile rule schema").
			WithCause(schema.Err())
	}
	root := schema.LookupPath(cue.ParsePath(ruleSetDefinition))
	if root.Err() != nil {
		return types.RuleSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("rule schema definition not found").
			WithCause(root.Err())
	}

	document, err := compileDocument(ctx, data, format, filename)
	if err != nil {
		return types.RuleSet{}, err
	}
	unified := root.Unify(document)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return types.RuleSet{}, types.ValidationError(formatCUEError(err, filename))
	}

	raw, err := unified.MarshalJSON()
	if err != nil {
		return types.RuleSet{}, types.ValidationError(formatCUEError(err, filename))
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var doc types.RuleSetDocument
	if err := decoder.Decode(&doc); err != nil {
		return types.RuleSet{}, types.ValidationError(fmt.Sprintf("%s: %v", filename, err))
	}
	return doc.Build()
}

// compileDocument turns any supported rule format into a CUE value. JSON is
// valid CUE; YAML and TOML are decoded to generic values first.
func compileDocument(ctx *cue.Context, data []byte, format string, filename string) (cue.Value, error) {
	var generic any
	switch format {
	case RuleFormatJSON, RuleFormatCUE:
		value := ctx.CompileBytes(data, cue.Filename(filename))
		if value.Err() != nil {
			return cue.Value{}, types.ValidationError(formatCUEError(value.Err(), filename))
		}
		return value, nil
	case RuleFormatYAML:
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return cue.Value{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to parse rules yaml").
				WithCause(err)
		}
	case RuleFormatTOML:
		if err := toml.Unmarshal(data, &generic); err != nil {
			return cue.Value{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to parse rules toml").
				WithCause(err)
		}
	default:
		return cue.Value{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported rule format: %s", format))
	}
	if generic == nil {
		return cue.Value{}, types.ValidationError(filename + ": rule document is empty")
	}
	value := ctx.Encode(generic)
	if value.Err() != nil {
		return cue.Value{}, types.ValidationError(formatCUEError(value.Err(), filename))
	}
	return value, nil
}

// formatCUEError renders CUE errors as "<file>: <path>: <message>" lines.
func formatCUEError(err error, filename string) string {
	var lines []string
	for _, e := range cueerrors.Errors(err) {
		path := formatCUEPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		if path != "" {
			lines = append(lines, path+": "+msg)
		} else {
			lines = append(lines, msg)
		}
	}
	if len(lines) == 0 {
		return filename + ": " + err.Error()
	}
	return filename + ": " + strings.Join(lines, "; ")
}

func formatCUEPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if _, err := strconv.Atoi(part); err == nil && i > 0 {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}
