package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packsmith/internal/types"
)

const yamlRules = `version: "1"
pack_format: 41
rules:
  - name: buff-swords
    registry: item
    path_prefix: swords/
    condition:
      type: all_of
      terms:
        - type: equals_undefined
          field: disabled
        - type: contains
          field: tags
          values: [melee]
    locks:
      - condition:
          type: equals_string
          field: rarity
          value: epic
        text: hand tuned
    actions:
      - type: set_value
        field: damage
        value: 8
      - type: set_value
        field: label
        token: filename
  - name: archive-shields
    registry: item
    path_prefix: shields/
    rename:
      namespace:
        value: archive
`

const tomlRules = `version = "1"

[[rules]]
name = "slots"
registry = "enchantment"

[rules.for_each]
values = ["head", "feet"]

[[rules.actions]]
type = "toggle_value"
field = "slots"
token = "slot"
`

const jsonRules = `{
  "version": "1",
  "rules": [
    {"name": "drop", "registry": "item", "path_prefix": "legacy/", "delete": true}
  ]
}`

const cueRules = `version: "1"
rules: [{
	name:     "levels"
	registry: "enchantment"
	for_each: field: "effects"
	actions: [{type: "set_value", field: "last_effect", token: "key"}]
}]
`

func TestParseRulesYAML(t *testing.T) {
	set, err := NewRuleFileAdapter().ParseRules([]byte(yamlRules), RuleFormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "1", set.Version)
	assert.Equal(t, 41, set.PackFormat)
	require.Len(t, set.Rules, 2)

	buff := set.Rules[0]
	assert.Equal(t, "swords/", buff.PathPrefix)
	require.NotNil(t, buff.Condition)
	assert.Equal(t, types.ConditionAllOf, buff.Condition.Kind)
	require.Len(t, buff.Condition.Terms, 2)
	assert.Equal(t, []any{"melee"}, buff.Condition.Terms[1].Values)
	require.Len(t, buff.Locks, 1)
	assert.Equal(t, "hand tuned", buff.Locks[0].Text)
	require.Len(t, buff.Actions, 2)
	assert.Equal(t, 8.0, buff.Actions[0].Value.LiteralValue())
	assert.Equal(t, "filename", buff.Actions[1].Value.TokenKey())

	shields := set.Rules[1]
	require.NotNil(t, shields.Rename)
	require.NotNil(t, shields.Rename.Namespace)
	assert.Equal(t, "archive", shields.Rename.Namespace.LiteralValue())
	assert.Nil(t, shields.Rename.Resource)
}

func TestParseRulesKeepsLargeIntegers(t *testing.T) {
	doc := `version: "1"
rules:
  - name: reseed
    registry: worldgen/noise_settings
    condition:
      type: equals_field_value
      field: seed
      value: 1234567890123456789
    actions:
      - type: set_value
        field: seed
        value: 1234567890123456788
`
	set, err := NewRuleFileAdapter().ParseRules([]byte(doc), RuleFormatYAML)
	require.NoError(t, err)
	rule := set.Rules[0]
	assert.Equal(t, json.Number("1234567890123456789"), rule.Condition.Value)
	assert.Equal(t, json.Number("1234567890123456788"), rule.Actions[0].Value.LiteralValue())
}

func TestParseRulesTOML(t *testing.T) {
	set, err := NewRuleFileAdapter().ParseRules([]byte(tomlRules), RuleFormatTOML)
	require.NoError(t, err)
	require.Len(t, set.Rules, 1)
	rule := set.Rules[0]
	require.NotNil(t, rule.ForEach)
	assert.Equal(t, []any{"head", "feet"}, rule.ForEach.Values)
	assert.Equal(t, types.ActionToggleValue, rule.Actions[0].Kind)
	assert.True(t, rule.Actions[0].Value.IsToken())
}

func TestParseRulesJSON(t *testing.T) {
	set, err := NewRuleFileAdapter().ParseRules([]byte(jsonRules), RuleFormatJSON)
	require.NoError(t, err)
	require.Len(t, set.Rules, 1)
	assert.True(t, set.Rules[0].Delete)
	assert.Zero(t, set.PackFormat)
}

func TestParseRulesCUE(t *testing.T) {
	set, err := NewRuleFileAdapter().ParseRules([]byte(cueRules), RuleFormatCUE)
	require.NoError(t, err)
	require.Len(t, set.Rules, 1)
	require.NotNil(t, set.Rules[0].ForEach)
	assert.Equal(t, "effects", set.Rules[0].ForEach.Field)
}

func TestParseRulesRejectsSchemaViolations(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{name: "unknown field", doc: "version: \"1\"\nrules:\n  - name: a\n    registry: item\n    delete: true\n    colour: red\n"},
		{name: "wrong type", doc: "version: \"1\"\nrules:\n  - name: a\n    registry: item\n    delete: \"yes\"\n"},
		{name: "unknown action", doc: "version: \"1\"\nrules:\n  - name: a\n    registry: item\n    actions:\n      - type: explode\n        field: x\n"},
		{name: "missing version", doc: "rules: []\n"},
		{name: "empty document", doc: ""},
		{name: "value and token", doc: "version: \"1\"\nrules:\n  - name: a\n    registry: item\n    actions:\n      - type: set_value\n        field: x\n        value: 1\n        token: y\n"},
		{name: "duplicate names", doc: "version: \"1\"\nrules:\n  - name: a\n    registry: item\n    delete: true\n  - name: a\n    registry: item\n    delete: true\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRuleFileAdapter().ParseRules([]byte(tc.doc), RuleFormatYAML)
			require.Error(t, err)
			assert.True(t, types.IsValidation(err), "got %v", err)
		})
	}
}

func TestParseRulesRejectsSyntaxErrors(t *testing.T) {
	_, err := NewRuleFileAdapter().ParseRules([]byte("version: [unclosed"), RuleFormatYAML)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = NewRuleFileAdapter().ParseRules([]byte(`{"version": }`), RuleFormatJSON)
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestRuleFormatFor(t *testing.T) {
	cases := map[string]string{
		"rules.yaml": RuleFormatYAML,
		"rules.YML":  RuleFormatYAML,
		"rules.toml": RuleFormatTOML,
		"rules.json": RuleFormatJSON,
		"rules.cue":  RuleFormatCUE,
	}
	for path, want := range cases {
		got, err := RuleFormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := RuleFormatFor("rules.ini")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlRules), 0644))

	set, err := NewRuleFileAdapter().LoadRules(path)
	require.NoError(t, err)
	assert.Len(t, set.Rules, 2)

	_, err = NewRuleFileAdapter().LoadRules(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
