package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"packsmith/internal/types"
)

func TestResolveToken(t *testing.T) {
	file := types.FileContext(types.FileDescriptor{
		Filename:   "f.json",
		Resource:   "r",
		Namespace:  "n",
		Identifier: "n:r",
		Attributes: map[string]any{"registry": "item"},
	})
	object := types.ObjectContext(types.ObjectEntry{Key: "fire", Data: map[string]any{"level": 2.0, "key": "fire"}})

	tests := []struct {
		name  string
		value types.ActionValue
		ictx  *types.IterationContext
		want  Resolution
	}{
		{name: "file accessor", value: types.Token("filename"), ictx: file, want: Resolution{Value: "f.json", Resolved: true}},
		{name: "file identifier", value: types.Token("identifier"), ictx: file, want: Resolution{Value: "n:r", Resolved: true}},
		{name: "file attribute fallback", value: types.Token("registry"), ictx: file, want: Resolution{Value: "item", Resolved: true}},
		{name: "file miss", value: types.Token("color"), ictx: file, want: Resolution{Value: map[string]any{"token": "color"}}},
		{name: "loop scalar ignores key", value: types.Token("anything"), ictx: types.IterationValue(7), want: Resolution{Value: 7.0, Resolved: true}},
		{name: "object key", value: types.Token("level"), ictx: object, want: Resolution{Value: 2.0, Resolved: true}},
		{name: "object miss", value: types.Token("color"), ictx: object, want: Resolution{Value: map[string]any{"token": "color"}}},
		{name: "no context", value: types.Token("filename"), ictx: nil, want: Resolution{Value: map[string]any{"token": "filename"}}},
		{name: "literal passes through", value: types.Literal("x"), ictx: file, want: Resolution{Value: "x", Resolved: true}},
		{name: "literal without context", value: types.Literal(3), ictx: nil, want: Resolution{Value: 3.0, Resolved: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveToken(tt.value, tt.ictx)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected resolution (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveValueExamples(t *testing.T) {
	file := types.FileContext(types.FileDescriptor{Filename: "f.json", Resource: "r", Namespace: "n", Identifier: "n:r"})
	assert.Equal(t, "f.json", ResolveValue(types.Token("filename"), file))
	assert.Equal(t, 7.0, ResolveValue(types.Token("filename"), types.IterationValue(7)))
}

func TestIsFileAccessor(t *testing.T) {
	for _, key := range []string{"filename", "resource", "namespace", "identifier"} {
		assert.True(t, IsFileAccessor(key), key)
	}
	assert.False(t, IsFileAccessor("registry"))
}
