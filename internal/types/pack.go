package types

import (
	"encoding/json"
	"fmt"
)

// PackMetaPath is the archive path of the pack descriptor.
const PackMetaPath = "pack.mcmeta"

// PackMeta is the decoded pack.mcmeta descriptor.
type PackMeta struct {
	Pack struct {
		PackFormat  int `json:"pack_format"`
		Description any `json:"description,omitempty"`
	} `json:"pack"`
}

// TagFile is the content of a resource under tags/<registry>/.
type TagFile struct {
	Replace bool       `json:"replace,omitempty"`
	Values  []TagValue `json:"values"`
}

// TagValue is a tag member: a plain identifier string, or an object with an
// id and a required flag.
type TagValue struct {
	ID       string
	Required bool
	// Object records whether the value was written in object form.
	Object bool
}

func (v TagValue) MarshalJSON() ([]byte, error) {
	if !v.Object {
		return json.Marshal(v.ID)
	}
	return json.Marshal(struct {
		ID       string `json:"id"`
		Required bool   `json:"required"`
	}{ID: v.ID, Required: v.Required})
}

func (v *TagValue) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*v = TagValue{ID: plain, Required: true}
		return nil
	}
	var object struct {
		ID       string `json:"id"`
		Required *bool  `json:"required"`
	}
	if err := json.Unmarshal(data, &object); err != nil {
		return ValidationError(fmt.Sprintf("tag value must be a string or {id, required}: %s", string(data)))
	}
	if object.ID == "" {
		return ValidationError("tag value object requires id")
	}
	required := true
	if object.Required != nil {
		required = *object.Required
	}
	*v = TagValue{ID: object.ID, Required: required, Object: true}
	return nil
}

// Has reports whether the tag lists id, either directly or as an object.
func (t TagFile) Has(id string) bool {
	for _, value := range t.Values {
		if value.ID == id {
			return true
		}
	}
	return false
}
