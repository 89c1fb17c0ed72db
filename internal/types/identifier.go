package types

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// DefaultNamespace is assumed when an identifier string carries no namespace.
const DefaultNamespace = "minecraft"

// Identifier addresses one element within a registry.
type Identifier struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Resource  string `json:"resource" yaml:"resource"`
}

// ParseIdentifier parses "namespace:resource". A bare resource gets the
// default namespace.
func ParseIdentifier(value string) (Identifier, error) {
	trimmed := strings.TrimSpace(value)
	namespace, resource, found := strings.Cut(trimmed, ":")
	if !found {
		namespace, resource = DefaultNamespace, trimmed
	}
	id := Identifier{Namespace: namespace, Resource: resource}
	if err := id.Validate(); err != nil {
		return Identifier{}, err
	}
	return id, nil
}

func (id Identifier) String() string {
	return id.Namespace + ":" + id.Resource
}

func (id Identifier) Validate() error {
	if strings.TrimSpace(id.Namespace) == "" {
		return ValidationError(fmt.Sprintf("identifier %q has empty namespace", id.String()))
	}
	if strings.TrimSpace(id.Resource) == "" {
		return ValidationError(fmt.Sprintf("identifier %q has empty resource", id.String()))
	}
	return nil
}

// Less orders identifiers by namespace, then resource.
func (id Identifier) Less(other Identifier) bool {
	if id.Namespace != other.Namespace {
		return id.Namespace < other.Namespace
	}
	return id.Resource < other.Resource
}

// MustIdentifier is a test and fixture helper; it panics on invalid input.
func MustIdentifier(value string) Identifier {
	id, err := ParseIdentifier(value)
	if err != nil {
		panic(errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("invalid identifier literal").
			WithCause(err))
	}
	return id
}
