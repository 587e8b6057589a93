// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Kind identifies a schema node type.
type Kind string

// Schema node kinds understood by every provider.
const (
	KindObject Kind = "object"
	KindArray  Kind = "array"
	KindString Kind = "string"
	KindEnum   Kind = "enum"
)

// Schema is a declarative description of the JSON shape a provider must
// produce. It is plain data: providers translate it into their own dialect
// and callers use it to validate decoded responses locally.
type Schema struct {
	Kind        Kind
	Description string
	Fields      []*SchemaField // KindObject, in declaration order
	Items       *Schema        // KindArray
	Values      []string       // KindEnum
}

// SchemaField is a named property of an object schema.
type SchemaField struct {
	Name     string
	Schema   *Schema
	required bool
}

// Object builds an object schema from its fields.
func Object(fields ...*SchemaField) *Schema {
	return &Schema{Kind: KindObject, Fields: fields}
}

// Array builds an array schema with a single item schema.
func Array(items *Schema) *Schema {
	return &Schema{Kind: KindArray, Items: items}
}

// String builds a string schema.
func String() *Schema {
	return &Schema{Kind: KindString}
}

// Enum builds a string schema restricted to a fixed set of values.
func Enum(values ...string) *Schema {
	return &Schema{Kind: KindEnum, Values: values}
}

// Describe sets the node description and returns the schema for chaining.
func (s *Schema) Describe(text string) *Schema {
	s.Description = text
	return s
}

// Field declares an optional object property.
func Field(name string, s *Schema) *SchemaField {
	return &SchemaField{Name: name, Schema: s}
}

// Required marks the field as required.
func (f *SchemaField) Required() *SchemaField {
	f.required = true
	return f
}

// IsRequired reports whether the field is marked required.
func (f *SchemaField) IsRequired() bool { return f.required }

// RequiredNames returns the names of the required fields of an object schema.
func (s *Schema) RequiredNames() []string {
	var names []string
	for _, f := range s.Fields {
		if f.required {
			names = append(names, f.Name)
		}
	}
	return names
}

// JSONSchema converts the schema into a standard JSON Schema document.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	if s == nil {
		return nil
	}

	out := &jsonschema.Schema{Description: s.Description}
	switch s.Kind {
	case KindObject:
		out.Type = "object"
		out.Properties = make(map[string]*jsonschema.Schema, len(s.Fields))
		for _, f := range s.Fields {
			out.Properties[f.Name] = f.Schema.JSONSchema()
		}
		out.Required = s.RequiredNames()
	case KindArray:
		out.Type = "array"
		out.Items = s.Items.JSONSchema()
	case KindEnum:
		out.Type = "string"
		for _, v := range s.Values {
			out.Enum = append(out.Enum, v)
		}
	default:
		out.Type = "string"
	}
	return out
}

// MarshalJSON renders the schema as standard JSON Schema. This lets a
// *Schema be handed to SDKs that accept a json.Marshaler.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.JSONSchema())
}

// Validate checks a decoded JSON value (as produced by json.Unmarshal into
// an any) against the schema.
func (s *Schema) Validate(instance any) error {
	resolved, err := s.JSONSchema().Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return fmt.Errorf("schema resolve: %w", err)
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	return nil
}

// ValidateJSON decodes raw JSON text and validates it against the schema.
func (s *Schema) ValidateJSON(text string) error {
	var instance any
	if err := json.Unmarshal([]byte(text), &instance); err != nil {
		return fmt.Errorf("schema decode: %w", err)
	}
	return s.Validate(instance)
}
