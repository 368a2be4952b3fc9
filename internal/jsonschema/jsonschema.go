package jsonschema

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
)

// Schema is the subset of JSON Schema used to describe tool arguments.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	// AdditionalProperties is a *Schema for maps, false for closed objects.
	AdditionalProperties any   `json:"additionalProperties,omitempty"`
	Default              any   `json:"default,omitempty"`
	Enum                 []any `json:"enum,omitempty"`
}

// Generate builds the schema of T. Struct fields are named after their json
// tag and configured through the jsonschema tag:
//
//	jsonschema:"description=City name (e.g. \"London\", \"Istanbul\"),required"
//	jsonschema:"description=Base currency,default=USD"
//	jsonschema:"enum=metric,enum=imperial"
//
// Commas inside a description are allowed; a new key starts only at
// "description=", "enum=", "default=" or "required". A field is required when
// it is tagged required, or when it is neither a pointer, omitempty nor given
// a default.
func Generate[T any]() *Schema {
	return generate(reflect.TypeFor[T](), map[reflect.Type]bool{})
}

func generate(t reflect.Type, inProgress map[reflect.Type]bool) *Schema {
	switch t.Kind() {
	case reflect.Ptr:
		return generate(t.Elem(), inProgress)
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: generate(t.Elem(), inProgress)}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: generate(t.Elem(), inProgress)}
	case reflect.Struct:
		if inProgress[t] {
			// Recursive types are described loosely instead of via $ref.
			return &Schema{Type: "object"}
		}
		inProgress[t] = true
		defer delete(inProgress, t)
		return generateStruct(t, inProgress)
	default:
		return &Schema{Type: "object"}
	}
}

func generateStruct(t reflect.Type, inProgress map[reflect.Type]bool) *Schema {
	schema := &Schema{
		Type:       "object",
		Properties: map[string]*Schema{},
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		fieldSchema := generate(field.Type, inProgress)
		tag, err := parseTag(field.Type, field.Tag.Get("jsonschema"))
		if err != nil {
			slog.Error("invalid jsonschema tag", "type", t.Name(), "field", name, "error", err)
		}
		fieldSchema.Description = tag.description
		fieldSchema.Enum = tag.enum
		fieldSchema.Default = tag.defaultValue
		schema.Properties[name] = fieldSchema

		implicitlyRequired := field.Type.Kind() != reflect.Ptr && !omitEmpty && tag.defaultValue == nil
		if tag.required || implicitlyRequired {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}

func jsonFieldName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "-" {
		return "", false, true
	}
	name = field.Name
	parts := strings.Split(jsonTag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

type fieldTag struct {
	description  string
	enum         []any
	defaultValue any
	required     bool
}

func parseTag(fieldType reflect.Type, raw string) (fieldTag, error) {
	var tag fieldTag
	for _, item := range splitTag(raw) {
		key, value, hasValue := strings.Cut(item, "=")
		switch {
		case key == "required" && !hasValue:
			tag.required = true
		case key == "description":
			tag.description = value
		case key == "enum":
			v, err := convertValue(fieldType, value)
			if err != nil {
				return tag, fmt.Errorf("enum %q: %w", value, err)
			}
			tag.enum = append(tag.enum, v)
		case key == "default":
			v, err := convertValue(fieldType, value)
			if err != nil {
				return tag, fmt.Errorf("default %q: %w", value, err)
			}
			tag.defaultValue = v
		}
	}
	return tag, nil
}

// splitTag splits on commas that start a known key, so descriptions may
// contain commas.
func splitTag(raw string) []string {
	if raw == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if len(items) > 0 && !startsKey(part) {
			items[len(items)-1] += "," + part
			continue
		}
		items = append(items, part)
	}
	return items
}

func startsKey(part string) bool {
	if part == "required" {
		return true
	}
	for _, prefix := range []string{"description=", "enum=", "default="} {
		if strings.HasPrefix(part, prefix) {
			return true
		}
	}
	return false
}

func convertValue(fieldType reflect.Type, value string) (any, error) {
	for fieldType.Kind() == reflect.Ptr {
		fieldType = fieldType.Elem()
	}
	switch fieldType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseInt(value, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(value, 64)
	case reflect.Bool:
		return strconv.ParseBool(value)
	default:
		return nil, fmt.Errorf("unsupported field type %v", fieldType)
	}
}
