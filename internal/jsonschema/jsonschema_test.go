package jsonschema

import (
	"encoding/json"
	"reflect"
	"testing"
)

type cityInput struct {
	City string `json:"city" jsonschema:"description=City name (e.g., \"Istanbul\", \"London\"),required"`
}

type currencyInput struct {
	Base string `json:"base,omitempty" jsonschema:"description=Base currency (default: USD),default=USD"`
}

type mixedInput struct {
	Count    int               `json:"count" jsonschema:"description=How many"`
	Ratio    float64           `json:"ratio,omitempty"`
	Enabled  *bool             `json:"enabled"`
	Tags     []string          `json:"tags,omitempty"`
	Labels   map[string]string `json:"labels,omitempty"`
	Unit     string            `json:"unit,omitempty" jsonschema:"enum=metric,enum=imperial"`
	Ignored  string            `json:"-"`
	internal string
}

type node struct {
	Name     string `json:"name"`
	Children []node `json:"children,omitempty"`
}

func TestGenerate_RequiredStringWithCommaDescription(t *testing.T) {
	schema := Generate[cityInput]()

	if schema.Type != "object" {
		t.Fatalf("Type = %q, want object", schema.Type)
	}
	city := schema.Properties["city"]
	if city == nil || city.Type != "string" {
		t.Fatalf("city property = %+v", city)
	}
	want := `City name (e.g., "Istanbul", "London")`
	if city.Description != want {
		t.Errorf("Description = %q, want %q", city.Description, want)
	}
	if !reflect.DeepEqual(schema.Required, []string{"city"}) {
		t.Errorf("Required = %v", schema.Required)
	}
}

func TestGenerate_DefaultMakesFieldOptional(t *testing.T) {
	schema := Generate[currencyInput]()

	base := schema.Properties["base"]
	if base.Default != "USD" {
		t.Errorf("Default = %v, want USD", base.Default)
	}
	if len(schema.Required) != 0 {
		t.Errorf("Required = %v, want none", schema.Required)
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"object","properties":{"base":{"type":"string","description":"Base currency (default: USD)","default":"USD"}}}`
	if string(raw) != want {
		t.Errorf("json = %s\nwant  %s", raw, want)
	}
}

func TestGenerate_MixedFields(t *testing.T) {
	schema := Generate[mixedInput]()

	tests := map[string]string{
		"count":   "integer",
		"ratio":   "number",
		"enabled": "boolean",
		"tags":    "array",
		"labels":  "object",
		"unit":    "string",
	}
	for name, typ := range tests {
		prop, ok := schema.Properties[name]
		if !ok {
			t.Errorf("missing property %q", name)
			continue
		}
		if prop.Type != typ {
			t.Errorf("%s type = %q, want %q", name, prop.Type, typ)
		}
	}
	if _, ok := schema.Properties["Ignored"]; ok {
		t.Error("json:\"-\" field must be skipped")
	}
	if _, ok := schema.Properties["internal"]; ok {
		t.Error("unexported field must be skipped")
	}
	if schema.Properties["tags"].Items.Type != "string" {
		t.Errorf("tags items = %+v", schema.Properties["tags"].Items)
	}
	if !reflect.DeepEqual(schema.Properties["unit"].Enum, []any{"metric", "imperial"}) {
		t.Errorf("unit enum = %v", schema.Properties["unit"].Enum)
	}
	if !reflect.DeepEqual(schema.Required, []string{"count"}) {
		t.Errorf("Required = %v, want [count]", schema.Required)
	}
}

func TestGenerate_RecursiveType(t *testing.T) {
	schema := Generate[node]()

	children := schema.Properties["children"]
	if children.Type != "array" || children.Items.Type != "object" {
		t.Errorf("children = %+v", children)
	}
	if children.Items.Properties != nil {
		t.Error("recursive element should not be expanded")
	}
}

func TestSplitTag(t *testing.T) {
	got := splitTag(`description=a, b, c,enum=x,required`)
	want := []string{"description=a, b, c", "enum=x", "required"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitTag = %q, want %q", got, want)
	}
	if splitTag("") != nil {
		t.Error("empty tag should split to nil")
	}
}
