package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

// Host payloads wrap link attributes in a "sys" object.
type wireLink struct {
	Sys interfaces.Link `json:"sys"`
}

const linkSchema = `{
	"type": "object",
	"required": ["sys"],
	"properties": {
		"sys": {
			"type": "object",
			"required": ["type", "linkType", "id"],
			"properties": {
				"type": {"const": "Link"},
				"linkType": {"const": "Asset"},
				"id": {"type": "string", "minLength": 1}
			}
		}
	}
}`

var (
	schemaOnce   sync.Once
	singleSchema *jsonschema.Schema
	arraySchema  *jsonschema.Schema
	schemaErr    error
)

func compileSchemas() {
	single := `{"oneOf": [{"type": "null"}, ` + linkSchema + `]}`
	array := `{"type": "array", "items": ` + linkSchema + `}`

	singleSchema, schemaErr = compile("single.json", single)
	if schemaErr != nil {
		return
	}
	arraySchema, schemaErr = compile("array.json", array)
}

func compile(name, source string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader([]byte(source))); err != nil {
		return nil, err
	}
	return compiler.Compile(name)
}

func schemaFor(cardinality interfaces.Cardinality) (*jsonschema.Schema, error) {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return nil, schemaErr
	}
	if cardinality == interfaces.CardinalityArray {
		return arraySchema, nil
	}
	return singleSchema, nil
}

// Decode parses a host JSON payload into a field value. Empty payloads and
// null arrays decode to nil (absent). Payloads that do not match the link schema are rejected
// with ErrValueInvalid.
func Decode(raw []byte, cardinality interfaces.Cardinality) (*interfaces.FieldValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValueInvalid, err)
	}
	if doc == nil && cardinality == interfaces.CardinalityArray {
		return nil, nil
	}
	schema, err := schemaFor(cardinality)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValueInvalid, err)
	}

	if cardinality == interfaces.CardinalityArray {
		var items []wireLink
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValueInvalid, err)
		}
		ids := make([]string, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.Sys.ID)
		}
		return ArrayValue(ids), nil
	}

	if doc == nil {
		return SingleValue(""), nil
	}
	var item wireLink
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValueInvalid, err)
	}
	return SingleValue(item.Sys.ID), nil
}

// Encode renders value as a host JSON payload. A nil value encodes to nil.
func Encode(value *interfaces.FieldValue) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	if value.Cardinality == interfaces.CardinalityArray {
		items := make([]wireLink, 0, len(value.Links))
		for _, link := range value.Links {
			items = append(items, wireLink{Sys: NewLink(link.ID)})
		}
		return json.Marshal(items)
	}
	if len(value.Links) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(wireLink{Sys: NewLink(value.Links[0].ID)})
}
