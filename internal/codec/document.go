package codec

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/TimelordUK/ecgedit/internal/ecg"
)

// FieldData, FieldChannels etc. are the top-level document field names.
// Encode writes back the same names Decode read.
const (
	FieldData        = "ecg_data"
	FieldChannels    = "ecg_data_channels"
	FieldAnnotations = "annotations"
	FieldSymbols     = "unique_symbols"
)

const schemaURL = "https://github.com/TimelordUK/ecgedit/document.schema.json"

//go:embed schema.json
var schemaJSON []byte

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// --- Wire format ---

type annotationsDTO struct {
	Sample []float64 `json:"sample"`
	Symbol []string  `json:"symbol"`
}

type decodeDTO struct {
	Data        []any                `json:"ecg_data"`
	Channels    map[string][]float64 `json:"ecg_data_channels"`
	Annotations annotationsDTO       `json:"annotations"`
	Symbols     []string             `json:"unique_symbols"`
}

type annotationsOutDTO struct {
	Sample []int    `json:"sample"`
	Symbol []string `json:"symbol"`
}

type singleDTO struct {
	Data        []float64         `json:"ecg_data"`
	Annotations annotationsOutDTO `json:"annotations"`
	Symbols     []string          `json:"unique_symbols"`
}

type channelsDTO struct {
	Channels    map[string][]float64 `json:"ecg_data_channels"`
	Annotations annotationsOutDTO    `json:"annotations"`
	Symbols     []string             `json:"unique_symbols"`
}

// --- Public API ---

// Validate checks raw document bytes against the document schema
func Validate(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("document schema: %w", err)
	}
	return nil
}

// Decode parses and validates a document
func Decode(data []byte) (*ecg.Document, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var dto decodeDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	doc := &ecg.Document{}
	if dto.Channels != nil {
		doc.Variant = ecg.VariantChannels
		doc.Channels = dto.Channels
	} else {
		samples, err := flatten(dto.Data)
		if err != nil {
			return nil, err
		}
		doc.Variant = ecg.VariantSingle
		doc.Samples = samples
	}

	sampleIdx, err := toSampleIndices(dto.Annotations.Sample)
	if err != nil {
		return nil, err
	}
	anns, err := ecg.Zip(sampleIdx, dto.Annotations.Symbol)
	if err != nil {
		return nil, err
	}
	doc.Annotations = anns

	if dto.Symbols != nil {
		doc.Symbols = ecg.NewSymbolSet(dto.Symbols...)
	} else {
		doc.Symbols = ecg.NewSymbolSet(anns.Symbols()...)
	}

	return doc, nil
}

// Encode serializes a document using the field names of its variant
func Encode(doc *ecg.Document, indent bool) ([]byte, error) {
	anns := annotationsOutDTO{
		Sample: doc.Annotations.Samples(),
		Symbol: doc.Annotations.Symbols(),
	}
	symbols := []string(doc.Symbols)
	if symbols == nil {
		symbols = []string{}
	}

	var v any
	switch doc.Variant {
	case ecg.VariantSingle:
		samples := doc.Samples
		if samples == nil {
			samples = []float64{}
		}
		v = singleDTO{Data: samples, Annotations: anns, Symbols: symbols}
	case ecg.VariantChannels:
		if len(doc.Channels) == 0 {
			return nil, errors.New("encode: multi-channel document has no channels")
		}
		v = channelsDTO{Channels: doc.Channels, Annotations: anns, Symbols: symbols}
	default:
		return nil, fmt.Errorf("encode: unsupported %s", doc.Variant)
	}

	if indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// flatten accepts [v, ...] or [[v], [v, v], ...] and returns a flat sequence.
// Nesting is flattened one level only; the schema rejects anything deeper.
func flatten(items []any) ([]float64, error) {
	out := make([]float64, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case float64:
			out = append(out, v)
		case []any:
			for _, inner := range v {
				f, ok := inner.(float64)
				if !ok {
					return nil, fmt.Errorf("%s[%d]: nested value is not a number", FieldData, i)
				}
				out = append(out, f)
			}
		default:
			return nil, fmt.Errorf("%s[%d]: unexpected %T", FieldData, i, item)
		}
	}
	return out, nil
}

func toSampleIndices(values []float64) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		if v != math.Trunc(v) || v < 0 || v > math.MaxInt32 {
			return nil, fmt.Errorf("%s.sample[%d]: %v is not a sample index", FieldAnnotations, i, v)
		}
		out[i] = int(v)
	}
	return out, nil
}
