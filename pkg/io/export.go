package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/chartwheel/pkg/aspect"
	"github.com/matzehuels/chartwheel/pkg/pipeline"
	"github.com/matzehuels/chartwheel/pkg/wheel"
)

// Output is the exported form of a pipeline result.
type Output struct {
	Wheel      wheel.Result          `json:"wheel"`
	AspectSets map[string]aspect.Set `json:"aspect_sets"`
}

// NewOutput selects the exported parts of a pipeline result.
func NewOutput(res *pipeline.Result) Output {
	return Output{Wheel: res.Wheel, AspectSets: res.AspectSets}
}

// WriteResult encodes res as indented JSON.
func WriteResult(res *pipeline.Result, w io.Writer) error {
	return writeJSON(NewOutput(res), w)
}

// WriteAspectSets encodes aspect sets keyed by id as indented JSON.
func WriteAspectSets(sets map[string]aspect.Set, w io.Writer) error {
	return writeJSON(sets, w)
}

// ExportResult writes res to a JSON file at path.
func ExportResult(res *pipeline.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteResult(res, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadOutput decodes an exported result, restoring ring item variants.
func ReadOutput(r io.Reader) (Output, error) {
	var out Output
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return Output{}, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

func writeJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
