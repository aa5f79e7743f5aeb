package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chartwheel/pkg/chart"
	"github.com/matzehuels/chartwheel/pkg/errors"
	"github.com/matzehuels/chartwheel/pkg/pipeline"
	"github.com/matzehuels/chartwheel/pkg/template"
)

// Document is a chart document as stored on disk.
type Document struct {
	Name     string         `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Template string         `json:"template,omitempty" toml:"template" yaml:"template,omitempty"`
	Layers   []chart.Layer  `json:"layers" toml:"layers" yaml:"layers"`
	Settings chart.Settings `json:"settings" toml:"settings" yaml:"settings"`
}

// Options converts the document into pipeline options.
func (d Document) Options() pipeline.Options {
	return pipeline.Options{
		Name:     d.Name,
		Template: d.Template,
		Layers:   d.Layers,
		Settings: d.Settings,
	}
}

// ReadDocument decodes a chart document from r. Layers are checked for
// valid identifiers; settings and template are resolved later by the
// pipeline. ReadDocument does not close r.
func ReadDocument(r io.Reader, format template.Format) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read: %w", err)
	}

	var doc Document
	switch format {
	case template.FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case template.FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	case template.FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported chart format %q", format)
	}
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s chart", format)
	}

	if len(doc.Layers) == 0 {
		return Document{}, errors.New(errors.ErrCodeInvalidInput, "chart has no layers")
	}
	for _, l := range doc.Layers {
		if err := l.Validate(); err != nil {
			return Document{}, err
		}
	}
	return doc, nil
}

// ImportDocument reads the chart document at path. A relative template path
// is rewritten relative to the document's directory.
func ImportDocument(path string) (Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Document{}, err
	}
	format, err := template.FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "chart %s", path)
		}
		return Document{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	doc, err := ReadDocument(f, format)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	if isTemplatePath(doc.Template) && !filepath.IsAbs(doc.Template) {
		doc.Template = filepath.Join(filepath.Dir(path), doc.Template)
	}
	if doc.Name == "" {
		base := filepath.Base(path)
		doc.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	return doc, nil
}

func isTemplatePath(ref string) bool {
	if ref == "" {
		return false
	}
	if _, err := template.FormatFromPath(ref); err != nil {
		return false
	}
	return true
}
