package template

import (
	"embed"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/matzehuels/chartwheel/pkg/errors"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

var (
	builtins     map[string]Document
	builtinsErr  error
	builtinsOnce sync.Once
)

func loadBuiltins() {
	builtins = make(map[string]Document)
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		builtinsErr = errors.Wrap(errors.ErrCodeInternal, err, "read builtin templates")
		return
	}
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("builtin", e.Name()))
		if err != nil {
			builtinsErr = errors.Wrap(errors.ErrCodeInternal, err, "read %s", e.Name())
			return
		}
		doc, err := Parse(data, FormatTOML)
		if err != nil {
			builtinsErr = errors.Wrap(errors.ErrCodeInternal, err, "builtin %s", e.Name())
			return
		}
		builtins[doc.ID] = doc
	}
}

// Builtins returns the names of the bundled templates in sorted order.
func Builtins() []string {
	builtinsOnce.Do(loadBuiltins)
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a bundled template by name.
func Builtin(name string) (Document, error) {
	builtinsOnce.Do(loadBuiltins)
	if builtinsErr != nil {
		return Document{}, builtinsErr
	}
	doc, ok := builtins[strings.ToLower(name)]
	if !ok {
		return Document{}, errors.New(errors.ErrCodeTemplateNotFound,
			"unknown template %q (available: %s)", name, strings.Join(Builtins(), ", "))
	}
	return doc, nil
}

// Resolve returns the builtin named ref, or loads ref as a file path when it
// has a template file extension.
func Resolve(ref string) (Document, error) {
	if _, err := FormatFromPath(ref); err == nil && strings.ContainsAny(ref, "./\\") {
		return Load(ref)
	}
	return Builtin(ref)
}
