package pyproject

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/creachadair/tomledit"
	"github.com/creachadair/tomledit/parser"
	"github.com/creachadair/tomledit/transform"

	"github.com/pydev-tools/uvdev/internal/perms"
)

// sourcesKey is the table holding package source overrides.
var sourcesKey = []string{"tool", "uv", "sources"}

// Loader loads pyproject documents.
type Loader interface {
	Load(path string) (*Document, error)
}

// DefaultLoader implements Loader against the filesystem.
type DefaultLoader struct{}

// Document is the in-memory pyproject.toml for one invocation.
// Reads are served from a typed snapshot of [tool.uv.sources]; writes go
// through a format-preserving editor so comments and unrelated content
// survive the rewrite byte for byte.
type Document struct {
	path    string
	doc     *tomledit.Document
	sources map[string]Source
	order   []string
}

// rawPyproject is the typed shape used to decode source entries.
type rawPyproject struct {
	Tool struct {
		UV struct {
			Sources map[string]Source `toml:"sources"`
		} `toml:"uv"`
	} `toml:"tool"`
}

// Load reads and parses the pyproject.toml at path.
func (DefaultLoader) Load(path string) (*Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(
				"%w: no pyproject.toml found at '%s', are you in the right folder?",
				ErrConfigLoadFailed,
				path,
			)
		}
		return nil, fmt.Errorf("%w: failed to read '%s': %w", ErrConfigLoadFailed, path, err)
	}

	doc, err := tomledit.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse '%s': %w", ErrConfigLoadFailed, path, err)
	}

	var raw rawPyproject
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode '%s': %w", ErrConfigLoadFailed, path, err)
	}

	d := &Document{
		path:    path,
		doc:     doc,
		sources: raw.Tool.UV.Sources,
	}
	if d.sources == nil {
		d.sources = make(map[string]Source)
	}

	// MetaData.Keys reports keys in file order, giving a stable iteration
	// order for the sources mapping.
	for _, key := range md.Keys() {
		if len(key) == 4 && key[0] == sourcesKey[0] && key[1] == sourcesKey[1] && key[2] == sourcesKey[2] {
			d.order = append(d.order, key[3])
		}
	}

	return d, nil
}

// Path returns the file path this document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Source returns the entry for the named package.
func (d *Document) Source(pkg string) (Source, bool) {
	s, ok := d.sources[pkg]
	return s, ok
}

// Packages returns the package names with explicit source entries, in file order.
func (d *Document) Packages() []string {
	return slices.Clone(d.order)
}

// EditableSources returns packages whose entry is a local editable checkout, in file order.
func (d *Document) EditableSources() []string {
	var editable []string
	for _, pkg := range d.order {
		if s := d.sources[pkg]; s.IsLocal() && s.Editable {
			editable = append(editable, pkg)
		}
	}
	return editable
}

// SetSource writes the entry for pkg, replacing any existing one in place.
// The sources mapping may be laid out either as a [tool.uv.sources] table or
// as an inline table under [tool.uv]; both shapes are rewritten in place.
func (d *Document) SetSource(pkg string, src Source) error {
	v, err := parser.ParseValue(src.inlineValue())
	if err != nil {
		return fmt.Errorf("failed to build source value for '%s': %w", pkg, err)
	}

	if e := d.doc.First(sourcesKey[0], sourcesKey[1], sourcesKey[2], pkg); e != nil && !e.IsSection() {
		e.KeyValue.Value = v
		d.recordSource(pkg, src)
		return nil
	}

	if sec := d.sourcesTable(); sec != nil {
		transform.InsertMapping(sec, &parser.KeyValue{
			Name:  parser.Key{pkg},
			Value: v,
		}, true)
		d.recordSource(pkg, src)
		return nil
	}

	// An inline 'sources' mapping has no section to insert into: rebuild the
	// whole inline value with the new entry appended.
	if e := d.doc.First(sourcesKey[0], sourcesKey[1], sourcesKey[2]); e != nil && !e.IsSection() {
		iv, err := parser.ParseValue(d.inlineSources(pkg, src))
		if err != nil {
			return fmt.Errorf("failed to build sources value for '%s': %w", pkg, err)
		}
		e.KeyValue.Value = iv
		d.recordSource(pkg, src)
		return nil
	}

	transform.InsertMapping(d.ensureSourcesTable(), &parser.KeyValue{
		Name:  parser.Key{pkg},
		Value: v,
	}, true)
	d.recordSource(pkg, src)

	return nil
}

// recordSource updates the typed snapshot after a successful write.
func (d *Document) recordSource(pkg string, src Source) {
	if _, ok := d.sources[pkg]; !ok {
		d.order = append(d.order, pkg)
	}
	d.sources[pkg] = src
}

// inlineSources renders the full sources mapping as one inline table, with
// src standing in for (or appended as) the entry for pkg.
func (d *Document) inlineSources(pkg string, src Source) string {
	order := d.order
	if _, ok := d.sources[pkg]; !ok {
		order = append(slices.Clone(d.order), pkg)
	}

	entries := make([]string, 0, len(order))
	for _, name := range order {
		s := d.sources[name]
		if name == pkg {
			s = src
		}
		entries = append(entries, fmt.Sprintf("%s = %s", parser.Key{name}, s.inlineValue()))
	}

	return "{ " + strings.Join(entries, ", ") + " }"
}

// RemoveSource deletes the entry for pkg, reporting whether one existed.
func (d *Document) RemoveSource(pkg string) bool {
	e := d.doc.First(sourcesKey[0], sourcesKey[1], sourcesKey[2], pkg)
	if e == nil || e.IsSection() {
		return false
	}
	e.Remove()

	delete(d.sources, pkg)
	d.order = slices.DeleteFunc(d.order, func(s string) bool { return s == pkg })

	return true
}

// Save writes the document back to its file in a single buffer write,
// preserving the formatting of everything that was not modified.
func (d *Document) Save() error {
	var buf bytes.Buffer
	if err := tomledit.Format(&buf, d.doc); err != nil {
		return fmt.Errorf("failed to render '%s': %w", d.path, err)
	}

	if err := os.WriteFile(d.path, buf.Bytes(), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write '%s': %w", d.path, err)
	}

	return nil
}

// sourcesTable returns the [tool.uv.sources] section, or nil when absent.
func (d *Document) sourcesTable() *tomledit.Section {
	if e := transform.FindTable(d.doc, sourcesKey...); e != nil {
		return e.Section
	}
	return nil
}

// ensureSourcesTable appends an empty [tool.uv.sources] section to the document.
func (d *Document) ensureSourcesTable() *tomledit.Section {
	sec := &tomledit.Section{
		Heading: &parser.Heading{Name: parser.Key(sourcesKey)},
	}
	d.doc.Sections = append(d.doc.Sections, sec)
	return sec
}
