package override

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"schmoovin/motiongraph/data"
	"schmoovin/motiongraph/key"
)

// Document is the on-disk form of an Asset. It is shared with the schema
// generator so editors can validate authored files.
type Document struct {
	Version  int             `json:"version" toml:"version" jsonschema:"title=Format version,description=Document format version; 0 is read as 1,minimum=0"`
	Template string          `json:"template" toml:"template" jsonschema:"title=Template,description=Name of the graph template the table was validated against,minLength=1,required"`
	Entries  []EntryDocument `json:"entries" toml:"entries" jsonschema:"title=Entries,description=One replacement value per overridden data entry"`
}

// EntryDocument is one row of a Document. Either id or name must be set;
// id wins when both are present.
type EntryDocument struct {
	ID    uint32 `json:"id,omitempty" toml:"id,omitempty" jsonschema:"title=Data id,description=Hashed identity of the data entry"`
	Name  string `json:"name,omitempty" toml:"name,omitempty" jsonschema:"title=Data name,description=Author-facing name of the data entry"`
	Kind  string `json:"kind" toml:"kind" jsonschema:"title=Kind,enum=bool,enum=int,enum=float,required"`
	Value any    `json:"value" toml:"value" jsonschema:"title=Value,description=Replacement value matching kind,required"`
}

// Format selects the document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatTOML
)

func (f Format) String() string {
	if f == FormatTOML {
		return "toml"
	}
	return "json"
}

// FormatFor picks the format from a file extension. Unknown extensions are
// read as JSON.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

type source interface {
	Load() ([]byte, error)
	Path() string
}

type fileSource struct {
	path string
}

func (f fileSource) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f fileSource) Path() string {
	return f.path
}

// Load reads an asset from disk. The asset is named after the file.
func Load(path string) (*Asset, error) {
	return loadSource(fileSource{path: path})
}

func loadSource(src source) (*Asset, error) {
	raw, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("override: failed loading %s: %w", src.Path(), err)
	}
	name := strings.TrimSuffix(filepath.Base(src.Path()), filepath.Ext(src.Path()))
	asset, err := Decode(FormatFor(src.Path()), name, raw)
	if err != nil {
		return nil, fmt.Errorf("override: failed parsing %s: %w", src.Path(), err)
	}
	return asset, nil
}

// Decode parses raw in the given format and validates it.
func Decode(format Format, name string, raw []byte) (*Asset, error) {
	var doc Document
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	}
	return FromDocument(name, doc)
}

// FromDocument validates doc and converts it into an Asset.
func FromDocument(name string, doc Document) (*Asset, error) {
	version := doc.Version
	if version == 0 {
		version = 1
	}
	if version < 0 || version > CurrentVersion {
		return nil, fmt.Errorf("%w %d (newest is %d)", ErrUnsupportedVersion, doc.Version, CurrentVersion)
	}
	entries := make([]Entry, 0, len(doc.Entries))
	for i, row := range doc.Entries {
		e, err := entryFromDocument(row)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	asset, err := New(name, doc.Template, entries...)
	if err != nil {
		return nil, err
	}
	asset.version = version
	return asset, nil
}

func entryFromDocument(row EntryDocument) (Entry, error) {
	e := Entry{ID: key.Key(row.ID), Name: row.Name}
	if !e.ID.Valid() {
		if strings.TrimSpace(row.Name) == "" {
			return Entry{}, fmt.Errorf("entry needs an id or a name")
		}
		e.ID = key.Intern(row.Name)
	}
	kind, err := data.ParseKind(row.Kind)
	if err != nil {
		return Entry{}, err
	}
	e.Kind = kind

	switch kind {
	case data.KindBool:
		v, ok := row.Value.(bool)
		if !ok {
			return Entry{}, fmt.Errorf("%s: value %v is not a bool", e.label(), row.Value)
		}
		e.Bool = v
	case data.KindInt:
		v, err := asInt(row.Value)
		if err != nil {
			return Entry{}, fmt.Errorf("%s: %w", e.label(), err)
		}
		e.Int = v
	case data.KindFloat:
		v, err := asFloat(row.Value)
		if err != nil {
			return Entry{}, fmt.Errorf("%s: %w", e.label(), err)
		}
		e.Float = v
	}
	return e, nil
}

// asInt accepts the numeric types produced by encoding/json and toml.
func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("value %v is not an integer", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("value %v is not an integer", v)
	}
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("value %v is not a number", v)
	}
}

// Document converts the asset back into its on-disk form.
func (a *Asset) Document() Document {
	doc := Document{Version: a.version, Template: a.template, Entries: make([]EntryDocument, 0, len(a.entries))}
	for _, e := range a.entries {
		doc.Entries = append(doc.Entries, EntryDocument{
			ID:    uint32(e.ID),
			Name:  e.Name,
			Kind:  e.Kind.String(),
			Value: e.Value(),
		})
	}
	return doc
}

// Encode renders the asset in the given format.
func (a *Asset) Encode(format Format) ([]byte, error) {
	doc := a.Document()
	if format == FormatTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("override: encode toml: %w", err)
		}
		return buf.Bytes(), nil
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("override: encode json: %w", err)
	}
	return append(out, '\n'), nil
}
