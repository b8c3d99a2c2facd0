package loader

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definitions is the parsed content of one or more definition files.
type Definitions struct {
	Types []TypeDefinition `json:"types" yaml:"types"`
}

// TypeDefinition describes a post type and its meta boxes.
type TypeDefinition struct {
	ID        string            `json:"id" yaml:"id"`
	Config    map[string]any    `json:"config,omitempty" yaml:"config,omitempty"`
	Labels    map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	MetaBoxes []BoxDefinition   `json:"metaBoxes,omitempty" yaml:"metaBoxes,omitempty"`
	Source    string            `json:"-" yaml:"-"`
}

// BoxDefinition describes a meta box and where it is placed.
type BoxDefinition struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	Single         bool   `json:"single,omitempty" yaml:"single,omitempty"`
	CapabilityType string `json:"capabilityType,omitempty" yaml:"capabilityType,omitempty"`
	NonceID        string `json:"nonceId,omitempty" yaml:"nonceId,omitempty"`
	SaveID         string `json:"saveId,omitempty" yaml:"saveId,omitempty"`
	Context        string `json:"context,omitempty" yaml:"context,omitempty"`
	Priority       string `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Type returns the definition for id.
func (d Definitions) Type(id string) (TypeDefinition, bool) {
	for _, def := range d.Types {
		if def.ID == id {
			return def, true
		}
	}
	return TypeDefinition{}, false
}

// LoadFS walks fsys and parses every JSON/YAML definition file in lexical
// path order. A nil fsys yields empty definitions. Type ids must be unique
// across files and meta box ids unique within a type.
func LoadFS(fsys fs.FS) (Definitions, error) {
	var defs Definitions
	if fsys == nil {
		return defs, nil
	}

	seen := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("loader: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return err
		}

		for _, def := range doc.Types {
			if previous, exists := seen[def.ID]; exists {
				return fmt.Errorf("loader: duplicate post type %q (files %s and %s)", def.ID, previous, path)
			}
			seen[def.ID] = path
			defs.Types = append(defs.Types, def)
		}
		return nil
	})
	if err != nil {
		return Definitions{}, err
	}
	return defs, nil
}

// Parse decodes a single JSON or YAML document and normalises it. source
// names the document in errors.
func Parse(data []byte, source string) (Definitions, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definitions{}, fmt.Errorf("loader: file %s is empty", source)
	}

	var doc Definitions
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = Definitions{}
		if yamlErr := yaml.Unmarshal(data, &doc); yamlErr != nil {
			return Definitions{}, fmt.Errorf("loader: parse %s: invalid JSON or YAML: %w", source, yamlErr)
		}
	}

	for i := range doc.Types {
		def, err := normaliseType(doc.Types[i], source)
		if err != nil {
			return Definitions{}, err
		}
		doc.Types[i] = def
	}
	return doc, nil
}

// Encode renders defs as YAML.
func Encode(defs Definitions) ([]byte, error) {
	out, err := yaml.Marshal(defs)
	if err != nil {
		return nil, fmt.Errorf("loader: encode: %w", err)
	}
	return out, nil
}

func normaliseType(def TypeDefinition, source string) (TypeDefinition, error) {
	def.ID = strings.TrimSpace(def.ID)
	def.Source = source
	if def.ID == "" {
		return TypeDefinition{}, fmt.Errorf("loader: file %s defines a post type with an empty id", source)
	}

	boxes := make(map[string]struct{}, len(def.MetaBoxes))
	for i, box := range def.MetaBoxes {
		box.ID = strings.TrimSpace(box.ID)
		if box.ID == "" {
			return TypeDefinition{}, fmt.Errorf("loader: post type %q (file %s) has a meta box with an empty id at index %d", def.ID, source, i)
		}
		if _, exists := boxes[box.ID]; exists {
			return TypeDefinition{}, fmt.Errorf("loader: post type %q (file %s) defines duplicate meta box %q", def.ID, source, box.ID)
		}
		boxes[box.ID] = struct{}{}
		box.Context = strings.ToLower(strings.TrimSpace(box.Context))
		box.Priority = strings.ToLower(strings.TrimSpace(box.Priority))
		def.MetaBoxes[i] = box
	}
	return def, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
