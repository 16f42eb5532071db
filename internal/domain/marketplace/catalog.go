package marketplace

import (
	"encoding/json"
	"fmt"
)

// Document is one source's raw catalog document after transport decoding.
// Catalog shapes vary across marketplaces; everything beyond the plugin
// list is optional and absent fields stay zero.
type Document struct {
	Name    string  `json:"name"`
	Owner   owner   `json:"owner"`
	Plugins []Entry `json:"plugins"`
}

// OwnerName returns the catalog owner's display name, "Unknown" when the
// document does not carry one.
func (d *Document) OwnerName() string {
	if d.Owner.Name == "" {
		return "Unknown"
	}
	return d.Owner.Name
}

// ParseDocument parses a raw catalog document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog document: %w", err)
	}
	return &doc, nil
}

// owner tolerates both the object form {"name": ...} and scalar forms
// some marketplaces emit.
type owner struct {
	Name string `json:"name"`
}

func (o *owner) UnmarshalJSON(data []byte) error {
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		o.Name = obj.Name
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Name = s
		return nil
	}

	// Unrecognized shape, leave the name empty.
	o.Name = ""
	return nil
}

// Entry is one raw plugin entry as a source describes it.
type Entry struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Version     string    `json:"version"`
	Tags        []string  `json:"tags"`
	Keywords    []string  `json:"keywords"`
	Homepage    string    `json:"homepage"`
	Source      SourceRef `json:"source"`
}

// SourceRefKind tags the variants of an entry's source field.
type SourceRefKind string

// SourceRef variants.
const (
	// SourceRefNone means the entry carried no usable source.
	SourceRefNone SourceRefKind = ""
	// SourceRefPath is a path relative to the marketplace repository.
	SourceRefPath SourceRefKind = "path"
	// SourceRefURL is an absolute repository URL.
	SourceRefURL SourceRefKind = "url"
	// SourceRefRepo is an explicit owner/repo slug.
	SourceRefRepo SourceRefKind = "repo"
)

// SourceRef is the tagged union behind an entry's source field. Sources
// write it either as a bare string (a path inside the marketplace repo)
// or as an object carrying a URL or repository slug. Unknown shapes
// decode to SourceRefNone rather than failing the document.
type SourceRef struct {
	Kind  SourceRefKind
	Value string
}

func (r *SourceRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*r = SourceRef{}
			return nil
		}
		*r = SourceRef{Kind: SourceRefPath, Value: s}
		return nil
	}

	var obj struct {
		Source string `json:"source"`
		URL    string `json:"url"`
		Repo   string `json:"repo"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		*r = SourceRef{}
		return nil
	}

	switch {
	case obj.Source == "url" && obj.URL != "":
		*r = SourceRef{Kind: SourceRefURL, Value: obj.URL}
	case obj.Source == "github" && obj.Repo != "":
		*r = SourceRef{Kind: SourceRefRepo, Value: obj.Repo}
	default:
		*r = SourceRef{}
	}
	return nil
}

func (r SourceRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case SourceRefPath:
		return json.Marshal(r.Value)
	case SourceRefURL:
		return json.Marshal(map[string]string{"source": "url", "url": r.Value})
	case SourceRefRepo:
		return json.Marshal(map[string]string{"source": "github", "repo": r.Value})
	default:
		return []byte("null"), nil
	}
}

// IsZero returns true when the entry carried no usable source.
func (r SourceRef) IsZero() bool {
	return r.Kind == SourceRefNone
}
