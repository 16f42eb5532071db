package marketplace

import (
	"regexp"
	"strings"
	"time"
)

// Command is one invocable command a plugin ships.
type Command struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Skill is one skill definition a plugin ships.
type Skill struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// RepoCoordinate locates a plugin inside a GitHub repository.
// An empty PluginPath means the repository root.
type RepoCoordinate struct {
	Owner      string `json:"owner"`
	Repo       string `json:"repo"`
	Branch     string `json:"branch"`
	PluginPath string `json:"plugin_path,omitempty"`
}

// IsZero returns true when no repository could be derived.
func (c RepoCoordinate) IsZero() bool {
	return c.Owner == "" || c.Repo == ""
}

// Slug returns the "owner/repo" form.
func (c RepoCoordinate) Slug() string {
	return c.Owner + "/" + c.Repo
}

// Record is the normalized corpus unit. Identity is (Name, Marketplace):
// the same plugin name under two marketplaces is two records.
//
// Enrichment fields (Stars, LastUpdated, MCPSupported, Commands, Skills)
// are nil until a detailed query applies an inspection result; nil means
// unknown, never zero.
type Record struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Version     string         `json:"version,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Keywords    []string       `json:"keywords,omitempty"`
	Marketplace string         `json:"marketplace"`
	Owner       string         `json:"owner"`
	Homepage    string         `json:"homepage,omitempty"`
	Repo        RepoCoordinate `json:"repo,omitempty"`

	Stars        *int       `json:"stars,omitempty"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
	MCPSupported *bool      `json:"mcp_supported,omitempty"`
	Commands     []Command  `json:"commands,omitempty"`
	Skills       []Skill    `json:"skills,omitempty"`
}

// Key returns the record's corpus identity.
func (r Record) Key() string {
	return r.Name + "@" + r.Marketplace
}

// Normalize maps one raw catalog entry to a Record. It is total: missing
// optional fields resolve to empty/unknown, never an error, since shapes
// vary across marketplaces and partial data is the common case.
func Normalize(entry Entry, source Source, ownerName string) Record {
	rec := Record{
		Name:        entry.Name,
		Description: entry.Description,
		Category:    entry.Category,
		Version:     entry.Version,
		Tags:        entry.Tags,
		Keywords:    entry.Keywords,
		Marketplace: source.Name(),
		Owner:       ownerName,
		Homepage:    entry.Homepage,
	}

	if rec.Category == "" {
		rec.Category = "uncategorized"
	}
	if rec.Owner == "" {
		rec.Owner = "Unknown"
	}

	rec.Repo = deriveCoordinate(entry, source)

	return rec
}

// deriveCoordinate resolves the repository coordinate for an entry.
func deriveCoordinate(entry Entry, source Source) RepoCoordinate {
	switch entry.Source.Kind {
	case SourceRefPath:
		owner, repo, ok := source.Repo()
		if !ok {
			return RepoCoordinate{}
		}
		return RepoCoordinate{
			Owner:      owner,
			Repo:       repo,
			PluginPath: strings.TrimLeft(entry.Source.Value, "./"),
		}
	case SourceRefURL:
		if coord, ok := ParseRepoURL(entry.Source.Value); ok {
			return coord
		}
		return RepoCoordinate{}
	case SourceRefRepo:
		parts := strings.SplitN(entry.Source.Value, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return RepoCoordinate{}
		}
		return RepoCoordinate{Owner: parts[0], Repo: parts[1]}
	default:
		// No source field; the homepage is the last resort.
		if coord, ok := ParseRepoURL(entry.Homepage); ok {
			return coord
		}
		return RepoCoordinate{}
	}
}

var (
	repoURLBranchPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/tree/([^/]+)`)
	repoURLPattern       = regexp.MustCompile(`github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:/|$)`)
)

// ParseRepoURL extracts a repository coordinate from a GitHub URL,
// honoring an embedded /tree/<branch> segment. Without one the branch
// stays empty and the inspector resolves the repository default.
// Returns false for anything that is not a GitHub repository URL.
func ParseRepoURL(rawURL string) (RepoCoordinate, bool) {
	if rawURL == "" || !strings.Contains(rawURL, "github.com") {
		return RepoCoordinate{}, false
	}

	if m := repoURLBranchPattern.FindStringSubmatch(rawURL); m != nil {
		return RepoCoordinate{
			Owner:  m[1],
			Repo:   strings.TrimSuffix(m[2], ".git"),
			Branch: m[3],
		}, true
	}

	if m := repoURLPattern.FindStringSubmatch(rawURL); m != nil {
		return RepoCoordinate{
			Owner: m[1],
			Repo:  strings.TrimSuffix(m[2], ".git"),
		}, true
	}

	return RepoCoordinate{}, false
}
