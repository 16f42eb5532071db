// Package inspect derives feature facts about a plugin by reading its
// repository's file tree: shipped commands, skills, and MCP support.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/felixgeelhaar/pluginscout/internal/domain/marketplace"
)

// Inspector errors.
var (
	ErrRepoUnknown = errors.New("record has no repository coordinate")
	ErrTreeFailed  = errors.New("repository tree unavailable")
)

const (
	// commandsPrefix is the directory holding command definitions.
	commandsPrefix = "commands/"
	// skillsPrefix is the directory holding skill definitions.
	skillsPrefix = "skills/"
	// skillFilename marks a skill directory.
	skillFilename = "SKILL.md"
	// mcpFilename marks MCP protocol support.
	mcpFilename = ".mcp.json"

	// maxResponseSize caps tree responses; large monorepos can carry
	// six-figure path counts (20MB).
	maxResponseSize = 20 * 1024 * 1024
)

// InspectionError reports a failed repository inspection. Callers leave
// the record's feature fields unknown and continue; it is never fatal
// to the overall query.
type InspectionError struct {
	Repo string
	Err  error
}

func (e *InspectionError) Error() string {
	return fmt.Sprintf("inspecting %s: %v", e.Repo, e.Err)
}

func (e *InspectionError) Unwrap() error {
	return e.Err
}

// Features is the transient result of one repository inspection.
// It is recomputed per detailed query, never persisted: feature facts
// drift between runs and detailed queries are rare.
type Features struct {
	Stars        int
	LastUpdated  time.Time
	MCPSupported bool
	Commands     []marketplace.Command
	Skills       []marketplace.Skill
}

// Apply copies the feature facts onto a record.
func (f *Features) Apply(rec marketplace.Record) marketplace.Record {
	stars := f.Stars
	updated := f.LastUpdated
	mcp := f.MCPSupported

	rec.Stars = &stars
	rec.LastUpdated = &updated
	rec.MCPSupported = &mcp
	rec.Commands = f.Commands
	rec.Skills = f.Skills
	return rec
}

// Config configures the inspector.
type Config struct {
	// APIBaseURL is the GitHub API root (overridable for tests)
	APIBaseURL string
	// Timeout bounds each request
	Timeout time.Duration
	// UserAgent is the User-Agent header value
	UserAgent string
	// AuthToken is an optional GitHub token
	AuthToken string
	// RetryMax is the number of retries after a failed attempt
	RetryMax int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		APIBaseURL: "https://api.github.com",
		Timeout:    30 * time.Second,
		UserAgent:  "pluginscout/1.0",
		RetryMax:   1,
	}
}

// Inspector reads repository metadata and file trees over the GitHub API.
type Inspector struct {
	config     Config
	httpClient *http.Client
}

// NewInspector creates a new repository inspector.
func NewInspector(config Config) *Inspector {
	rc := retryablehttp.NewClient()
	rc.RetryMax = config.RetryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = config.Timeout
	rc.Logger = nil

	return &Inspector{
		config:     config,
		httpClient: rc.StandardClient(),
	}
}

// repoMetadata is the subset of the repository endpoint we consume.
type repoMetadata struct {
	StargazersCount int       `json:"stargazers_count"`
	UpdatedAt       time.Time `json:"updated_at"`
	DefaultBranch   string    `json:"default_branch"`
}

// treeResponse is the recursive git tree endpoint response.
type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

// Inspect retrieves a repository's metadata and full path listing, then
// classifies paths into feature categories. The tree is fetched with a
// single recursive call, bounding the request count to one metadata
// call plus one tree call per repository.
func (i *Inspector) Inspect(ctx context.Context, coord marketplace.RepoCoordinate) (*Features, error) {
	if coord.IsZero() {
		return nil, &InspectionError{Repo: coord.Slug(), Err: ErrRepoUnknown}
	}

	meta, err := i.fetchMetadata(ctx, coord)
	if err != nil {
		return nil, &InspectionError{Repo: coord.Slug(), Err: err}
	}

	branch := coord.Branch
	if branch == "" {
		branch = meta.DefaultBranch
	}
	if branch == "" {
		branch = "main"
	}

	tree, err := i.fetchTree(ctx, coord, branch)
	if err != nil {
		return nil, &InspectionError{Repo: coord.Slug(), Err: err}
	}

	features := classify(tree, coord.PluginPath)
	features.Stars = meta.StargazersCount
	features.LastUpdated = meta.UpdatedAt

	return features, nil
}

func (i *Inspector) fetchMetadata(ctx context.Context, coord marketplace.RepoCoordinate) (*repoMetadata, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", i.config.APIBaseURL, coord.Owner, coord.Repo)

	body, err := i.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var meta repoMetadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("parsing repository metadata: %w", err)
	}
	return &meta, nil
}

func (i *Inspector) fetchTree(ctx context.Context, coord marketplace.RepoCoordinate, branch string) (*treeResponse, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", i.config.APIBaseURL, coord.Owner, coord.Repo, branch)

	body, err := i.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTreeFailed, err)
	}

	var tree treeResponse
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTreeFailed, err)
	}
	return &tree, nil
}

func (i *Inspector) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", i.config.UserAgent)
	if i.config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+i.config.AuthToken)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API error (status %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return body, nil
}

// classify walks the path listing once, in tree order, and buckets
// paths under the plugin's directory into feature categories. When the
// same command or skill name appears at multiple paths, the first
// encountered wins.
func classify(tree *treeResponse, pluginPath string) *Features {
	prefix := ""
	if pluginPath != "" {
		prefix = strings.TrimSuffix(pluginPath, "/") + "/"
	}

	features := &Features{}
	seenCommands := make(map[string]struct{})
	seenSkills := make(map[string]struct{})

	for _, item := range tree.Tree {
		rel := item.Path
		if prefix != "" {
			if !strings.HasPrefix(item.Path, prefix) {
				continue
			}
			rel = item.Path[len(prefix):]
		}

		if rel == mcpFilename || strings.HasSuffix(rel, "/"+mcpFilename) {
			features.MCPSupported = true
		}

		if cmd, ok := classifyCommand(rel, item.Type); ok {
			if _, dup := seenCommands[cmd]; !dup {
				seenCommands[cmd] = struct{}{}
				features.Commands = append(features.Commands, marketplace.Command{Name: cmd, Path: item.Path})
			}
		}

		if skill, ok := classifySkill(rel); ok {
			if _, dup := seenSkills[skill]; !dup {
				seenSkills[skill] = struct{}{}
				features.Skills = append(features.Skills, marketplace.Skill{Name: skill, Path: item.Path})
			}
		}
	}

	return features
}

// classifyCommand matches direct markdown files in the commands
// directory; the command name is the filename stem.
func classifyCommand(rel, itemType string) (string, bool) {
	if itemType != "" && itemType != "blob" {
		return "", false
	}
	if !strings.HasPrefix(rel, commandsPrefix) {
		return "", false
	}

	remaining := rel[len(commandsPrefix):]
	if remaining == "" || strings.Contains(remaining, "/") {
		return "", false
	}
	if !strings.HasSuffix(remaining, ".md") {
		return "", false
	}

	return strings.TrimSuffix(remaining, ".md"), true
}

// classifySkill matches SKILL.md files under the skills directory; the
// skill name is the parent directory segment.
func classifySkill(rel string) (string, bool) {
	if !strings.HasPrefix(rel, skillsPrefix) {
		return "", false
	}
	if path.Base(rel) != skillFilename {
		return "", false
	}

	parent := path.Base(path.Dir(rel))
	if parent == "." || parent == strings.TrimSuffix(skillsPrefix, "/") {
		return "", false
	}

	return parent, true
}
