package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"codetutor/internal/model"
	"codetutor/internal/tutor"
)

const defaultAPIBaseURL = "https://api.github.com"

// Fetcher retrieves repository file listings through the GitHub REST
// API. Directories are walked via the contents endpoint; file bodies
// come from the git blobs endpoint, which serves them base64-encoded.
type Fetcher struct {
	client  *http.Client
	baseURL string
	token   string
	logger  tutor.Logger
}

// NewFetcher creates a GitHub fetcher. An empty token means anonymous
// access: rate-limited and restricted to public repositories. An empty
// baseURL selects the public GitHub API.
func NewFetcher(client *http.Client, baseURL, token string, logger tutor.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	if logger == nil {
		logger = &tutor.NopLogger{}
	}
	return &Fetcher{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		logger:  logger,
	}
}

// locator identifies a repository and an optional subdirectory.
type locator struct {
	owner string
	repo  string
	path  string
}

// parseLocator splits "owner/repo[/subdir...]" into its parts. Invalid
// locators fail here, before any network call.
func parseLocator(s string) (locator, error) {
	parts := strings.Split(s, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return locator{}, fmt.Errorf("invalid repository locator %q: want owner/repo[/subdir]", s)
	}
	return locator{
		owner: parts[0],
		repo:  parts[1],
		path:  strings.Join(parts[2:], "/"),
	}, nil
}

// contentEntry is one entry in a contents-API directory listing.
type contentEntry struct {
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Type string `json:"type"` // "file", "dir", "symlink", "submodule"
}

// blobResponse is the git blobs endpoint payload.
type blobResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Fetch returns all files under the locator's directory, recursing into
// subdirectories. Paths in the result are relative to the requested
// directory. Any failure aborts the whole fetch; partial listings are
// never returned.
func (f *Fetcher) Fetch(ctx context.Context, loc string) ([]model.RepoFile, error) {
	parsed, err := parseLocator(loc)
	if err != nil {
		return nil, err
	}

	f.logger.Info("fetching repository", "owner", parsed.owner, "repo", parsed.repo, "path", parsed.path)

	files, err := f.fetchPath(ctx, parsed, parsed.path)
	if err != nil {
		return nil, err
	}

	// Report paths relative to the requested directory.
	if parsed.path != "" {
		prefix := parsed.path + "/"
		for i := range files {
			files[i].Path = strings.TrimPrefix(files[i].Path, prefix)
		}
	}
	return files, nil
}

// fetchPath lists one directory and descends into nested ones.
func (f *Fetcher) fetchPath(ctx context.Context, loc locator, dir string) ([]model.RepoFile, error) {
	entries, err := f.listDirectory(ctx, loc, dir)
	if err != nil {
		return nil, err
	}

	var files []model.RepoFile
	for _, entry := range entries {
		switch entry.Type {
		case "dir":
			nested, err := f.fetchPath(ctx, loc, entry.Path)
			if err != nil {
				return nil, err
			}
			files = append(files, nested...)
		case "file":
			doc, err := f.fetchBlob(ctx, loc, entry.SHA)
			if err != nil {
				return nil, fmt.Errorf("fetching %s: %w", entry.Path, err)
			}
			files = append(files, model.RepoFile{Path: entry.Path, Doc: doc})
		default:
			// Symlinks and submodules have no usable document.
			f.logger.Debug("skipping entry", "path", entry.Path, "type", entry.Type)
		}
	}
	return files, nil
}

func (f *Fetcher) listDirectory(ctx context.Context, loc locator, dir string) ([]contentEntry, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		f.baseURL, url.PathEscape(loc.owner), url.PathEscape(loc.repo), escapePath(dir))

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	// A file path returns a single object instead of an array. Treat it
	// as a one-entry listing so "owner/repo/file.js" imports that file.
	if len(body) > 0 && body[0] == '{' {
		var entry contentEntry
		if err := json.Unmarshal(body, &entry); err != nil {
			return nil, fmt.Errorf("decoding contents of %s: %w", dir, err)
		}
		return []contentEntry{entry}, nil
	}

	var entries []contentEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decoding contents of %s: %w", dir, err)
	}
	return entries, nil
}

// fetchBlob retrieves one file's document by blob sha. GitHub serves
// blobs base64-encoded with embedded newlines; NUL escapes are scrubbed
// because the editor cannot hold them.
func (f *Fetcher) fetchBlob(ctx context.Context, loc locator, sha string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/git/blobs/%s",
		f.baseURL, url.PathEscape(loc.owner), url.PathEscape(loc.repo), url.PathEscape(sha))

	body, err := f.get(ctx, u)
	if err != nil {
		return "", err
	}

	var blob blobResponse
	if err := json.Unmarshal(body, &blob); err != nil {
		return "", fmt.Errorf("decoding blob: %w", err)
	}

	raw := blob.Content
	if blob.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(raw, "\n", ""))
		if err != nil {
			return "", fmt.Errorf("decoding blob content: %w", err)
		}
		raw = string(decoded)
	}
	return strings.ReplaceAll(raw, "\x00", ""), nil
}

func (f *Fetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github api returned %d for %s", resp.StatusCode, u)
	}
	return body, nil
}

// escapePath escapes each segment of a slash-separated path.
func escapePath(p string) string {
	if p == "" {
		return ""
	}
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// Compile-time check that Fetcher implements the RepoFetcher interface
var _ tutor.RepoFetcher = (*Fetcher)(nil)
