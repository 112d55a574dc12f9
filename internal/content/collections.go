package content

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Collection is a curated bundle of tags with display metadata.
type Collection struct {
	Slug        string   `yaml:"slug" json:"slug"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Color       string   `yaml:"color" json:"color"`
	Tags        []string `yaml:"tags" json:"tags"`
}

// Badge decorates a post tag with its collection, when one claims it.
type Badge struct {
	Tag        string
	Label      string
	Collection *Collection
}

// CollectionSet maps tags (lowercased) to their collection.
type CollectionSet struct {
	collections []*Collection
	byTag       map[string]*Collection
	bySlug      map[string]*Collection
}

type collectionsFile struct {
	Collections []collectionEntry `yaml:"collections" json:"collections"`
}

// collectionEntry tolerates "tags" being a single string or a list.
type collectionEntry struct {
	Slug        string  `yaml:"slug" json:"slug"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Color       string  `yaml:"color" json:"color"`
	Tags        tagList `yaml:"tags" json:"tags"`
}

type tagList []string

func (t *tagList) UnmarshalYAML(node *yaml.Node) error {
	var single string
	if err := node.Decode(&single); err == nil {
		*t = tagList{single}
		return nil
	}
	var many []string
	if err := node.Decode(&many); err != nil {
		return err
	}
	*t = tagList(many)
	return nil
}

func (t *tagList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = tagList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = tagList(many)
	return nil
}

// collectionsFileCandidates are tried in order when the configured file is
// absent.
func collectionsFileCandidates(dir string) []string {
	return []string{
		filepath.Join(dir, "tag_collections.yaml"),
		filepath.Join(dir, "tag_collections.yml"),
		filepath.Join(dir, "tag_collections.json"),
	}
}

// LoadCollections reads the tag collection config. A missing or malformed
// file logs a warning and yields an empty set, never an error: badges then
// fall back to plain tags.
func LoadCollections(path string, log *slog.Logger) *CollectionSet {
	if log == nil {
		log = slog.Default()
	}
	set := &CollectionSet{
		byTag:  make(map[string]*Collection),
		bySlug: make(map[string]*Collection),
	}

	candidates := []string{path}
	if path == "" {
		candidates = nil
	} else if info, err := os.Stat(path); err != nil || info.IsDir() {
		// Treat a directory (or missing configured file) as "search here".
		candidates = collectionsFileCandidates(filepath.Dir(path))
		if info != nil && info.IsDir() {
			candidates = collectionsFileCandidates(path)
		}
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		parsed, err := readCollectionsFile(candidate)
		if err != nil {
			log.Warn("failed to load tag collections", "path", candidate, "error", err)
			return set
		}
		set.populate(parsed)
		return set
	}
	return set
}

func readCollectionsFile(path string) (*collectionsFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parsed := &collectionsFile{}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, parsed); err != nil {
			return nil, fmt.Errorf("parsing %v: %w", path, err)
		}
	default:
		if err := json.Unmarshal(raw, parsed); err != nil {
			return nil, fmt.Errorf("parsing %v: %w", path, err)
		}
	}
	return parsed, nil
}

func (cs *CollectionSet) populate(parsed *collectionsFile) {
	for _, entry := range parsed.Collections {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		slug := strings.TrimSpace(entry.Slug)
		if slug == "" {
			slug = strings.ReplaceAll(strings.ToLower(name), " ", "-")
		}

		c := &Collection{
			Slug:        slug,
			Name:        name,
			Description: strings.TrimSpace(entry.Description),
			Color:       strings.TrimSpace(entry.Color),
			Tags:        trimTags(entry.Tags),
		}
		cs.collections = append(cs.collections, c)
		cs.bySlug[slug] = c
		for _, tag := range c.Tags {
			cs.byTag[strings.ToLower(tag)] = c
		}
	}
}

func trimTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Collections lists all configured collections in file order.
func (cs *CollectionSet) Collections() []*Collection {
	return append([]*Collection(nil), cs.collections...)
}

// Collection looks up a collection by slug.
func (cs *CollectionSet) Collection(slug string) *Collection {
	return cs.bySlug[slug]
}

// Badges builds one badge per tag. Tags claimed by a collection get the
// collection's name as their label.
func (cs *CollectionSet) Badges(tags []string) []Badge {
	badges := make([]Badge, 0, len(tags))
	for _, tag := range tags {
		c := cs.byTag[strings.ToLower(tag)]
		label := tag
		if c != nil {
			label = c.Name
		}
		badges = append(badges, Badge{Tag: tag, Label: label, Collection: c})
	}
	return badges
}

// PostsFor returns the posts matching any of the collection's tags, deduped
// by slug, newest first (the store already orders tag queries by date).
func (cs *CollectionSet) PostsFor(c *Collection, store *Store) []*Post {
	var matching []*Post
	seen := make(map[string]bool)
	for _, tag := range c.Tags {
		for _, p := range store.PostsByTag(tag) {
			if !seen[p.Slug] {
				matching = append(matching, p)
				seen[p.Slug] = true
			}
		}
	}
	sort.SliceStable(matching, func(i, j int) bool { return matching[i].Date.After(matching[j].Date) })
	return matching
}
