package content

import (
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store holds the in-memory post index. Load builds a fresh index and swaps
// it in atomically, so the HTTP server and the file watcher can share one
// Store without coordination beyond the lock.
type Store struct {
	dir           string
	includeDrafts bool
	log           *slog.Logger

	mu  sync.RWMutex
	idx *index
}

type index struct {
	ordered    posts // date desc
	bySlug     map[string]*Post
	groups     map[string]*GroupSummary
	byGroup    map[string]posts
	daily      posts
	byColumn   map[string]posts
	subcolumns map[string][]string
}

// NewStore creates an empty store for posts under dir. Call Reload to
// populate it.
func NewStore(dir string, includeDrafts bool, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		dir:           dir,
		includeDrafts: includeDrafts,
		log:           log,
		idx:           newIndex(nil),
	}
}

// Load creates a store and populates it in one step.
func Load(dir string, includeDrafts bool, log *slog.Logger) (*Store, error) {
	s := NewStore(dir, includeDrafts, log)
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-scans the content directory and replaces the index. A missing
// directory is created and yields an empty index. Individual posts that fail
// to parse are logged and skipped; the scan itself never aborts on them.
func (s *Store) Reload() error {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		if err := os.MkdirAll(s.dir, 0o775); err != nil {
			return fmt.Errorf("creating content dir %v: %w", s.dir, err)
		}
		s.swap(newIndex(nil))
		return nil
	}

	files, err := findPostFiles(s.dir, ".md")
	if err != nil {
		return fmt.Errorf("scanning %v: %w", s.dir, err)
	}
	sort.Strings(files)

	loaded := make(posts, 0, len(files))
	for _, f := range files {
		p, err := readPostFromFile(f, s.log)
		if err != nil {
			s.log.Error("failed to load post", "path", f, "error", err)
			continue
		}
		if p == nil {
			continue
		}
		if p.Draft && !s.includeDrafts {
			continue
		}
		loaded = append(loaded, p)
	}

	s.swap(newIndex(loaded))
	return nil
}

func (s *Store) swap(idx *index) {
	s.mu.Lock()
	s.idx = idx
	s.mu.Unlock()
}

func (s *Store) snapshot() *index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx
}

// Dir returns the content directory the store watches.
func (s *Store) Dir() string { return s.dir }

func newIndex(loaded posts) *index {
	sort.SliceStable(loaded, func(i, j int) bool { return loaded[i].Date.After(loaded[j].Date) })

	idx := &index{
		ordered:    loaded,
		bySlug:     make(map[string]*Post, len(loaded)),
		groups:     make(map[string]*GroupSummary),
		byGroup:    make(map[string]posts),
		byColumn:   make(map[string]posts),
		subcolumns: make(map[string][]string),
	}

	for _, p := range loaded {
		if _, exists := idx.bySlug[p.Slug]; !exists {
			idx.bySlug[p.Slug] = p
		}

		if p.IsDaily {
			idx.daily = append(idx.daily, p)
		}

		if p.GroupSlug != "" {
			summary := idx.groups[p.GroupSlug]
			if summary == nil {
				name := p.GroupLabel
				if name == "" {
					name = titleFromStem(p.GroupSlug)
				}
				summary = &GroupSummary{Slug: p.GroupSlug, Name: name}
				idx.groups[p.GroupSlug] = summary
			}
			summary.PostCount++
			if summary.Description == "" && p.GroupDescription != "" {
				summary.Description = p.GroupDescription
			}
			idx.byGroup[p.GroupSlug] = append(idx.byGroup[p.GroupSlug], p)
		}

		if p.Column != "" {
			idx.byColumn[p.Column] = append(idx.byColumn[p.Column], p)
			if p.Subcolumn != "" && !contains(idx.subcolumns[p.Column], p.Subcolumn) {
				idx.subcolumns[p.Column] = append(idx.subcolumns[p.Column], p.Subcolumn)
			}
		}
	}

	for _, subs := range idx.subcolumns {
		sort.Strings(subs)
	}

	return idx
}

// Posts returns all posts, date desc with pinned posts floated to the front.
// Daily notes are excluded unless includeDaily is set.
func (s *Store) Posts(includeDaily bool) []*Post {
	idx := s.snapshot()
	out := make([]*Post, 0, len(idx.ordered))
	for _, p := range idx.ordered {
		if p.Pinned && (includeDaily || !p.IsDaily) {
			out = append(out, p)
		}
	}
	for _, p := range idx.ordered {
		if p.Pinned {
			continue
		}
		if includeDaily || !p.IsDaily {
			out = append(out, p)
		}
	}
	return out
}

// Post looks up a post by slug.
func (s *Store) Post(slug string) *Post {
	return s.snapshot().bySlug[slug]
}

// Groups returns all group summaries sorted by lowercased name.
func (s *Store) Groups() []GroupSummary {
	idx := s.snapshot()
	groups := make([]GroupSummary, 0, len(idx.groups))
	for _, g := range idx.groups {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Name) < strings.ToLower(groups[j].Name)
	})
	return groups
}

// Group looks up a single group summary.
func (s *Store) Group(slug string) *GroupSummary {
	g := s.snapshot().groups[slug]
	if g == nil {
		return nil
	}
	copied := *g
	return &copied
}

// PostsByGroup returns the group's posts, date desc.
func (s *Store) PostsByGroup(slug string) []*Post {
	return append([]*Post(nil), s.snapshot().byGroup[slug]...)
}

// DailyPosts returns all daily notes, date desc.
func (s *Store) DailyPosts() []*Post {
	return append([]*Post(nil), s.snapshot().daily...)
}

// LatestDaily returns the newest daily note, or nil.
func (s *Store) LatestDaily() *Post {
	idx := s.snapshot()
	if len(idx.daily) == 0 {
		return nil
	}
	return idx.daily[0]
}

// PostsByTag returns posts carrying the tag, matched case-insensitively.
func (s *Store) PostsByTag(tag string) []*Post {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	if normalized == "" {
		return nil
	}
	var matching []*Post
	for _, p := range s.snapshot().ordered {
		for _, t := range p.Tags {
			if strings.ToLower(t) == normalized {
				matching = append(matching, p)
				break
			}
		}
	}
	return matching
}

// Columns returns all column names, sorted.
func (s *Store) Columns() []string {
	idx := s.snapshot()
	columns := make([]string, 0, len(idx.byColumn))
	for c := range idx.byColumn {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	return columns
}

// PostsByColumn returns a column's posts, optionally narrowed to one
// subcolumn.
func (s *Store) PostsByColumn(column string, subcolumn ...string) []*Post {
	all := s.snapshot().byColumn[column]
	if len(subcolumn) == 0 || subcolumn[0] == "" {
		return append([]*Post(nil), all...)
	}
	var matching []*Post
	for _, p := range all {
		if p.Subcolumn == subcolumn[0] {
			matching = append(matching, p)
		}
	}
	return matching
}

// Subcolumns returns the subcolumn names under a column, sorted.
func (s *Store) Subcolumns(column string) []string {
	return append([]string(nil), s.snapshot().subcolumns[column]...)
}

// FilterByLanguage keeps only posts in the given language.
func FilterByLanguage(in []*Post, lang string) []*Post {
	var out []*Post
	for _, p := range in {
		if p.Lang == lang {
			out = append(out, p)
		}
	}
	return out
}

func findPostFiles(dir, fileExtension string) ([]string, error) {
	files := make([]string, 0, 100)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, fileExtension) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

var markdown = newMarkdownRenderer()

func readPostFromFile(path string, log *slog.Logger) (*Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(string(body))
	if content == "" {
		log.Warn("skipping empty post", "path", path)
		return nil, nil
	}

	stem := filepath.Base(path)
	stem = stem[:len(stem)-len(filepath.Ext(stem))]

	title := metaString(meta, "title")
	if title == "" {
		title = titleFromStem(stem)
	}
	slug := metaString(meta, "slug")
	if slug == "" {
		slug = slugify(stem)
	}

	date, ok := parseDate(meta["date"])
	if !ok {
		if raw, present := meta["date"]; present && raw != nil {
			log.Warn("unrecognized date format", "path", path, "date", raw)
		}
		date = fileModifiedAt(path)
	}

	groupSlug, groupLabel, groupDescription := groupMeta(meta["group"])

	html := markdown.render([]byte(content))

	p := &Post{
		Slug:             slug,
		Title:            title,
		Summary:          extractSummary(meta, content),
		ContentHTML:      template.HTML(html),
		ContentRaw:       content,
		Excerpt:          template.HTML(extractExcerpt(html)),
		Date:             date,
		GroupSlug:        groupSlug,
		GroupLabel:       groupLabel,
		GroupDescription: groupDescription,
		Tags:             normalizeTags(meta["tags"]),
		IsDaily:          metaBool(meta, "daily") || metaString(meta, "type") == "daily",
		Lang:             NormalizeLang(metaString(meta, "lang", "language")),
		Column:           metaString(meta, "column"),
		Subcolumn:        metaString(meta, "subcolumn"),
		Pinned:           metaBool(meta, "pinned"),
		Draft:            metaBool(meta, "draft"),
	}

	return p, nil
}

func fileModifiedAt(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Now()
	}
	return info.ModTime()
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
