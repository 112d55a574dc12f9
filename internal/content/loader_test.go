package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePost(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o664))
}

func testContentDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writePost(t, dir, "2025-11-01-first-post.md", `---
title: First Post
slug: first-post
date: 2025-11-01
group:
  name: Announcements
  description: Site news.
tags: [go, web]
---
Welcome to the **blog**.

More text here.
`)

	writePost(t, dir, "2025-11-05-zh-post.md", `---
title: 中文文章
slug: zh-post
date: 2025-11-05
lang: zh
group: Announcements
tags: go
---
你好。
`)

	writePost(t, dir, "daily-2025-11-13.md", `---
title: Daily Note
slug: daily-2025-11-13
date: 2025-11-13
daily: true
---
Short note.
`)

	writePost(t, dir, "2025-10-10-column-post.md", `---
title: Column Post
slug: column-post
date: 2025-10-10
column: systems
subcolumn: storage
---
Column content.
`)

	writePost(t, dir, "2025-09-01-draft.md", `---
title: Draft Post
slug: draft-post
date: 2025-09-01
draft: true
---
Not ready.
`)

	writePost(t, dir, "empty.md", "---\ntitle: Empty\n---\n\n")

	return dir
}

func loadTestStore(t *testing.T, drafts bool) *Store {
	t.Helper()
	store, err := Load(testContentDir(t), drafts, testLogger())
	require.NoError(t, err)
	return store
}

func TestLoad_PostsExcludeDaily(t *testing.T) {
	store := loadTestStore(t, false)

	posts := store.Posts(false)
	require.NotEmpty(t, posts)
	for _, p := range posts {
		assert.False(t, p.IsDaily, "post %v should not be daily", p.Slug)
	}

	slugs := make(map[string]bool)
	for _, p := range posts {
		slugs[p.Slug] = true
	}
	assert.False(t, slugs["daily-2025-11-13"])
}

func TestLoad_PostsIncludeDailyWhenRequested(t *testing.T) {
	store := loadTestStore(t, false)

	var daily []*Post
	for _, p := range store.Posts(true) {
		if p.IsDaily {
			daily = append(daily, p)
		}
	}
	require.Len(t, daily, 1)
	assert.Equal(t, "daily-2025-11-13", daily[0].Slug)
}

func TestLoad_OrderedByDateDesc(t *testing.T) {
	store := loadTestStore(t, false)

	posts := store.Posts(true)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].Date.After(posts[i-1].Date),
			"posts out of order: %v before %v", posts[i-1].Slug, posts[i].Slug)
	}
}

func TestLoad_GroupsWithCounts(t *testing.T) {
	store := loadTestStore(t, false)

	groups := store.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "Announcements", groups[0].Name)
	assert.Equal(t, "announcements", groups[0].Slug)
	assert.Equal(t, "Site news.", groups[0].Description)
	assert.Equal(t, 2, groups[0].PostCount)

	posts := store.PostsByGroup("announcements")
	assert.Len(t, posts, 2)

	assert.Nil(t, store.Group("nope"))
}

func TestLoad_DraftsExcludedByDefault(t *testing.T) {
	store := loadTestStore(t, false)
	assert.Nil(t, store.Post("draft-post"))

	withDrafts := loadTestStore(t, true)
	assert.NotNil(t, withDrafts.Post("draft-post"))
}

func TestLoad_EmptyPostSkipped(t *testing.T) {
	store := loadTestStore(t, false)
	assert.Nil(t, store.Post("empty"))
}

func TestLoad_MarkdownRendered(t *testing.T) {
	store := loadTestStore(t, false)

	p := store.Post("first-post")
	require.NotNil(t, p)
	assert.Contains(t, string(p.ContentHTML), "<strong>blog</strong>")
	assert.Contains(t, string(p.Excerpt), "</p>")
	assert.NotContains(t, string(p.Excerpt), "More text here")
}

func TestPostsByTag(t *testing.T) {
	store := loadTestStore(t, false)

	assert.Len(t, store.PostsByTag("GO"), 2)
	assert.Len(t, store.PostsByTag("web"), 1)
	assert.Empty(t, store.PostsByTag("   "))
	assert.Empty(t, store.PostsByTag("missing"))
}

func TestFilterByLanguage(t *testing.T) {
	store := loadTestStore(t, false)

	zh := FilterByLanguage(store.Posts(false), "zh")
	require.Len(t, zh, 1)
	assert.Equal(t, "zh-post", zh[0].Slug)

	en := FilterByLanguage(store.Posts(false), "en")
	for _, p := range en {
		assert.Equal(t, "en", p.Lang)
	}
}

func TestDaily(t *testing.T) {
	store := loadTestStore(t, false)

	daily := store.DailyPosts()
	require.Len(t, daily, 1)
	assert.Equal(t, daily[0], store.LatestDaily())
}

func TestColumns(t *testing.T) {
	store := loadTestStore(t, false)

	assert.Equal(t, []string{"systems"}, store.Columns())
	assert.Len(t, store.PostsByColumn("systems"), 1)
	assert.Len(t, store.PostsByColumn("systems", "storage"), 1)
	assert.Empty(t, store.PostsByColumn("systems", "network"))
	assert.Equal(t, []string{"storage"}, store.Subcolumns("systems"))
}

func TestLoad_MissingDirCreatesIt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "posts")

	store, err := Load(dir, false, testLogger())
	require.NoError(t, err)
	assert.Empty(t, store.Posts(true))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoad_TitleAndSlugFallBackToFilename(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "my-fallback-post.md", "No front matter here.\n")

	store, err := Load(dir, false, testLogger())
	require.NoError(t, err)

	p := store.Post("my-fallback-post")
	require.NotNil(t, p)
	assert.Equal(t, "My Fallback Post", p.Title)
	assert.False(t, p.Date.IsZero(), "should fall back to file mtime")
}

func TestLoad_BadPostSkippedNotFatal(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "bad.md", "---\ntitle: Broken\nNo terminator")
	writePost(t, dir, "good.md", "---\ntitle: Good\n---\nFine.\n")

	store, err := Load(dir, false, testLogger())
	require.NoError(t, err)
	assert.Nil(t, store.Post("bad"))
	assert.NotNil(t, store.Post("good"))
}

func TestReload_PicksUpNewPosts(t *testing.T) {
	dir := t.TempDir()
	store, err := Load(dir, false, testLogger())
	require.NoError(t, err)
	assert.Empty(t, store.Posts(true))

	writePost(t, dir, "late.md", "---\ntitle: Late\n---\nArrived.\n")
	require.NoError(t, store.Reload())
	assert.NotNil(t, store.Post("late"))
}

func TestPinnedFloatsToFront(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "old-pinned.md", "---\ntitle: Pinned\nslug: pinned\ndate: 2020-01-01\npinned: true\n---\nOld but pinned.\n")
	writePost(t, dir, "new-post.md", "---\ntitle: New\nslug: new\ndate: 2025-01-01\n---\nNewer.\n")

	store, err := Load(dir, false, testLogger())
	require.NoError(t, err)

	posts := store.Posts(false)
	require.Len(t, posts, 2)
	assert.Equal(t, "pinned", posts[0].Slug)
}
