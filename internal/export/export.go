// Package export renders the whole site to static files suitable for
// GitHub Pages or any plain file host.
package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"

	"rinblog/internal/comments"
	"rinblog/internal/config"
	"rinblog/internal/content"
	"rinblog/internal/feed"
	"rinblog/internal/render"
)

// Builder writes a static snapshot of the site to an output directory.
type Builder struct {
	cfg         *config.Config
	store       *content.Store
	collections *content.CollectionSet
	engine      *render.Engine
	outDir      string
	baseURL     string
	log         *slog.Logger
}

// New creates a builder. baseURL is the hosting sub-path ("" for the domain
// root, the repository name for GitHub Pages project sites).
func New(cfg *config.Config, store *content.Store, collections *content.CollectionSet, outDir, baseURL string, log *slog.Logger) (*Builder, error) {
	engine, err := render.NewEngine(cfg.TemplateDir, render.StaticURLs(baseURL))
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		cfg:         cfg,
		store:       store,
		collections: collections,
		engine:      engine,
		outDir:      outDir,
		baseURL:     baseURL,
		log:         log,
	}, nil
}

// Build wipes and regenerates the output directory.
func (b *Builder) Build() error {
	b.log.Info("writing site", "out", b.outDir)

	if err := b.prepareOutputDir(); err != nil {
		return err
	}
	if err := b.renderIndexAndDaily(); err != nil {
		return err
	}
	if err := b.renderGroups(); err != nil {
		return err
	}
	if err := b.renderColumns(); err != nil {
		return err
	}
	if err := b.renderCollections(); err != nil {
		return err
	}
	if err := b.renderPosts(); err != nil {
		return err
	}
	return b.renderFeeds()
}

func (b *Builder) prepareOutputDir() error {
	if err := os.RemoveAll(b.outDir); err != nil {
		return fmt.Errorf("clearing output dir: %w", err)
	}
	for _, dir := range []string{"", "posts", "groups", "daily", "collections"} {
		if err := os.MkdirAll(filepath.Join(b.outDir, dir), 0o775); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	if _, err := os.Stat(b.cfg.StaticDir); err == nil {
		dest := filepath.Join(b.outDir, "static")
		b.log.Info("copying static files", "from", b.cfg.StaticDir, "to", dest)
		if err := copy.Copy(b.cfg.StaticDir, dest); err != nil {
			return fmt.Errorf("copying static files: %w", err)
		}
	}

	// GitHub Pages skips Jekyll processing when this marker exists.
	nojekyll := filepath.Join(b.outDir, ".nojekyll")
	if err := os.WriteFile(nojekyll, nil, 0o664); err != nil {
		return fmt.Errorf("writing .nojekyll: %w", err)
	}
	return nil
}

// indexFileName is "index.html" for the default language and
// "index-<lang>.html" otherwise, matching the exported URL scheme.
func indexFileName(lang string) string {
	if lang == content.DefaultLanguage {
		return "index.html"
	}
	return "index-" + lang + ".html"
}

func (b *Builder) page(title, lang string) render.Page {
	return render.Page{
		SiteTitle:       b.cfg.SiteTitle,
		PageTitle:       title,
		Lang:            lang,
		Languages:       content.Languages,
		LanguageNames:   content.LanguageNames(),
		CommentsEnabled: false,
	}
}

func (b *Builder) writePage(relPath, tmpl string, data any) error {
	var buf bytes.Buffer
	if err := b.engine.Render(&buf, tmpl, data); err != nil {
		return fmt.Errorf("rendering %v: %w", relPath, err)
	}

	dest := filepath.Join(b.outDir, relPath)
	if err := os.MkdirAll(filepath.Dir(dest), 0o775); err != nil {
		return fmt.Errorf("creating %v: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0o664); err != nil {
		return fmt.Errorf("writing %v: %w", dest, err)
	}
	return nil
}

func (b *Builder) renderIndexAndDaily() error {
	allDaily := b.store.DailyPosts()

	for _, lang := range content.Languages {
		posts := content.FilterByLanguage(b.store.Posts(false), lang)
		if b.cfg.MaxPostsOnIndex > 0 && len(posts) > b.cfg.MaxPostsOnIndex {
			posts = posts[:b.cfg.MaxPostsOnIndex]
		}

		latest := b.store.LatestDaily()
		for _, p := range allDaily {
			if p.Lang == lang {
				latest = p
				break
			}
		}

		err := b.writePage(indexFileName(lang), "index.html", render.IndexPage{
			Page:        b.page("", lang),
			Posts:       render.WithBadges(posts, b.collections),
			Groups:      b.store.Groups(),
			Columns:     b.store.Columns(),
			LatestDaily: latest,
		})
		if err != nil {
			return err
		}

		daily := content.FilterByLanguage(allDaily, lang)
		err = b.writePage(filepath.Join("daily", indexFileName(lang)), "daily.html", render.DailyPage{
			Page:  b.page("Daily", lang),
			Posts: render.WithBadges(daily, b.collections),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) renderGroups() error {
	for _, group := range b.store.Groups() {
		all := b.store.PostsByGroup(group.Slug)
		for _, lang := range content.Languages {
			posts := content.FilterByLanguage(all, lang)
			relPath := filepath.Join("groups", group.Slug, indexFileName(lang))
			err := b.writePage(relPath, "group.html", render.GroupPage{
				Page:  b.page(group.Name, lang),
				Group: group,
				Posts: render.WithBadges(posts, b.collections),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) renderColumns() error {
	for _, column := range b.store.Columns() {
		all := b.store.PostsByColumn(column)
		subcolumns := b.store.Subcolumns(column)

		for _, lang := range content.Languages {
			posts := content.FilterByLanguage(all, lang)
			relPath := filepath.Join("columns", column, indexFileName(lang))
			err := b.writePage(relPath, "column.html", render.ColumnPage{
				Page:       b.page(column, lang),
				Column:     column,
				Subcolumns: subcolumns,
				Posts:      render.WithBadges(posts, b.collections),
			})
			if err != nil {
				return err
			}
		}

		for _, subcolumn := range subcolumns {
			all := b.store.PostsByColumn(column, subcolumn)
			for _, lang := range content.Languages {
				posts := content.FilterByLanguage(all, lang)
				relPath := filepath.Join("columns", column, subcolumn, indexFileName(lang))
				err := b.writePage(relPath, "column.html", render.ColumnPage{
					Page:       b.page(column+" / "+subcolumn, lang),
					Column:     column,
					Subcolumn:  subcolumn,
					Subcolumns: subcolumns,
					Posts:      render.WithBadges(posts, b.collections),
				})
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (b *Builder) renderCollections() error {
	for _, collection := range b.collections.Collections() {
		all := b.collections.PostsFor(collection, b.store)
		for _, lang := range content.Languages {
			posts := content.FilterByLanguage(all, lang)
			relPath := filepath.Join("collections", collection.Slug, indexFileName(lang))
			err := b.writePage(relPath, "collection.html", render.CollectionPage{
				Page:       b.page(collection.Name, lang),
				Collection: collection,
				Posts:      render.WithBadges(posts, b.collections),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) renderPosts() error {
	for _, post := range b.store.Posts(true) {
		relPath := filepath.Join("posts", post.Slug, indexFileName(post.Lang))
		err := b.writePage(relPath, "post.html", render.PostPage{
			Page:     b.page(post.Title, post.Lang),
			Post:     post,
			Badges:   b.collections.Badges(post.Tags),
			Comments: []comments.View{},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) renderFeeds() error {
	info := feed.Info{
		Title:     b.cfg.SiteTitle,
		Author:    b.cfg.Author,
		AuthorURI: b.cfg.AuthorURI,
		BaseURL:   b.cfg.BaseURL,
	}

	xml, err := feed.Site(info, b.store.Posts(true))
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(b.outDir, "index.xml"), xml, 0o664); err != nil {
		return fmt.Errorf("writing index.xml: %w", err)
	}

	for _, group := range b.store.Groups() {
		xml, err := feed.Group(info, group, b.store.PostsByGroup(group.Slug))
		if err != nil {
			return err
		}
		dest := filepath.Join(b.outDir, "groups", group.Slug+".xml")
		if err := os.WriteFile(dest, xml, 0o664); err != nil {
			return fmt.Errorf("writing %v: %w", dest, err)
		}
	}
	return nil
}
