package comments

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MaxContentLength  = 1000
	MaxNicknameLength = 50
)

// Validation failures surfaced to the comment form.
var (
	ErrEmptyContent    = errors.New("comment cannot be empty")
	ErrContentTooLong  = errors.New("comment is too long")
	ErrNicknameTooLong = errors.New("nickname is too long")
)

// View is a comment shaped for templates, with replies threaded one level
// deep.
type View struct {
	ID          int64
	DisplayName string
	Content     string
	DisplayTime string
	Replies     []View
}

// Service wraps the store with validation and view building.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Create validates and persists a comment. parentID is the raw form value;
// anything that does not resolve to an existing comment on the same post is
// stored as top-level, matching the lenient form handling of the web UI.
func (s *Service) Create(ctx context.Context, slug, nickname, content, parentID string) (View, error) {
	nickname = strings.TrimSpace(nickname)
	content = strings.TrimSpace(content)

	if content == "" {
		return View{}, ErrEmptyContent
	}
	// Limits count characters, not bytes: a Chinese comment is three bytes
	// per rune.
	if utf8.RuneCountInString(content) > MaxContentLength {
		return View{}, ErrContentTooLong
	}
	if utf8.RuneCountInString(nickname) > MaxNicknameLength {
		return View{}, ErrNicknameTooLong
	}

	record, err := s.store.Create(ctx, Comment{
		PostSlug: slug,
		Nickname: nickname,
		Content:  content,
		ParentID: s.resolveParent(ctx, slug, parentID),
	})
	if err != nil {
		return View{}, err
	}

	return viewOf(record), nil
}

func (s *Service) resolveParent(ctx context.Context, slug, raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	parent, err := s.store.Get(ctx, id)
	if err != nil || parent.PostSlug != slug {
		return 0
	}
	return id
}

// ListViews returns the post's comments threaded for display: top-level
// comments oldest first, each with its direct replies.
func (s *Service) ListViews(ctx context.Context, slug string) ([]View, error) {
	records, err := s.store.ListByPost(ctx, slug)
	if err != nil {
		return nil, err
	}

	var top []View
	position := make(map[int64]int)
	for _, record := range records {
		if record.ParentID == 0 {
			top = append(top, viewOf(record))
			position[record.ID] = len(top) - 1
			continue
		}
		if i, ok := position[record.ParentID]; ok {
			top[i].Replies = append(top[i].Replies, viewOf(record))
		} else {
			// Parent deleted or re-parented away; show as top-level.
			top = append(top, viewOf(record))
			position[record.ID] = len(top) - 1
		}
	}

	return top, nil
}

func viewOf(c Comment) View {
	name := strings.TrimSpace(c.Nickname)
	if name == "" {
		name = "Anonymous"
	}
	return View{
		ID:          c.ID,
		DisplayName: name,
		Content:     c.Content,
		DisplayTime: c.CreatedAt.UTC().Format("2006-01-02 15:04"),
	}
}
