package service

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aiground/linkdigest/internal/config"
	"github.com/aiground/linkdigest/internal/db"
	"github.com/aiground/linkdigest/internal/scrape"
)

var (
	ErrLoginUserNotFound         = errors.New("user not found")
	ErrLoginPasswordDoesNotMatch = errors.New("password does not match")
	ErrBookmarkNotFound          = errors.New("bookmark not found")
	ErrForbidden                 = errors.New("not the owner of this bookmark")
	ErrDuplicateURL              = errors.New("url already bookmarked")
	ErrEmptyContent              = errors.New("url or content is required")
)

const (
	maxTitleRunes = 255

	// Label used for both the title fallback and the source name of
	// bookmarks created from pasted content.
	directInputLabel = "직접 입력"
)

type (
	// Extractor is the scraping collaborator; empty Content means the
	// extraction failed and the bookmark proceeds without it.
	Extractor interface {
		Extract(ctx context.Context, url string) scrape.Result
	}

	// Enricher queues background summarization; fire-and-forget.
	Enricher interface {
		Submit(bookmarkID, content, model string)
	}

	// Sharer pushes a bookmark's title/summary to an external target.
	Sharer interface {
		ToSlack(ctx context.Context, title, summary string) (string, error)
		ToNotion(ctx context.Context, title, summary string) (string, error)
	}

	Service struct {
		db        *gorm.DB
		cfg       *config.Config
		extractor Extractor
		enricher  Enricher
		sharer    Sharer
		logger    *zap.SugaredLogger
	}

	CreateURLInput struct {
		URL   string
		Title string
		Tags  []string
		Model string
	}

	CreateContentInput struct {
		Content string
		Title   string
		Tags    []string
		Model   string
	}

	UpdateInput struct {
		Title      *string
		URL        *string
		SourceName *string
		Summary    *string
		Tags       []string
	}
)

func NewService(gdb *gorm.DB, cfg *config.Config, extractor Extractor, enricher Enricher, sharer Sharer, l *zap.SugaredLogger) *Service {
	return &Service{
		db:        gdb,
		cfg:       cfg,
		extractor: extractor,
		enricher:  enricher,
		sharer:    sharer,
		logger:    l,
	}
}

func (s *Service) Register(email, pass string) (string, error) {
	hash, err := s.bcryptGen(pass)
	if err != nil {
		return "", errors.Wrap(err, "bcryptGen")
	}
	token := uuid.New().String()
	res := s.db.Create(&db.User{
		Email:    email,
		Password: hash,
		Token:    token,
	})
	if res.Error != nil {
		return "", res.Error
	}
	return token, nil
}

func (s *Service) Login(email, pass string) (string, error) {
	user := db.User{}
	res := s.db.Where("email = ?", email).First(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return "", ErrLoginUserNotFound
		}
		return "", res.Error
	}

	if err := s.bcryptCheck(user.Password, pass); err != nil {
		return "", ErrLoginPasswordDoesNotMatch
	}

	token := uuid.New().String()
	res = s.db.Model(&user).Update("token", token)
	if res.Error != nil {
		return "", errors.Wrap(res.Error, "update token")
	}

	return token, nil
}

// CreateFromURL scrapes the page, persists the bookmark with the pending
// summary sentinel and queues enrichment. The HTTP response does not wait for
// the summary.
func (s *Service) CreateFromURL(ctx context.Context, user *db.User, in CreateURLInput) (*db.Bookmark, error) {
	rawURL := strings.TrimSpace(in.URL)
	if rawURL == "" {
		return nil, ErrEmptyContent
	}

	if s.cfg.DuplicateURLCheck {
		var count int64
		res := s.db.Model(&db.Bookmark{}).Where("url = ?", rawURL).Count(&count)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "duplicate url check")
		}
		if count > 0 {
			return nil, ErrDuplicateURL
		}
	}

	extracted := s.extractor.Extract(ctx, rawURL)
	if extracted.Content == "" {
		s.logger.Warnw("extraction returned no content, proceeding without it", "url", rawURL)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = extracted.Title
	}
	if title == "" {
		title = firstLineAsTitle(extracted.Content)
	}

	return s.create(user, &db.Bookmark{
		Title:      truncateRunes(title, maxTitleRunes),
		URL:        rawURL,
		Content:    extracted.Content,
		Summary:    db.SummaryPending,
		Tags:       pq.StringArray(normalizeTags(in.Tags)),
		SourceName: extracted.SourceName,
		UserID:     user.ID,
	}, in.Model)
}

// CreateFromContent is the pasted-text variant: no scraping, empty URL, the
// provided text is the summarization input.
func (s *Service) CreateFromContent(ctx context.Context, user *db.User, in CreateContentInput) (*db.Bookmark, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = firstLineAsTitle(content)
	}

	return s.create(user, &db.Bookmark{
		Title:      truncateRunes(title, maxTitleRunes),
		URL:        "",
		Content:    content,
		Summary:    db.SummaryPending,
		Tags:       pq.StringArray(normalizeTags(in.Tags)),
		SourceName: directInputLabel,
		UserID:     user.ID,
	}, in.Model)
}

func (s *Service) create(user *db.User, bookmark *db.Bookmark, model string) (*db.Bookmark, error) {
	res := s.db.Create(bookmark)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "create bookmark")
	}

	s.enricher.Submit(bookmark.ID.String(), bookmark.Content, s.resolveModel(model))
	s.logger.Infow("bookmark created", "id", bookmark.ID, "user", user.Email)
	return bookmark, nil
}

// List returns a page of bookmarks. With tag terms the tag search engine
// takes over (owner-only); without, the visible set is the user's own plus
// public bookmarks.
func (s *Service) List(user *db.User, page, perPage int, terms []string) ([]db.Bookmark, int64, error) {
	skip := (page - 1) * perPage

	if len(terms) > 0 {
		return s.SearchByTags(user.ID, terms, skip, perPage)
	}

	visible := s.db.Model(&db.Bookmark{}).
		Where("(user_id = ? OR is_public = ?) AND is_deleted = ?", user.ID, true, false)

	var total int64
	if res := visible.Count(&total); res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "count bookmarks")
	}

	bookmarks := make([]db.Bookmark, 0)
	res := s.db.
		Where("(user_id = ? OR is_public = ?) AND is_deleted = ?", user.ID, true, false).
		Order("created_at DESC").
		Offset(skip).
		Limit(perPage).
		Find(&bookmarks)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "list bookmarks")
	}

	return bookmarks, total, nil
}

// Get returns one bookmark, visible to its owner or anyone when public.
func (s *Service) Get(user *db.User, id uuid.UUID) (*db.Bookmark, error) {
	bookmark, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if bookmark.UserID != user.ID && !bookmark.IsPublic {
		return nil, ErrForbidden
	}
	return bookmark, nil
}

// Update mutates owner-editable fields only; content and read_count are
// never touched here.
func (s *Service) Update(user *db.User, id uuid.UUID, in UpdateInput) (*db.Bookmark, error) {
	bookmark, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if bookmark.UserID != user.ID {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = truncateRunes(strings.TrimSpace(*in.Title), maxTitleRunes)
	}
	if in.URL != nil {
		updates["url"] = strings.TrimSpace(*in.URL)
	}
	if in.SourceName != nil {
		updates["source_name"] = *in.SourceName
	}
	if in.Summary != nil {
		updates["summary"] = *in.Summary
	}
	if in.Tags != nil {
		updates["tags"] = pq.StringArray(normalizeTags(in.Tags))
	}

	if len(updates) > 0 {
		res := s.db.Model(bookmark).Updates(updates)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "update bookmark")
		}
	}

	res := s.db.First(bookmark, "id = ?", id)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "reload bookmark")
	}

	s.writeAudit(user.ID, "bookmark updated", map[string]interface{}{
		"bookmark_id": id.String(),
		"title":       bookmark.Title,
		"url":         bookmark.URL,
	})

	return bookmark, nil
}

// Delete removes a bookmark permanently. Owner only.
func (s *Service) Delete(user *db.User, id uuid.UUID) error {
	bookmark, err := s.load(id)
	if err != nil {
		return err
	}
	if bookmark.UserID != user.ID {
		return ErrForbidden
	}

	res := s.db.Delete(&db.Bookmark{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete bookmark")
	}
	return nil
}

// IncreaseReadCount is the only mutation path for read_count.
func (s *Service) IncreaseReadCount(id uuid.UUID) (*db.Bookmark, error) {
	res := s.db.Model(&db.Bookmark{}).
		Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + 1"))
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "increase read count")
	}
	if res.RowsAffected == 0 {
		return nil, ErrBookmarkNotFound
	}
	return s.load(id)
}

// Share publishes a bookmark: target "users" flips is_public, "slack" and
// "notion" push the summary to the stubbed integrations.
func (s *Service) Share(ctx context.Context, user *db.User, id uuid.UUID, target string, public *bool) (string, error) {
	bookmark, err := s.load(id)
	if err != nil {
		return "", err
	}
	if bookmark.UserID != user.ID {
		return "", ErrForbidden
	}

	switch target {
	case "users":
		visible := true
		if public != nil {
			visible = *public
		}
		res := s.db.Model(bookmark).Update("is_public", visible)
		if res.Error != nil {
			return "", errors.Wrap(res.Error, "update visibility")
		}
		return bookmark.Title, nil
	case "slack":
		return s.sharer.ToSlack(ctx, bookmark.Title, bookmark.Summary)
	case "notion":
		return s.sharer.ToNotion(ctx, bookmark.Title, bookmark.Summary)
	default:
		return "", errors.Errorf("unknown share target: %s", target)
	}
}

// PublicList returns public bookmarks for anonymous readers.
func (s *Service) PublicList(page, perPage int) ([]db.Bookmark, int64, error) {
	skip := (page - 1) * perPage

	var total int64
	res := s.db.Model(&db.Bookmark{}).Where("is_public = ? AND is_deleted = ?", true, false).Count(&total)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "count public bookmarks")
	}

	bookmarks := make([]db.Bookmark, 0)
	res = s.db.
		Where("is_public = ? AND is_deleted = ?", true, false).
		Order("created_at DESC").
		Offset(skip).
		Limit(perPage).
		Find(&bookmarks)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "list public bookmarks")
	}

	return bookmarks, total, nil
}

func (s *Service) PublicGet(id uuid.UUID) (*db.Bookmark, error) {
	bookmark, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !bookmark.IsPublic {
		return nil, ErrBookmarkNotFound
	}
	return bookmark, nil
}

func (s *Service) load(id uuid.UUID) (*db.Bookmark, error) {
	bookmark := db.Bookmark{}
	res := s.db.First(&bookmark, "id = ?", id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBookmarkNotFound
		}
		return nil, res.Error
	}
	return &bookmark, nil
}

// resolveModel enforces the summary-model allow-list.
func (s *Service) resolveModel(model string) string {
	model = strings.TrimSpace(model)
	for _, allowed := range s.cfg.SummaryModelList() {
		if model == allowed {
			return model
		}
	}
	return s.cfg.OllamaModel
}

// A failed audit write never fails the mutation it describes.
func (s *Service) writeAudit(userID uuid.UUID, message string, metadata map[string]interface{}) {
	raw, err := json.Marshal(metadata)
	if err != nil {
		s.logger.Errorw("marshal audit metadata", "err", err)
		return
	}
	res := s.db.Create(&db.AuditLog{
		Level:    "INFO",
		Message:  message,
		Source:   "backend",
		UserID:   userID,
		Metadata: raw,
	})
	if res.Error != nil {
		s.logger.Errorw("write audit log", "err", res.Error)
	}
}

func (s *Service) bcryptGen(pass string) (string, error) {
	passwordHashB, err := bcrypt.GenerateFromPassword([]byte(pass), 14)
	if err != nil {
		return "", errors.Wrap(err, "generate password hash")
	}
	return string(passwordHashB), nil
}

func (s *Service) bcryptCheck(hash, pass string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
}

// firstLineAsTitle falls back to the first content line, capped with an
// ellipsis, or the fixed placeholder when there is nothing to derive.
func firstLineAsTitle(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return directInputLabel
	}
	first := strings.TrimSpace(strings.SplitN(content, "\n", 2)[0])
	if utf8.RuneCountInString(first) > maxTitleRunes {
		return string([]rune(first)[:maxTitleRunes]) + "…"
	}
	return first
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// normalizeTags trims entries and drops empties; the column is never NULL.
func normalizeTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}
