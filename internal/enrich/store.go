package enrich

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/aiground/linkdigest/internal/db"
)

// GormStore backs the enricher with its own gorm sessions; each call runs on
// a connection checked out from the pool for just that call, so tasks never
// piggyback on a request-scoped unit of work.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

func (s *GormStore) GetBookmark(ctx context.Context, id uuid.UUID) (string, error) {
	bookmark := db.Bookmark{}
	res := s.db.WithContext(ctx).Select("id", "title").First(&bookmark, "id = ?", id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", errors.Wrap(res.Error, "load bookmark")
	}
	return bookmark.Title, nil
}

// CommitSummary writes summary, category and tags in a single update. Tags
// are stored as an empty array, never NULL.
func (s *GormStore) CommitSummary(ctx context.Context, id uuid.UUID, summary, category string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	res := s.db.WithContext(ctx).
		Model(&db.Bookmark{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"summary":  summary,
			"category": category,
			"tags":     pq.StringArray(tags),
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update bookmark summary")
	}
	return nil
}
