package enrich

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// taskTimeout bounds one whole enrichment run; the model call itself already
// carries a 300s client timeout.
const taskTimeout = 310 * time.Second

var ErrNotFound = errors.New("bookmark not found")

type (
	Summarizer interface {
		Summarize(ctx context.Context, text, model string) (string, error)
	}

	// Store is the enricher's own view of persistence. Implementations must
	// not share the request-scoped connection: a task outlives its request.
	Store interface {
		// GetBookmark returns the bookmark's title, or ErrNotFound.
		GetBookmark(ctx context.Context, id uuid.UUID) (string, error)
		CommitSummary(ctx context.Context, id uuid.UUID, summary, category string, tags []string) error
	}

	Enricher struct {
		pool       *Pool
		store      Store
		summarizer Summarizer
		logger     *zap.SugaredLogger
	}
)

func NewEnricher(pool *Pool, store Store, summarizer Summarizer, logger *zap.SugaredLogger) *Enricher {
	return &Enricher{
		pool:       pool,
		store:      store,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Submit queues enrichment for a bookmark and returns immediately. The
// outcome is only ever observable through the persisted record: on success
// the summary, category and tags are committed in one write; on any failure
// the pending sentinel stays untouched.
func (e *Enricher) Submit(bookmarkID, content, model string) {
	e.pool.Submit(func() {
		e.enrich(bookmarkID, content, model)
	})
}

func (e *Enricher) enrich(bookmarkID, content, model string) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	id, err := uuid.Parse(bookmarkID)
	if err != nil {
		e.logger.Errorw("invalid bookmark id for enrichment", "id", bookmarkID, "err", err)
		return
	}

	title, err := e.store.GetBookmark(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Deleted before the task ran; an expected race.
			e.logger.Infow("bookmark gone before enrichment", "id", bookmarkID)
		} else {
			e.logger.Errorw("load bookmark for enrichment", "id", bookmarkID, "err", err)
		}
		return
	}
	e.logger.Infow("enrichment started", "id", bookmarkID, "title", title)

	summary, err := e.summarizer.Summarize(ctx, NormalizeHeadings(content), model)
	if err != nil || summary == "" {
		e.logger.Errorw("summary generation failed, keeping pending sentinel", "id", bookmarkID, "err", err)
		return
	}

	category, keywords := ParseSummaryFields(summary)
	tags := SplitKeywords(keywords)
	e.logger.Infow("summary parsed", "id", bookmarkID, "category", category, "tags", tags)

	if err := e.store.CommitSummary(ctx, id, summary, category, tags); err != nil {
		e.logger.Errorw("commit summary", "id", bookmarkID, "err", err)
		return
	}
	e.logger.Infow("bookmark enriched", "id", bookmarkID)
}
