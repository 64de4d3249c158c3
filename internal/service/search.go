package service

import (
	"regexp"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aiground/linkdigest/internal/db"
)

// termDelimiters splits one query term into its OR'd sub-keywords:
// whitespace, comma, hyphen and middle dot.
var termDelimiters = regexp.MustCompile(`[\s,\-·]+`)

// SplitTerm decomposes a query term into sub-keywords, dropping empties.
// A term that decomposes to nothing contributes no search constraint.
func SplitTerm(term string) []string {
	words := make([]string, 0)
	for _, w := range termDelimiters.Split(term, -1) {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// buildTagPredicate translates query terms into an AND-of-ORs existence
// predicate over the tags array: each term is an OR of substring matches of
// its sub-keywords, a bookmark must satisfy every term, and only the owner's
// bookmarks with a non-empty tag list are candidates. The second return is
// false when no term produced a constraint.
func buildTagPredicate(ownerID uuid.UUID, terms []string) (squirrel.And, bool) {
	pred := squirrel.And{
		squirrel.Expr("user_id = ?", ownerID),
		squirrel.Expr("tags IS NOT NULL"),
		squirrel.Expr("array_length(tags, 1) > 0"),
	}

	constrained := false
	for _, term := range terms {
		words := SplitTerm(term)
		if len(words) == 0 {
			continue
		}
		or := squirrel.Or{}
		for _, word := range words {
			or = append(or, squirrel.Expr(
				"EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag LIKE ?)",
				"%"+word+"%",
			))
		}
		pred = append(pred, or)
		constrained = true
	}

	return pred, constrained
}

// SearchByTags runs the compound tag search: AND across terms, OR within a
// term's sub-keywords, substring match per keyword. Terms that all decompose
// to nothing mean "no valid search" and return an empty page, not everything.
func (s *Service) SearchByTags(ownerID uuid.UUID, terms []string, skip, limit int) ([]db.Bookmark, int64, error) {
	pred, constrained := buildTagPredicate(ownerID, terms)
	if !constrained {
		s.logger.Warnw("tag search produced no usable keyword, returning empty result", "terms", terms)
		return []db.Bookmark{}, 0, nil
	}

	countSQL, countArgs, err := squirrel.
		Select("COUNT(*)").From("bookmarks").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build count sql")
	}

	var total int64
	res := s.db.Raw(countSQL, countArgs...).Scan(&total)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "count matches")
	}

	sql, args, err := squirrel.
		Select("*").From("bookmarks").
		Where(pred).
		OrderBy("created_at DESC").
		Offset(uint64(skip)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build search sql")
	}

	bookmarks := make([]db.Bookmark, 0)
	res = s.db.Raw(sql, args...).Scan(&bookmarks)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "scan matches")
	}

	return bookmarks, total, nil
}
