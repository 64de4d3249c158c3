package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTerm(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"개발", []string{"개발"}},
		{"개발, 요리", []string{"개발", "요리"}},
		{"머신-러닝", []string{"머신", "러닝"}},
		{"음식·요리", []string{"음식", "요리"}},
		{"a b\tc", []string{"a", "b", "c"}},
		{" ,- ", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitTerm(tt.in), tt.in)
	}
}

func TestBuildTagPredicate(t *testing.T) {
	owner := uuid.New()

	t.Run("AND across terms, OR within a term", func(t *testing.T) {
		pred, constrained := buildTagPredicate(owner, []string{"개발, 요리", "Docker"})
		require.True(t, constrained)

		sql, args, err := pred.ToSql()
		require.Nil(t, err)

		assert.Equal(t,
			"(user_id = ? AND tags IS NOT NULL AND array_length(tags, 1) > 0 AND "+
				"(EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag LIKE ?) OR "+
				"EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag LIKE ?)) AND "+
				"(EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag LIKE ?)))",
			sql)
		assert.Equal(t, []interface{}{owner, "%개발%", "%요리%", "%Docker%"}, args)
	})

	t.Run("mixed korean and latin terms", func(t *testing.T) {
		pred, constrained := buildTagPredicate(owner, []string{"AI 코딩", "Python"})
		require.True(t, constrained)

		_, args, err := pred.ToSql()
		require.Nil(t, err)

		// (tag contains AI OR tag contains 코딩) AND (tag contains Python):
		// a bookmark tagged ["코딩 스터디", "Python3"] matches, one tagged
		// ["AI", "FastAPI"] does not.
		assert.Equal(t, []interface{}{owner, "%AI%", "%코딩%", "%Python%"}, args)
	})

	t.Run("no terms means no constraint", func(t *testing.T) {
		_, constrained := buildTagPredicate(owner, nil)
		assert.False(t, constrained)
	})

	t.Run("delimiter-only terms mean no constraint", func(t *testing.T) {
		_, constrained := buildTagPredicate(owner, []string{" ", ",-,", "··"})
		assert.False(t, constrained)
	})

	t.Run("empty terms are skipped but real ones still count", func(t *testing.T) {
		pred, constrained := buildTagPredicate(owner, []string{" ", "개발"})
		require.True(t, constrained)

		_, args, err := pred.ToSql()
		require.Nil(t, err)
		assert.Equal(t, []interface{}{owner, "%개발%"}, args)
	})
}
