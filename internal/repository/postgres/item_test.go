package postgres

import (
	"testing"
	"time"

	"notes/internal/domain/models/content"

	"github.com/stretchr/testify/assert"
)

func TestBuildWhere_Empty(t *testing.T) {
	where, args := buildWhere(content.ItemFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildWhere_KeywordAndRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	where, args := buildWhere(content.ItemFilter{
		Keyword:     "chart",
		CreatedFrom: &from,
		CreatedTo:   &to,
	})

	assert.Equal(t,
		"WHERE (title ~* $1 OR description ~* $1 OR content ~* $1 OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ~* $1))"+
			" AND created_time >= $2 AND created_time <= $3",
		where)
	assert.Equal(t, []interface{}{"chart", from, to}, args)
}

func TestBuildWhere_RangeOnly(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	where, args := buildWhere(content.ItemFilter{CreatedFrom: &from})
	assert.Equal(t, "WHERE created_time >= $1", where)
	assert.Equal(t, []interface{}{from}, args)
}

func TestBuildSet(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	title := "renamed"
	tags := []string{"a"}

	sets, args := buildSet(&content.ItemPatch{
		Title:       &title,
		Tags:        &tags,
		CreatedTime: now,
	})

	assert.Equal(t, []string{"title = $1", "tags = $2", "created_time = $3"}, sets)
	assert.Equal(t, []interface{}{"renamed", []string{"a"}, now}, args)
}

func TestBuildSet_OnlyTimestamp(t *testing.T) {
	now := time.Now()
	sets, args := buildSet(&content.ItemPatch{CreatedTime: now})

	assert.Equal(t, []string{"created_time = $1"}, sets)
	assert.Equal(t, []interface{}{now}, args)
}

func TestTableNames(t *testing.T) {
	tables := NewTableNames("dev_")
	assert.Equal(t, "dev_echartslist", tables.For("echartslist"))
	assert.Equal(t, "dev_", tables.Prefix())
}
