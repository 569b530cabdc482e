package tui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/weekplan/internal/dashboard/store"
	"github.com/felixgeelhaar/weekplan/internal/dashboard/sync"
)

func newTestModel() Model {
	return New(sync.NewEngine(store.New(), nil, nil))
}

func TestRenderTaskTruncatesOnRuneBoundaries(t *testing.T) {
	m := newTestModel()
	task := store.Task{ID: "t1", Title: "週次レビューの準備をする"}

	line := m.renderTask(task, false, 10)

	assert.True(t, utf8.ValidString(line))
	assert.NotContains(t, line, "�")
	assert.Contains(t, line, "週次レビュ…")
}

func TestRenderTaskKeepsShortTitles(t *testing.T) {
	m := newTestModel()
	task := store.Task{ID: "t1", Title: "standup"}

	line := m.renderTask(task, false, 40)

	assert.Contains(t, line, "standup")
	assert.False(t, strings.Contains(line, "…"))
}
