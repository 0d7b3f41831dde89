package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions_SetDefaults(t *testing.T) {
	var o Options
	o.setDefaults()

	assert.Equal(t, DefaultSettleDelay, o.SettleDelay)
	assert.Contains(t, o.IgnorePatterns, "*.part")
	assert.True(t, o.IgnoreHidden)

	o = Options{IgnorePatterns: []string{}, SettleDelay: time.Second}
	o.setDefaults()
	assert.Equal(t, time.Second, o.SettleDelay)
	assert.Empty(t, o.IgnorePatterns)
	assert.False(t, o.IgnoreHidden)
}

func TestOptions_ShouldIgnore(t *testing.T) {
	var o Options
	o.setDefaults()

	tests := []struct {
		path string
		want bool
	}{
		{"Album/01 - Intro.flac", false},
		{"Album/01 - Intro.flac.part", true},
		{"Album/.DS_Store", true},
		{".staging/Album/01.flac", true},
		{"Album/.hidden.flac", true},
		{"Movie.2020.1080p/movie.mkv", false},
		{"Album/Thumbs.db", true},
		{"Album/DESKTOP.INI", true},
		{"Movie/movie.mkv.!qB", true},
		{"Movie/movie.mkv.aria2", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, o.shouldIgnore(tt.path))
		})
	}
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "added", EventAdded.String())
	assert.Equal(t, "modified", EventModified.String())
	assert.Equal(t, "removed", EventRemoved.String())
}
