package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weidian-scraper/internal/types"
)

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{"absolute", "https://loongbuy.com/", "https://cdn.example/a.jpg", "https://cdn.example/a.jpg"},
		{"root relative", "https://loongbuy.com/search", "/img/a.jpg", "https://loongbuy.com/img/a.jpg"},
		{"protocol relative", "https://loongbuy.com/", "//si.geilicdn.com/a.jpg", "https://si.geilicdn.com/a.jpg"},
		{"empty", "https://loongbuy.com/", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.base, tt.ref))
		})
	}
}

func TestBaseAdapter_ExtractFromDocument(t *testing.T) {
	b := NewBaseAdapter(types.DefaultConfig(), logrus.New())
	doc, err := b.ParseHTML(`<div class="x"><a class="l">  link </a><img class="i"></div>`)
	require.NoError(t, err)

	text, err := b.ExtractText(doc.Selection, ".l")
	require.NoError(t, err)
	assert.Equal(t, types.Present("link"), text)

	_, err = b.ExtractText(doc.Selection, ".missing")
	assert.Error(t, err)

	attr, err := b.ExtractAttribute(doc.Selection, ".i", "src")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "attribute src not found")
	assert.False(t, attr.Found)
}

func TestSleep_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleep(ctx, time.Minute)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
