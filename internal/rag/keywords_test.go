package rag

import (
	"context"
	"reflect"
	"testing"
)

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       []string
	}{
		{
			name:       "strips punctuation",
			candidates: []string{"上海，", "“厦门”", "(旅行)"},
			want:       []string{"上海", "厦门", "旅行"},
		},
		{
			name:       "drops stopwords",
			candidates: []string{"的", "上海", "今年", "没有"},
			want:       []string{"上海"},
		},
		{
			name:       "drops short bare numbers keeps years",
			candidates: []string{"12", "2023", "上海"},
			want:       []string{"2023", "上海"},
		},
		{
			name:       "deduplicates preserving order",
			candidates: []string{"上海", "厦门", "上海"},
			want:       []string{"上海", "厦门"},
		},
		{
			name:       "caps at eight",
			candidates: []string{"一一", "二二", "三三", "四四", "五五", "六六", "七七", "八八", "九九"},
			want:       []string{"一一", "二二", "三三", "四四", "五五", "六六", "七七", "八八"},
		},
		{
			name:       "all dropped",
			candidates: []string{"的", "了", "，"},
			want:       nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeKeywords(tt.candidates)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeKeywords(%v) = %v, want %v", tt.candidates, got, tt.want)
			}
		})
	}
}

func TestExtractor_LexicalFallback(t *testing.T) {
	// With no completer the extractor goes straight to lexical extraction.
	x := NewExtractor(nil)

	got := x.Extract(context.Background(), "上海 还是 厦门 2023 seafood")
	want := []string{"上海", "还是", "厦门", "2023", "seafood"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestExtractor_RuneFallback(t *testing.T) {
	x := NewExtractor(nil)

	// Single CJK runes do not match the lexical pattern, so the extractor
	// falls back to per-rune candidates minus stopwords.
	got := x.Extract(context.Background(), "猫")
	want := []string{"猫"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}
