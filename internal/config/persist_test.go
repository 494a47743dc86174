package config

import (
	"testing"

	"duskfs/internal/domain"
)

func boolPtr(value bool) *bool       { return &value }
func stringPtr(value string) *string { return &value }

func TestMergePrefs(t *testing.T) {
	tests := []struct {
		name   string
		stored filePrefs
		want   Prefs
	}{
		{
			name:   "empty file keeps defaults",
			stored: filePrefs{},
			want:   DefaultPrefs(),
		},
		{
			name:   "stored fields override",
			stored: filePrefs{SortMode: stringPtr("name"), ApparentSize: boolPtr(true)},
			want:   Prefs{SortMode: domain.SortByName, ApparentSize: true},
		},
		{
			name:   "unknown sort mode falls back",
			stored: filePrefs{SortMode: stringPtr("mtime")},
			want:   DefaultPrefs(),
		},
		{
			name:   "partial file merges",
			stored: filePrefs{ApparentSize: boolPtr(true)},
			want:   Prefs{SortMode: domain.SortBySize, ApparentSize: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergePrefs(DefaultPrefs(), tt.stored); got != tt.want {
				t.Errorf("mergePrefs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
