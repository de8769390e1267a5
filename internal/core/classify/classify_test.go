package classify

import (
	"testing"

	"github.com/Ning0612/Sortrules/internal/domain"
)

func TestClassify_DefaultTable(t *testing.T) {
	c := New(domain.DefaultTable())

	tests := []struct {
		name     string
		expected domain.Category
	}{
		{"photo.jpg", "Images"},
		{"photo.JPG", "Images"},
		{"Report.PDF", "Documents"},
		{"movie.mkv", "Videos"},
		{"song.flac", "Music"},
		{"bundle.tar", "Archives"},
		{"setup.exe", "Programs"},
		{"unknown.xyz", "Others"},
		{"README", "Others"},
		{"archive.tar.gz", "Archives"},
		{"noise.", "Others"},
	}

	for _, tt := range tests {
		got := c.Classify(tt.name)
		if got != tt.expected {
			t.Errorf("Classify(%q) = %s, want %s", tt.name, got, tt.expected)
		}
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// Two rules claiming the same extension: table order decides
	table := domain.Table{
		{Name: "First", Extensions: []string{".dat"}},
		{Name: "Second", Extensions: []string{".dat", ".bin"}},
		{Name: "Rest", Extensions: nil},
	}
	c := New(table)

	if got := c.Classify("x.dat"); got != "First" {
		t.Errorf("Classify(x.dat) = %s, want First", got)
	}
	if got := c.Classify("x.bin"); got != "Second" {
		t.Errorf("Classify(x.bin) = %s, want Second", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := New(domain.DefaultTable())

	first := c.Classify("file.mp3")
	for i := 0; i < 100; i++ {
		if got := c.Classify("file.mp3"); got != first {
			t.Fatalf("Classify changed between calls: %s != %s", got, first)
		}
	}
}

func TestInCategory(t *testing.T) {
	c := New(domain.DefaultTable())

	tests := []struct {
		name     string
		category domain.Category
		expected bool
	}{
		{"photo.png", "Images", true},
		{"photo.PNG", "Images", true},
		{"photo.png", "Documents", false},
		{"README", "Others", false},
		// The catch-all owns no extensions
		{"unknown.xyz", "Others", false},
		{"photo.png", "Missing", false},
	}

	for _, tt := range tests {
		got := c.InCategory(tt.name, tt.category)
		if got != tt.expected {
			t.Errorf("InCategory(%q, %s) = %v, want %v", tt.name, tt.category, got, tt.expected)
		}
	}
}
