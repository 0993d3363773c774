package vector

import (
	"errors"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"

	"github.com/kittclouds/parsekit/pkg/match"
)

func TestStore_RoundTrip(t *testing.T) {
	fs, err := mem.NewFS()
	if err != nil {
		t.Fatal(err)
	}

	// 1. Create and Record
	{
		s, err := NewStore(fs, "index.bin", 32)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Add("ran", []string{"the", "dog", "ran"}); err != nil {
			t.Fatal(err)
		}
		if err := s.Add("done", []string{"we", "are", "all", "done"}); err != nil {
			t.Fatal(err)
		}
		src := match.MustSource("greet",
			[]match.Content{match.Literal("hello"), match.Optional{Contents: match.Words("there")}, match.Literal("world")},
			match.Words("hi"), 1)
		if err := s.AddSource(src); err != nil {
			t.Fatal(err)
		}
		if err := s.Save(); err != nil {
			t.Fatal(err)
		}
	}

	// 2. Load and Query
	{
		s2, err := NewStore(fs, "index.bin", 0)
		if err != nil {
			t.Fatal(err)
		}
		if s2.Dimension() != 32 {
			t.Errorf("expected stored dimension 32, got %d", s2.Dimension())
		}
		if s2.Len() != 3 {
			t.Fatalf("expected 3 templates, got %d", s2.Len())
		}

		results, err := s2.Search([]string{"The", "dog", "ran", "away"}, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) == 0 || results[0] != "ran" {
			t.Errorf("expected top result ran, got %v", results)
		}

		results, err = s2.Search([]string{"hello", "there", "world"}, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 || results[0] != "greet" {
			t.Errorf("expected [greet], got %v", results)
		}
	}
}

func TestStore_Errors(t *testing.T) {
	fs, err := mem.NewFS()
	if err != nil {
		t.Fatal(err)
	}

	s, err := NewStore(fs, "missing.bin", 8)
	if err != nil {
		t.Fatalf("missing file should start an empty store: %v", err)
	}
	if got, err := s.Search([]string{"x"}, 3); err != nil || got != nil {
		t.Errorf("empty store search = %v, %v", got, err)
	}

	if err := s.AddVector("short", []float32{1, 2}); !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}
	if err := s.Add("a", []string{"x"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add("a", []string{"y"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}

	if err := hackpadfs.WriteFullFile(fs, "corrupt.bin", []byte("not gob"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(fs, "corrupt.bin", 8); err == nil {
		t.Error("expected decode error for corrupt index")
	}
}

func TestEmbed(t *testing.T) {
	v := Embed(nil, 16)
	if len(v) != 16 || v[15] != 1 {
		t.Fatalf("empty bag should be the bias vector, got %v", v)
	}
	var sum float32
	for _, x := range Embed([]string{"Dog", "dog", ""}, 16)[:15] {
		sum += x
	}
	if sum != 2 {
		t.Errorf("expected two counted words, got %v", sum)
	}
	if len(Embed([]string{"a"}, 0)) != 2 {
		t.Error("dimension below 2 should clamp to 2")
	}
}
