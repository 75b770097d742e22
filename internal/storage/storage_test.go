package storage

import (
	"path/filepath"
	"testing"

	"github.com/five82/ideas/internal/viewstate"
)

func openMem(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoad_EmptyReturnsNil(t *testing.T) {
	s := openMem(t)
	if got := s.Load(); got != nil {
		t.Fatalf("Load = %+v, want nil", got)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := openMem(t)
	state := viewstate.State{Page: 3, ItemsPerPage: 20, SortBy: "title", TotalItems: 87}
	if err := s.Save(state); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got := s.Load()
	if got == nil {
		t.Fatal("Load returned nil after Save")
	}
	want := viewstate.Partial{Page: 3, ItemsPerPage: 20, SortBy: "title", TotalItems: 87}
	if *got != want {
		t.Fatalf("Load = %+v, want %+v", *got, want)
	}
}

func TestLoad_CorruptRecordReturnsNil(t *testing.T) {
	s := openMem(t)
	if err := s.Put(ViewStateKey, []byte("{not json")); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if got := s.Load(); got != nil {
		t.Fatalf("Load = %+v, want nil for corrupt record", got)
	}
}

func TestLoad_PartialRecord(t *testing.T) {
	s := openMem(t)
	if err := s.Put(ViewStateKey, []byte(`{"sortBy":"title"}`)); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	got := s.Load()
	if got == nil || got.SortBy != "title" || got.Page != 0 {
		t.Fatalf("Load = %+v, want only sortBy set", got)
	}
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Save(viewstate.State{Page: 5, ItemsPerPage: 50, SortBy: "-title"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	got := s.Load()
	if got == nil || got.Page != 5 || got.ItemsPerPage != 50 || got.SortBy != "-title" {
		t.Fatalf("Load after reopen = %+v", got)
	}
}
