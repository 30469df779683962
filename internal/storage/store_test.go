package storage

import (
	"bytes"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAnalysisRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LoadAnalysis(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadAnalysis on empty store: %v", err)
	}

	a := Analysis{Key: 42, FEN: "startpos", BestMove: "e2e4", Score: 35, Depth: 6, Nodes: 12345, PV: []string{"e2e4", "e7e5"}}
	if err := s.SaveAnalysis(a); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadAnalysis(42)
	if err != nil {
		t.Fatal(err)
	}
	if got.BestMove != "e2e4" || got.Depth != 6 || len(got.PV) != 2 || got.SavedAt.IsZero() {
		t.Errorf("loaded %+v", got)
	}
}

func TestSaveAnalysisKeepsDeeper(t *testing.T) {
	tests := []struct {
		name      string
		second    Analysis
		wantMove  string
		wantDepth int
	}{
		{"shallower ignored", Analysis{Key: 7, BestMove: "d2d4", Depth: 3}, "e2e4", 5},
		{"equal replaces", Analysis{Key: 7, BestMove: "d2d4", Depth: 5}, "d2d4", 5},
		{"deeper replaces", Analysis{Key: 7, BestMove: "c2c4", Depth: 9}, "c2c4", 9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := openTestStore(t)
			if err := s.SaveAnalysis(Analysis{Key: 7, BestMove: "e2e4", Depth: 5}); err != nil {
				t.Fatal(err)
			}
			if err := s.SaveAnalysis(tc.second); err != nil {
				t.Fatal(err)
			}
			got, err := s.LoadAnalysis(7)
			if err != nil {
				t.Fatal(err)
			}
			if got.BestMove != tc.wantMove || got.Depth != tc.wantDepth {
				t.Errorf("stored %s at depth %d, want %s at %d", got.BestMove, got.Depth, tc.wantMove, tc.wantDepth)
			}
		})
	}
}

func TestPerftCache(t *testing.T) {
	s := openTestStore(t)
	const fen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	if _, err := s.LoadPerft(fen, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadPerft on empty store: %v", err)
	}
	if err := s.SavePerft(fen, 3, 8902); err != nil {
		t.Fatal(err)
	}
	if n, err := s.LoadPerft(fen, 3); err != nil || n != 8902 {
		t.Errorf("LoadPerft = %d, %v", n, err)
	}
	if _, err := s.LoadPerft(fen, 4); !errors.Is(err, ErrNotFound) {
		t.Errorf("depth 4 should miss, got %v", err)
	}
}

func TestExportImport(t *testing.T) {
	src := openTestStore(t)
	for key := uint64(1); key <= 5; key++ {
		if err := src.SaveAnalysis(Analysis{Key: key, BestMove: "e2e4", Depth: int(key)}); err != nil {
			t.Fatal(err)
		}
	}
	// Perft entries are not part of the export
	if err := src.SavePerft("x", 1, 20); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	n, err := src.Export(&buf)
	if err != nil || n != 5 {
		t.Fatalf("Export = %d, %v", n, err)
	}

	dst := openTestStore(t)
	n, err = dst.Import(bytes.NewReader(buf.Bytes()))
	if err != nil || n != 5 {
		t.Fatalf("Import = %d, %v", n, err)
	}
	for key := uint64(1); key <= 5; key++ {
		a, err := dst.LoadAnalysis(key)
		if err != nil || a.Depth != int(key) {
			t.Errorf("key %d: %+v, %v", key, a, err)
		}
	}
}

func TestImportSkipsMalformedLines(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	enc.Write([]byte("{\"key\":9,\"depth\":2}\nnot json\n{\"key\":10,\"depth\":1}\n"))
	enc.Close()

	s := openTestStore(t)
	n, err := s.Import(&buf)
	if err != nil || n != 2 {
		t.Fatalf("Import = %d, %v", n, err)
	}
	if _, err := s.LoadAnalysis(10); err != nil {
		t.Error(err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAnalysis(Analysis{Key: 1, BestMove: "g1f3", Depth: 4}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if a, err := s.LoadAnalysis(1); err != nil || a.BestMove != "g1f3" {
		t.Errorf("reopened store: %+v, %v", a, err)
	}
}

func TestDataDirOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv(EnvDataDir, dir)

	got, err := DataDir()
	if err != nil || got != dir {
		t.Fatalf("DataDir = %q, %v", got, err)
	}
	db, err := DatabaseDir()
	if err != nil || db != filepath.Join(dir, "analysis") {
		t.Errorf("DatabaseDir = %q, %v", db, err)
	}
}

func TestDataDirPlatformDefault(t *testing.T) {
	base := t.TempDir()
	t.Setenv(EnvDataDir, "")
	switch runtime.GOOS {
	case "darwin":
		t.Setenv("HOME", base)
		base = filepath.Join(base, "Library", "Application Support")
	case "windows":
		t.Setenv("APPDATA", base)
	default:
		t.Setenv("XDG_DATA_HOME", base)
	}

	got, err := DataDir()
	if err != nil || got != filepath.Join(base, appName) {
		t.Errorf("DataDir = %q, %v, want %q", got, err, filepath.Join(base, appName))
	}
}
