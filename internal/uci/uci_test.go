package uci

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

func run(t *testing.T, input string, opts ...Option) (*UCI, string) {
	t.Helper()
	var out bytes.Buffer
	u := New(engine.NewEngine(1), append(opts, WithIO(strings.NewReader(input), &out))...)
	if err := u.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return u, out.String()
}

func lines(out string) []string {
	return strings.Split(strings.TrimSpace(out), "\n")
}

func TestHandshake(t *testing.T) {
	_, out := run(t, "uci\nisready\nquit\n")
	ls := lines(out)
	if ls[0] != "id name chesscore" {
		t.Errorf("first line %q", ls[0])
	}
	if ls[len(ls)-2] != "uciok" || ls[len(ls)-1] != "readyok" {
		t.Errorf("handshake ended with %q", ls[len(ls)-2:])
	}
	if !strings.Contains(out, "option name Hash type spin") {
		t.Error("Hash option not announced")
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"startpos", "position startpos", board.StartFEN},
		{"startpos moves", "position startpos moves e2e4 e7e5", "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2"},
		{"fen", "position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1", "4k3/8/8/8/8/8/8/4K2R w K - 0 1"},
		{"fen moves", "position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1 moves e1g1", "4k3/8/8/8/8/8/8/5RK1 b - - 1 1"},
		{"bad fen keeps position", "position startpos moves e2e4\nposition fen nonsense", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
		{"stops at bad move", "position startpos moves e2e4 e2e4 d7d5", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, _ := run(t, tc.input+"\nquit\n")
			if got := u.position.FEN(); got != tc.want {
				t.Errorf("FEN = %q, want %q", got, tc.want)
			}
			if u.position.Ply() != 0 {
				t.Errorf("ply %d, want 0 at the root", u.position.Ply())
			}
		})
	}
}

func TestPositionWarnings(t *testing.T) {
	_, out := run(t, "position startpos moves e2e5\nquit\n")
	if !strings.Contains(out, "info string") || !strings.Contains(out, "e2e5") {
		t.Errorf("no warning for illegal move:\n%s", out)
	}
}

func TestGoDepth(t *testing.T) {
	_, out := run(t, "position startpos\ngo depth 3\n")
	ls := lines(out)

	infos := 0
	for _, l := range ls {
		if strings.HasPrefix(l, "info depth") {
			infos++
			if !strings.Contains(l, " pv ") {
				t.Errorf("info line without pv: %q", l)
			}
		}
	}
	if infos != 3 {
		t.Errorf("%d info lines, want 3", infos)
	}

	last := ls[len(ls)-1]
	if !strings.HasPrefix(last, "bestmove ") {
		t.Fatalf("last line %q", last)
	}
	if _, err := board.ParseMove(strings.TrimPrefix(last, "bestmove "), board.NewPosition()); err != nil {
		t.Errorf("bestmove not legal: %v", err)
	}
}

func TestGoMateScore(t *testing.T) {
	_, out := run(t, "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 4\n")
	if !strings.Contains(out, "score mate 1") {
		t.Errorf("mate not reported:\n%s", out)
	}
	if !strings.Contains(out, "bestmove a1a8") {
		t.Errorf("wrong best move:\n%s", out)
	}
}

func TestStopInfinite(t *testing.T) {
	start := time.Now()
	_, out := run(t, "go infinite\nstop\nquit\n")
	if time.Since(start) > 10*time.Second {
		t.Error("stop did not end the search promptly")
	}
	if strings.Count(out, "bestmove ") != 1 {
		t.Errorf("want exactly one bestmove:\n%s", out)
	}
}

func TestParseGoOptions(t *testing.T) {
	opts := parseGoOptions(strings.Fields("wtime 60000 btime 30000 winc 1000 binc 500 movestogo 20 depth 7"))
	want := GoOptions{
		Depth:     7,
		WTime:     time.Minute,
		BTime:     30 * time.Second,
		WInc:      time.Second,
		BInc:      500 * time.Millisecond,
		MovesToGo: 20,
	}
	if opts != want {
		t.Errorf("got %+v, want %+v", opts, want)
	}

	if opts := parseGoOptions([]string{"infinite", "depth"}); !opts.Infinite || opts.Depth != 0 {
		t.Errorf("got %+v", opts)
	}
}

func TestSearchConfig(t *testing.T) {
	u := New(engine.NewEngine(1))
	now := time.Now()

	cfg := u.searchConfig(GoOptions{MoveTime: time.Second}, now)
	if got := cfg.Deadline.Sub(now); got != 950*time.Millisecond {
		t.Errorf("movetime budget %v", got)
	}

	cfg = u.searchConfig(GoOptions{Depth: 4}, now)
	if !cfg.Deadline.IsZero() || cfg.Depth != 4 {
		t.Errorf("depth-only config %+v", cfg)
	}

	cfg = u.searchConfig(GoOptions{Infinite: true, WTime: time.Minute}, now)
	if !cfg.Infinite || !cfg.Deadline.IsZero() {
		t.Errorf("infinite config %+v", cfg)
	}
}

func TestSetOption(t *testing.T) {
	defer func() { board.DebugAudit = false }()

	u, out := run(t, "setoption name Hash value 4\nsetoption name Debug value true\nsetoption name Persist value true\nsetoption name Bogus value 1\nquit\n")
	if u.hashMB != 4 || u.engine.Table().Len() != 4<<20/16-2 {
		t.Errorf("hash %d, table %d", u.hashMB, u.engine.Table().Len())
	}
	if !board.DebugAudit {
		t.Error("Debug option not applied")
	}
	if u.persist {
		t.Error("Persist enabled without a store")
	}
	if strings.Count(out, "info string") != 2 {
		t.Errorf("want two warnings:\n%s", out)
	}
}

func TestDebugOptionStopsSearch(t *testing.T) {
	defer func() { board.DebugAudit = false }()

	// Without quit, Run waits at EOF for a search still in progress
	_, out := run(t, "go infinite\nsetoption name Debug value true\nisready\n")
	best := strings.Index(out, "bestmove ")
	ready := strings.Index(out, "readyok")
	if best < 0 || ready < best {
		t.Errorf("search not stopped before the option changed:\n%s", out)
	}
	if !board.DebugAudit {
		t.Error("Debug option not applied")
	}
}

func TestStorePersistence(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, out := run(t, "position startpos\ngo depth 2\nperft 2\nperft 2\n", WithStore(store))

	a, err := store.LoadAnalysis(board.NewPosition().Key())
	if err != nil {
		t.Fatalf("analysis not saved: %v\n%s", err, out)
	}
	if a.Depth != 2 || a.FEN != board.StartFEN || a.BestMove == "" || a.Session == "" {
		t.Errorf("saved %+v", a)
	}

	if n, err := store.LoadPerft(board.StartFEN, 2); err != nil || n != 400 {
		t.Errorf("perft cache %d, %v", n, err)
	}
	if !strings.Contains(out, "Nodes: 400\n") || !strings.Contains(out, "Nodes: 400 (cached)") {
		t.Errorf("perft output:\n%s", out)
	}
}

func TestDisplayAndEval(t *testing.T) {
	_, out := run(t, "d\neval\nquit\n")
	if !strings.Contains(out, "fen: "+board.StartFEN) {
		t.Errorf("d output:\n%s", out)
	}
	if !strings.Contains(out, "eval 0\n") {
		t.Errorf("eval output:\n%s", out)
	}
}
