package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
)

// Storage key prefixes
const (
	prefixAnalysis = "analysis/"
	prefixPerft    = "perft/"
)

// ErrNotFound is returned when no record exists for a key.
var ErrNotFound = errors.New("storage: not found")

// Analysis is the outcome of one search, keyed by position fingerprint.
type Analysis struct {
	Key      uint64    `json:"key"`
	FEN      string    `json:"fen"`
	BestMove string    `json:"best_move"`
	Score    int       `json:"score"`
	Depth    int       `json:"depth"`
	Nodes    uint64    `json:"nodes"`
	PV       []string  `json:"pv,omitempty"`
	Session  string    `json:"session,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}

// Store wraps BadgerDB for persistent analysis and perft results.
type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

// Open opens (or creates) a store in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", dir, err)
	}
	return &Store{db: db, log: zerolog.Nop()}, nil
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory store: %w", err)
	}
	return &Store{db: db, log: zerolog.Nop()}, nil
}

// SetLogger sets the logger used for import diagnostics.
func (s *Store) SetLogger(l zerolog.Logger) {
	s.log = l
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func analysisKey(key uint64) []byte {
	return []byte(fmt.Sprintf("%s%016x", prefixAnalysis, key))
}

func perftKey(fen string, depth int) []byte {
	return []byte(prefixPerft + strconv.Itoa(depth) + "/" + fen)
}

// SaveAnalysis stores a, unless a deeper analysis of the same position is
// already stored.
func (s *Store) SaveAnalysis(a Analysis) error {
	if a.SavedAt.IsZero() {
		a.SavedAt = time.Now()
	}

	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		k := analysisKey(a.Key)
		item, err := txn.Get(k)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			var old Analysis
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &old)
			}); err != nil {
				return err
			}
			if old.Depth > a.Depth {
				return nil
			}
		}
		return txn.Set(k, data)
	})
}

// LoadAnalysis returns the stored analysis for the position key.
func (s *Store) LoadAnalysis(key uint64) (Analysis, error) {
	var a Analysis

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(analysisKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &a)
		})
	})

	return a, err
}

// SavePerft caches the leaf count of fen at depth.
func (s *Store) SavePerft(fen string, depth int, nodes uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(fen, depth), []byte(strconv.FormatUint(nodes, 10)))
	})
}

// LoadPerft returns a cached leaf count.
func (s *Store) LoadPerft(fen string, depth int) (uint64, error) {
	var nodes uint64

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(fen, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			n, err := strconv.ParseUint(string(val), 10, 64)
			nodes = n
			return err
		})
	})

	return nodes, err
}

// Export writes every stored analysis to w as zstd-compressed JSON lines and
// returns how many were written.
func (s *Store) Export(w io.Writer) (int, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return 0, fmt.Errorf("create zstd encoder: %w", err)
	}

	count := 0
	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixAnalysis)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(val []byte) error {
				if _, err := enc.Write(val); err != nil {
					return err
				}
				_, err := enc.Write([]byte{'\n'})
				return err
			}); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		enc.Close()
		return count, fmt.Errorf("export: %w", err)
	}

	if err := enc.Close(); err != nil {
		return count, fmt.Errorf("flush export: %w", err)
	}
	return count, nil
}

// Import reads an Export stream and saves each analysis. Malformed lines
// are skipped. It returns how many records were read.
func (s *Store) Import(r io.Reader) (int, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	count := 0
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		var a Analysis
		if err := json.Unmarshal(scanner.Bytes(), &a); err != nil {
			s.log.Warn().Err(err).Int("line", line).Msg("skipping malformed analysis")
			continue
		}
		if err := s.SaveAnalysis(a); err != nil {
			return count, err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("import: %w", err)
	}
	return count, nil
}
