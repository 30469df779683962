package main

import (
	"flag"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	hashMB     = flag.Int("hash", envInt("CHESSCORE_HASH", uci.DefaultHashMB), "PV table size in MB")
	dbDir      = flag.String("db", os.Getenv("CHESSCORE_DB"), "analysis store directory (empty = default data dir, \"none\" = disabled)")
	logLevel   = flag.String("log-level", envString("CHESSCORE_LOG", "warn"), "log level: debug, info, warn, error")
	exportPath = flag.String("export", "", "write the analysis store to this file (zstd JSON lines) and exit")
)

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

func main() {
	flag.Parse()

	// UCI owns stdout; diagnostics go to stderr
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	store := openStore(log)
	if store != nil {
		defer store.Close()
	}

	if *exportPath != "" {
		if store == nil {
			log.Fatal().Msg("no analysis store to export")
		}
		if err := export(store, *exportPath, log); err != nil {
			log.Fatal().Err(err).Msg("export failed")
		}
		return
	}

	eng := engine.NewEngine(*hashMB)
	eng.SetLogger(log.With().Str("component", "engine").Logger())

	protocol := uci.New(eng,
		uci.WithStore(store),
		uci.WithLogger(log.With().Str("component", "uci").Logger()),
		uci.WithHash(*hashMB),
	)
	if err := protocol.Run(); err != nil {
		log.Error().Err(err).Msg("reading commands")
	}
}

// openStore opens the analysis store selected by -db, or returns nil when
// it is disabled or cannot be opened.
func openStore(log zerolog.Logger) *storage.Store {
	dir := *dbDir
	if dir == "none" {
		return nil
	}
	if dir == "" {
		d, err := storage.DatabaseDir()
		if err != nil {
			log.Warn().Err(err).Msg("no data directory, analysis store disabled")
			return nil
		}
		dir = d
	}

	store, err := storage.Open(dir)
	if err != nil {
		log.Warn().Err(err).Msg("analysis store disabled")
		return nil
	}
	store.SetLogger(log.With().Str("component", "storage").Logger())
	log.Debug().Str("dir", dir).Msg("analysis store opened")
	return store
}

func export(store *storage.Store, path string, log zerolog.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	n, err := store.Export(f)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info().Int("records", n).Str("path", path).Msg("analysis exported")
	return nil
}
