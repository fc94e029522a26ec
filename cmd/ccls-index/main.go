// Adapted from the teacher's cmd/lsif-semanticdb/main.go: a kingpin
// flag set wired to one Indexer.Index() call, printing progress dots
// while it runs. main here fans the same shape out to many
// translation units: discover them under a project root, run each
// through tsfrontend.Frontend in parallel (golang.org/x/sync/errgroup,
// the pattern vovakirdan-surge's internal/driver/parallel.go uses for
// per-module compilation), and write one snapshot per input.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin"
	"golang.org/x/sync/errgroup"

	"github.com/dadada1995/ccls/internal/ccindex"
	"github.com/dadada1995/ccls/internal/log"
	"github.com/dadada1995/ccls/internal/pathcache"
	"github.com/dadada1995/ccls/internal/project"
	"github.com/dadada1995/ccls/internal/snapshotcache"
	"github.com/dadada1995/ccls/internal/tsfrontend"
)

var (
	app = kingpin.New("ccls-index", "Cross-reference indexer for C and C++ translation units.")

	projectRoot = app.Flag("root", "Project root to walk for translation units.").Default(".").String()
	configPath  = app.Flag("config", "Path to the project TOML manifest.").Default("ccls-project.toml").String()
	outDir      = app.Flag("out", "Directory to write one .mp snapshot per translation unit into.").Default("ccls-out").String()
	parallelism = app.Flag("jobs", "Maximum number of translation units indexed concurrently.").Default("4").Int()
	cacheDir    = app.Flag("cache", "Directory for the on-disk snapshot cache (empty disables caching).").Default("").String()
	textOut     = app.Flag("text", "Also print each snapshot's canonical text form to stdout.").Bool()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := run(); err != nil {
		log.Errorln(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	units, err := project.Discover(*projectRoot, cfg)
	if err != nil {
		return fmt.Errorf("discover translation units: %w", err)
	}
	log.Infof("discovered %d translation units under %s", len(units), *projectRoot)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	paths, err := pathcache.New(4096)
	if err != nil {
		return err
	}

	var cache *snapshotcache.Cache
	if *cacheDir != "" {
		cache, err = snapshotcache.Open(*cacheDir)
		if err != nil {
			return fmt.Errorf("open snapshot cache: %w", err)
		}
	}

	fe := tsfrontend.New()

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*parallelism)

	for _, unit := range units {
		unit := unit
		g.Go(func() error {
			return indexOne(ctx, fe, paths, cache, unit)
		})
	}

	return g.Wait()
}

func indexOne(ctx context.Context, fe *tsfrontend.Frontend, paths *pathcache.Cache, cache *snapshotcache.Cache, unit project.TranslationUnit) error {
	canonical, err := paths.Canonical(unit.Path)
	if err != nil {
		return fmt.Errorf("canonicalize %s: %w", unit.Path, err)
	}

	var digest snapshotcache.Digest
	if cache != nil {
		source, err := os.ReadFile(unit.Path)
		if err != nil {
			return fmt.Errorf("read %s: %w", unit.Path, err)
		}
		digest = snapshotcache.Sum(source, unit.Args)
		if cached, ok, err := cache.Get(digest); err != nil {
			return err
		} else if ok {
			return writeOutputs(cached, unit.Path)
		}
	}

	snapshot, err := ccindex.Parse(ctx, canonical, unit.Args, fe)
	if err != nil {
		log.Warnln(fmt.Sprintf("index %s: %v", unit.Path, err))
		return nil
	}
	reportDiagnostics(unit.Path, snapshot)
	if snapshot.Incomplete {
		return nil
	}

	if cache != nil {
		if err := cache.Put(digest, snapshot); err != nil {
			log.Warnln(fmt.Sprintf("cache %s: %v", unit.Path, err))
		}
	}

	return writeOutputs(snapshot, unit.Path)
}

// reportDiagnostics surfaces the non-fatal error kinds a parse can
// accumulate without failing it (spec.md §7): a cancelled partial
// parse, any location fields clamped on overflow, and the per-
// occurrence detail behind Stats' aggregate counters.
func reportDiagnostics(sourcePath string, snapshot *ccindex.IndexedFile) {
	if snapshot.Incomplete {
		log.Warnln((&ccindex.CancelledError{Filename: sourcePath}).Error())
	}
	if s := snapshot.Stats; s.FileIDClamped+s.LineClamped+s.ColumnClamped > 0 {
		log.Warnln((&ccindex.LocationOverflowError{
			FileIDClamped: s.FileIDClamped,
			LineClamped:   s.LineClamped,
			ColumnClamped: s.ColumnClamped,
		}).Error())
	}
	for _, diag := range snapshot.Diagnostics {
		log.Warnln(fmt.Sprintf("%s: %v", sourcePath, diag))
	}
}

func writeOutputs(snapshot *ccindex.IndexedFile, sourcePath string) error {
	outPath := filepath.Join(*outDir, filepath.Base(sourcePath)+".mp")
	if err := ccindex.WriteSnapshotFile(snapshot, outPath); err != nil {
		return fmt.Errorf("write snapshot for %s: %w", sourcePath, err)
	}
	if *textOut {
		fmt.Println(snapshot.ToText())
	}
	return nil
}

func loadConfig(path string) (*project.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &project.Config{}, nil
	}
	return project.Load(path)
}
