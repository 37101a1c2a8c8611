package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/tidwall/linesplit/core"
	"github.com/tidwall/linesplit/internal/config"
	"github.com/tidwall/linesplit/internal/deadline"
	"github.com/tidwall/linesplit/internal/layer"
	"github.com/tidwall/linesplit/internal/log"
	"github.com/tidwall/linesplit/internal/metrics"
	"github.com/tidwall/linesplit/internal/runner"
	"github.com/tidwall/linesplit/internal/sink"
)

var (
	verbose     bool
	veryVerbose bool
	quiet       bool
	logJSON     bool
	configPath  string
)

func main() {
	gitsha := " (" + core.GitSHA + ")"
	if gitsha == " (0000000)" {
		gitsha = ""
	}
	versionLine := `linesplit version: ` + core.Version + gitsha

	output := os.Stderr
	flag.Usage = func() {
		fmt.Fprintf(output,
			versionLine+`

Usage: linesplit [options] input split output

Split every line of the input layer where it crosses a line of the split
layer. Input and split are GeoJSON files and may be the same file.

Output:
  path.geojson            GeoJSON FeatureCollection ("-" for stdout)
  buntdb:path             buntdb database with a spatial index
  tile38://host:port/key  Tile38 collection

Basic Options:
  -c path     : JSON config file
  -q          : no logging. totally silent output
  -v          : enable verbose logging
  -vv         : enable very verbose logging

Advanced Options:
  --max-iterations num   : worklist pops per splitter, 0 for no cap (default: 10000)
  --index-kind kind      : segment index None/RTree/QuadTree (default: QuadTree)
  --index-geometry num   : minimum points before indexing a line (default: 16)
  --cache-size num       : prepared splitters kept, -1 to disable (default: 256)
  --timeout duration     : stop the run after duration, e.g. 10m
  --metrics path         : write run metrics in the prometheus text format
  --pretty               : indent GeoJSON output
  --log-json             : log in JSON

`,
		)
	}

	// flags that override the config file once it is loaded
	var overrides []func(cfg *config.Config)
	intArg := func(i int, name string, set func(cfg *config.Config, n int)) int {
		i++
		if i < len(os.Args) {
			n, err := strconv.ParseInt(os.Args[i], 10, 64)
			if err == nil {
				overrides = append(overrides, func(cfg *config.Config) {
					set(cfg, int(n))
				})
				return i
			}
		}
		fmt.Fprintf(os.Stderr, "%s must be a valid number\n", name)
		os.Exit(1)
		return i
	}

	// parse non standard args.
	nargs := []string{os.Args[0]}
	for i := 1; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "--help":
			output = os.Stdout
			flag.Usage()
			return
		case "--version":
			fmt.Fprintf(os.Stdout, "%s\n", versionLine)
			return
		case "--max-iterations", "-max-iterations":
			i = intArg(i, "max-iterations", func(cfg *config.Config, n int) {
				cfg.MaxIterations = n
			})
			continue
		case "--index-geometry", "-index-geometry":
			i = intArg(i, "index-geometry", func(cfg *config.Config, n int) {
				cfg.IndexGeometry = n
			})
			continue
		case "--cache-size", "-cache-size":
			i = intArg(i, "cache-size", func(cfg *config.Config, n int) {
				cfg.CacheSize = n
			})
			continue
		case "--index-kind", "-index-kind":
			i++
			if i == len(os.Args) || os.Args[i] == "" {
				fmt.Fprintf(os.Stderr, "index-kind must have a value\n")
				os.Exit(1)
			}
			kind := os.Args[i]
			overrides = append(overrides, func(cfg *config.Config) {
				cfg.IndexKind = kind
			})
			continue
		case "--timeout", "-timeout":
			i++
			if i < len(os.Args) {
				d, err := time.ParseDuration(os.Args[i])
				if err == nil {
					overrides = append(overrides, func(cfg *config.Config) {
						cfg.Timeout = d
					})
					continue
				}
			}
			fmt.Fprintf(os.Stderr, "timeout must be a valid duration\n")
			os.Exit(1)
		case "--metrics", "-metrics":
			i++
			if i == len(os.Args) || os.Args[i] == "" {
				fmt.Fprintf(os.Stderr, "metrics must have a value\n")
				os.Exit(1)
			}
			path := os.Args[i]
			overrides = append(overrides, func(cfg *config.Config) {
				cfg.MetricsPath = path
			})
			continue
		case "--pretty", "-pretty":
			overrides = append(overrides, func(cfg *config.Config) {
				cfg.Pretty = true
			})
			continue
		case "--log-json", "-log-json":
			logJSON = true
			continue
		}
		nargs = append(nargs, os.Args[i])
	}
	os.Args = nargs

	flag.StringVar(&configPath, "c", "", "JSON config file.")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging.")
	flag.BoolVar(&quiet, "q", false, "Quiet logging. Totally silent.")
	flag.BoolVar(&veryVerbose, "vv", false, "Enable very verbose logging.")
	flag.Parse()

	var logw io.Writer = os.Stderr
	if quiet {
		logw = io.Discard
	}
	log.SetOutput(logw)
	if quiet {
		log.Level = 0
	} else if veryVerbose {
		log.Level = 3
	} else if verbose {
		log.Level = 2
	} else {
		log.Level = 1
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	switch args := flag.Args(); len(args) {
	case 0:
	case 3:
		cfg.Input, cfg.Split, cfg.Output = args[0], args[1], args[2]
	default:
		flag.Usage()
		os.Exit(1)
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		flag.Usage()
		os.Exit(1)
	}
	if logJSON || cfg.LogConfig != "" {
		log.LogJSON = true
		if err := log.Build(cfg.LogConfig); err != nil {
			log.Fatal(err)
		}
	}

	log.Infof("linesplit %s%s %d bit (%s/%s)", core.Version, gitsha,
		strconv.IntSize, runtime.GOARCH, runtime.GOOS)

	progress := runner.NewReporter()
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-c
		log.Warnf("signal: %v, canceling", s)
		progress.Cancel()
		// a second signal does not wait for the current feature
		<-c
		os.Exit(2)
	}()

	if err := run(cfg, progress); err != nil {
		if errors.Is(err, runner.ErrCanceled) ||
			errors.Is(err, runner.ErrTimeout) {
			log.Warn(err)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(cfg *config.Config, progress *runner.Reporter) error {
	start := time.Now()
	indexOpts, err := cfg.IndexOptions()
	if err != nil {
		return err
	}
	input, err := layer.LoadFile(cfg.Input, nil)
	if err != nil {
		return err
	}
	split := input
	if !cfg.SameLayer() {
		split, err = layer.LoadFile(cfg.Split, nil)
		if err != nil {
			return err
		}
	}
	describe := func(kind string, l *layer.Layer) {
		b := l.Bounds()
		log.Infof("%s: %s, %d features, %d points, bounds [%g %g %g %g]",
			kind, l.Name(), l.Count(), l.PointCount(),
			b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
	}
	describe("input", input)
	if split != input {
		describe("split", split)
	}
	log.Debugf("fields: %s", strings.Join(input.Fields().Names(), ", "))

	out, err := sink.Open(cfg.Output, sink.Options{
		Schema: input.Fields(),
		CRS:    input.CRS(),
		Pretty: cfg.Pretty,
	})
	if err != nil {
		return err
	}
	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = -1
	}
	m := metrics.New()
	r := runner.New(input, split, out, &runner.Options{
		MaxIterations: maxIterations,
		IndexOptions:  indexOpts,
		CacheSize:     cfg.CacheSize,
		Deadline:      deadline.After(cfg.Timeout),
		Metrics:       m,
		Progress:      progress,
	})
	err = r.Run()
	if c, ok := out.(interface{ Count() int64 }); ok {
		log.Infof("wrote %d features to %s", c.Count(), cfg.Output)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if cfg.MetricsPath != "" {
		if merr := m.WriteFile(cfg.MetricsPath); merr != nil {
			log.Errorf("metrics: %v", merr)
		}
	}
	if err != nil {
		return err
	}
	summary(m, time.Since(start))
	return nil
}

func summary(m *metrics.Metrics, elapsed time.Duration) {
	totals, err := m.Totals()
	if err != nil {
		log.Errorf("metrics: %v", err)
		return
	}
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)
	var parts []string
	for _, name := range names {
		short := strings.TrimSuffix(strings.TrimPrefix(name, "linesplit_"), "_total")
		parts = append(parts, fmt.Sprintf("%s=%.0f", short, totals[name]))
	}
	log.Statf("done in %s: %s", elapsed.Round(time.Millisecond),
		strings.Join(parts, " "))
	if n := log.Warnings(); n > 0 {
		log.Statf("%d warnings", n)
		for _, msg := range log.Summary() {
			log.Statf("  %s", msg)
		}
	}
}
