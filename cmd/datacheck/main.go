// Command datacheck validates the bundled exercise and program data.
//
// It exits 1 when a program exercise does not resolve to the catalog or a
// local asset referenced by the catalog is missing.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"alcyxob/fitprogram/internal/catalog"
	"alcyxob/fitprogram/internal/config"
	"alcyxob/fitprogram/internal/logging"
	"alcyxob/fitprogram/internal/resolver"
	"alcyxob/fitprogram/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("datacheck", flag.ContinueOnError)
	fs.SetOutput(stdout)
	assetsDir := fs.String("assets", "", "asset directory to check local thumbnails against")
	bucket := fs.String("bucket", "", "S3 bucket holding exercise GIFs; empty skips the bucket scan")
	configDir := fs.String("config", ".", "directory containing config.yaml (S3 endpoint and credentials)")
	logLevel := fs.String("log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logging.Setup(logging.LoggerSetupParams{LogLevel: *logLevel, LogToStdout: true})

	exercises, err := catalog.LoadEmbedded()
	if err != nil {
		log.Errorf("load exercises: %s", err)
		return 2
	}
	programs, err := catalog.LoadEmbeddedPrograms()
	if err != nil {
		log.Errorf("load programs: %s", err)
		return 2
	}

	opts := checkOptions{AssetsDir: *assetsDir}
	if *bucket != "" {
		cfg, err := config.LoadConfig(*configDir)
		if err != nil {
			log.Errorf("load config: %s", err)
			return 2
		}
		cfg.S3.BucketName = *bucket
		opts.Bucket, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			log.Errorf("connect bucket: %s", err)
			return 2
		}
	}

	return evaluate(ctx, stdout, exercises, programs, opts)
}

// evaluate runs the checks, prints the findings and maps them to an exit code.
func evaluate(ctx context.Context, stdout io.Writer, exercises *catalog.Catalog, programs *catalog.Programs, opts checkOptions) int {
	r, err := check(ctx, exercises, programs, resolver.New(exercises, nil), opts)
	r.print(stdout)
	if err != nil {
		fmt.Fprintf(stdout, "\ncheck errors: %s\n", err)
		return 2
	}
	if failed := r.Failed(); failed != nil {
		fmt.Fprintf(stdout, "\nFAIL: %s\n", failed)
		return 1
	}
	fmt.Fprintln(stdout, "\nOK")
	return 0
}
