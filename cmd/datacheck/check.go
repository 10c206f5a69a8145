package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"alcyxob/fitprogram/internal/catalog"
	"alcyxob/fitprogram/internal/gifurl"
	"alcyxob/fitprogram/internal/resolver"
	"alcyxob/fitprogram/internal/storage"
)

var (
	ErrUnmappedExercises = errors.New("program exercises do not resolve")
	ErrMissingAssets     = errors.New("referenced local assets are missing")
)

// UnmappedExercise is a program entry whose name resolves to nothing.
type UnmappedExercise struct {
	Program string
	Day     int
	Name    string
}

type checkOptions struct {
	AssetsDir string              // empty skips local asset checks
	Bucket    storage.FileStorage // nil skips the bucket scan
}

type report struct {
	Unmapped           []UnmappedExercise
	UnsatisfiedAliases []resolver.UnsatisfiedAlias
	WithoutGifURL      []string
	MissingLocal       []string
	Orphans            []string
	MissingInBucket    []string
}

// Failed returns the conditions that should fail a build, nil if none.
func (r report) Failed() error {
	var err error
	if len(r.Unmapped) > 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %d", ErrUnmappedExercises, len(r.Unmapped)))
	}
	if len(r.MissingLocal) > 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %d", ErrMissingAssets, len(r.MissingLocal)))
	}
	return err
}

// check inspects the bundled data. The returned error is for checks that
// could not run at all, not for findings.
func check(ctx context.Context, exercises *catalog.Catalog, programs *catalog.Programs, names *resolver.Resolver, opts checkOptions) (report, error) {
	var (
		r    report
		errs error
	)

	for _, p := range programs.All() {
		for i, day := range p.WeeklyPlan {
			dayNumber := day.Day
			if dayNumber <= 0 {
				dayNumber = i + 1
			}
			for _, e := range day.Exercises {
				if _, ok := names.Resolve(e.ExerciseName); !ok {
					r.Unmapped = append(r.Unmapped, UnmappedExercise{Program: p.Name, Day: dayNumber, Name: e.ExerciseName})
				}
			}
		}
	}

	r.UnsatisfiedAliases = names.CheckAliases()

	for _, ex := range exercises.All() {
		if ex.GifURL == "" {
			r.WithoutGifURL = append(r.WithoutGifURL, ex.ID)
		}
	}

	if opts.AssetsDir != "" {
		missing, orphans, err := checkLocalAssets(exercises, opts.AssetsDir)
		errs = multierr.Append(errs, err)
		r.MissingLocal, r.Orphans = missing, orphans
	}

	if opts.Bucket != nil {
		missing, err := checkBucket(ctx, exercises, opts.Bucket)
		errs = multierr.Append(errs, err)
		r.MissingInBucket = missing
	}

	return r, errs
}

func checkLocalAssets(exercises *catalog.Catalog, dir string) (missing, orphans []string, err error) {
	referenced := make(map[string]struct{})
	for _, ex := range exercises.All() {
		if ex.LocalThumbnail == "" {
			continue
		}
		rel := filepath.Clean(filepath.FromSlash(ex.LocalThumbnail))
		referenced[rel] = struct{}{}
		if _, statErr := os.Stat(filepath.Join(dir, rel)); statErr != nil {
			missing = append(missing, ex.LocalThumbnail)
		}
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".jpg") {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		if _, ok := referenced[rel]; ok {
			return nil
		}
		if exercises.Has(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))) {
			return nil
		}
		orphans = append(orphans, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		err = fmt.Errorf("scan assets %s: %w", dir, err)
	}
	sort.Strings(orphans)
	return missing, orphans, err
}

// checkBucket lists the bucket once and reports catalog GIFs without an object.
func checkBucket(ctx context.Context, exercises *catalog.Catalog, bucket storage.FileStorage) ([]string, error) {
	keys, err := bucket.ListKeys(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list bucket: %w", err)
	}
	present := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		present[k] = struct{}{}
	}

	var missing []string
	for _, ex := range exercises.All() {
		key, ok := bucketKey(ex.GifURL)
		if !ok {
			continue
		}
		if _, found := present[key]; !found {
			missing = append(missing, key)
		}
	}
	return missing, nil
}

// bucketKey turns a record GifURL into an object key, e.g.
// "exercise-gifs/back/pull-up.gif" -> "back/pull-up.gif".
func bucketKey(gifURL string) (string, bool) {
	i := strings.Index(gifURL, gifurl.BucketMarker+"/")
	if i < 0 {
		return "", false
	}
	key := gifURL[i+len(gifurl.BucketMarker)+1:]
	return key, key != ""
}

func (r report) print(w io.Writer) {
	section := func(title string, n int) {
		fmt.Fprintf(w, "\n== %s (%d)\n", title, n)
	}

	section("unmapped program exercises", len(r.Unmapped))
	for _, u := range r.Unmapped {
		fmt.Fprintf(w, "  %s / day %d: %q\n", u.Program, u.Day, u.Name)
	}
	section("unsatisfiable aliases", len(r.UnsatisfiedAliases))
	for _, a := range r.UnsatisfiedAliases {
		fmt.Fprintf(w, "  %q -> %q %v\n", a.Label, a.Alias.Canonical, a.Alias.Alternates)
	}
	section("exercises without a GIF URL", len(r.WithoutGifURL))
	for _, id := range r.WithoutGifURL {
		fmt.Fprintf(w, "  %s\n", id)
	}
	section("missing local assets", len(r.MissingLocal))
	for _, p := range r.MissingLocal {
		fmt.Fprintf(w, "  %s\n", p)
	}
	section("orphaned local assets", len(r.Orphans))
	for _, p := range r.Orphans {
		fmt.Fprintf(w, "  %s\n", p)
	}
	if r.MissingInBucket != nil {
		section("GIFs missing from bucket", len(r.MissingInBucket))
		for _, k := range r.MissingInBucket {
			fmt.Fprintf(w, "  %s\n", k)
		}
	}
}
