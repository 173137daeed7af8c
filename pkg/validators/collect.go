package validators

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"facette.io/natsort"

	"github.com/LumeraProtocol/validator-registry/pkg/logtrace"
)

const fileExt = ".json"

type collectOptions struct {
	exclude map[string]struct{}
}

// CollectOption tunes Collect.
type CollectOption func(*collectOptions)

// WithExclude skips files with the given base names.
func WithExclude(names ...string) CollectOption {
	return func(o *collectOptions) {
		for _, name := range names {
			if name != "" {
				o.exclude[name] = struct{}{}
			}
		}
	}
}

// Collect reads every *.json file directly inside dir and returns the
// validators keyed by secp. Unreadable or malformed files are logged and
// skipped; only a failure to list dir is returned as an error. When two files
// share a secp key the one read later wins.
func Collect(ctx context.Context, dir string, opts ...CollectOption) (Table, error) {
	table, _, err := collect(ctx, dir, opts...)
	return table, err
}

// collect is Collect that also reports the files it skipped.
func collect(ctx context.Context, dir string, opts ...CollectOption) (Table, []string, error) {
	o := collectOptions{exclude: map[string]struct{}{}}
	for _, opt := range opts {
		opt(&o)
	}

	files, err := listJSONFiles(dir, o.exclude)
	if err != nil {
		return nil, nil, err
	}

	table := Table{}
	sources := make(map[string]string, len(files))
	var skipped []string

	for _, path := range files {
		rec, err := readRecord(path)
		if err == nil {
			err = rec.applyNameFallback(rec.Secp())
		}
		if err != nil {
			logtrace.Warn(ctx, "Failed to read validator file", logtrace.Fields{
				logtrace.FieldModule: "validators",
				logtrace.FieldFile:   path,
				logtrace.FieldError:  err.Error(),
			})
			skipped = append(skipped, path)
			continue
		}

		secp := rec.Secp()

		if prev, ok := sources[secp]; ok {
			logtrace.Debug(ctx, "Duplicate secp key, later file replaces earlier", logtrace.Fields{
				logtrace.FieldModule: "validators",
				logtrace.FieldSecp:   secp,
				"previous":           prev,
				logtrace.FieldFile:   path,
			})
		}
		table[secp] = rec
		sources[secp] = path
	}

	logtrace.Debug(ctx, "Collected validators", logtrace.Fields{
		logtrace.FieldModule:  "validators",
		logtrace.FieldDir:     dir,
		logtrace.FieldCount:   len(table),
		logtrace.FieldSkipped: len(skipped),
	})
	return table, skipped, nil
}

// listJSONFiles returns the *.json regular files of dir in natural order.
func listJSONFiles(dir string, exclude map[string]struct{}) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read validator directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		// hidden files are ignored, as a shell glob would
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		if _, skip := exclude[name]; skip {
			continue
		}
		names = append(names, name)
	}
	natsort.Sort(names)

	files := make([]string, len(names))
	for i, name := range names {
		files[i] = filepath.Join(dir, name)
	}
	return files, nil
}

func readRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return decodeRecord(data)
}
