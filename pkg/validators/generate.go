package validators

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"

	"github.com/LumeraProtocol/validator-registry/pkg/logtrace"
	"github.com/LumeraProtocol/validator-registry/pkg/utils"
)

// Target is one validator directory and the two tables built from it.
type Target struct {
	Name     string
	Dir      string
	JSONPath string
	CSVPath  string
}

// Summary describes one completed network pass.
type Summary struct {
	Network    string
	Records    int
	Skipped    []string
	JSONPath   string
	CSVPath    string
	JSONDigest string
	CSVDigest  string
}

// Generate collects the validators of one target and writes its JSON table
// and CSV key/name map, printing a success line to out after each file is
// written. Output files inside Dir are not read back as input.
func Generate(ctx context.Context, target Target, out io.Writer) (Summary, error) {
	if out == nil {
		out = io.Discard
	}
	ctx = logtrace.CtxWithOrigin(ctx, target.Name)
	summary := Summary{
		Network:  target.Name,
		JSONPath: target.JSONPath,
		CSVPath:  target.CSVPath,
	}

	logtrace.Info(ctx, "Collecting validators", logtrace.Fields{
		logtrace.FieldNetwork: target.Name,
		logtrace.FieldDir:     target.Dir,
	})

	table, skipped, err := collect(ctx, target.Dir, WithExclude(target.outputsInDir()...))
	if err != nil {
		return summary, err
	}
	summary.Records = len(table)
	summary.Skipped = skipped

	if err := EmitJSON(ctx, table, summary.JSONPath); err != nil {
		return summary, err
	}
	reportOutput(out, summary.JSONPath, summary.Records)

	if err := EmitCSV(ctx, table, summary.CSVPath); err != nil {
		return summary, err
	}
	reportOutput(out, summary.CSVPath, summary.Records)

	if summary.JSONDigest, err = fileDigest(summary.JSONPath); err != nil {
		return summary, err
	}
	if summary.CSVDigest, err = fileDigest(summary.CSVPath); err != nil {
		return summary, err
	}

	logtrace.Info(ctx, "Network validators generated", logtrace.Fields{
		logtrace.FieldNetwork: target.Name,
		logtrace.FieldCount:   summary.Records,
		logtrace.FieldSkipped: skipped,
		"json_blake3":         summary.JSONDigest,
		"csv_blake3":          summary.CSVDigest,
	})
	return summary, nil
}

// outputsInDir returns the base names of outputs written into Dir itself.
func (t Target) outputsInDir() []string {
	var names []string
	for _, path := range []string{t.JSONPath, t.CSVPath} {
		if path != "" && filepath.Clean(filepath.Dir(path)) == filepath.Clean(t.Dir) {
			names = append(names, filepath.Base(path))
		}
	}
	return names
}

func reportOutput(out io.Writer, path string, count int) {
	fmt.Fprintf(out, "✅ Generated %s with %d validators\n", path, count)
}

func fileDigest(path string) (string, error) {
	sum, err := utils.Blake3HashFile(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(sum), nil
}
