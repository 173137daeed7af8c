package validators

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/LumeraProtocol/validator-registry/pkg/logtrace"
	"github.com/LumeraProtocol/validator-registry/pkg/utils"
)

// csvHeader is the first row of every key/name map.
var csvHeader = []string{"secp_key", "name"}

// EmitJSON writes the whole table to path as an indented JSON object,
// replacing any existing file.
func EmitJSON(ctx context.Context, table Table, path string) error {
	data, err := encodeTable(table)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logtrace.Info(ctx, "Generated validator JSON", logtrace.Fields{
		logtrace.FieldModule: "validators",
		logtrace.FieldPath:   path,
		logtrace.FieldCount:  len(table),
		logtrace.FieldDigest: utils.GetHashFromBytes(data),
	})
	return nil
}

// EmitCSV writes a secp_key,name row per validator to path, replacing any
// existing file. Rows follow Table.Keys order.
func EmitCSV(ctx context.Context, table Table, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	w.UseCRLF = true

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, secp := range table.Keys() {
		if err := w.Write([]string{secp, table[secp].Name(secp)}); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	logtrace.Info(ctx, "Generated validator CSV", logtrace.Fields{
		logtrace.FieldModule: "validators",
		logtrace.FieldPath:   path,
		logtrace.FieldCount:  len(table),
	})
	return nil
}
