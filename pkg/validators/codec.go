package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// codec keeps numbers as json.Number, sorts the table keys for stable output
// and leaves HTML characters unescaped.
var codec = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

var (
	// ErrNotObject is returned when a file holds valid JSON that is not an object.
	ErrNotObject = errors.New("validator file is not a JSON object")
	// ErrEmptyFile is returned for files with no JSON content.
	ErrEmptyFile = errors.New("empty file")
)

// decodeRecord parses one validator file, keeping field order and the raw
// text of every value.
func decodeRecord(data []byte) (*Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	// full decode first: it rejects syntax errors and trailing data
	var v interface{}
	if err := codec.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, ok := v.(map[string]interface{}); !ok {
		return nil, ErrNotObject
	}

	iter := codec.BorrowIterator(data)
	defer codec.ReturnIterator(iter)

	rec := newRecord()
	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		rec.setRaw(field, it.SkipAndReturnBytes())
		return it.Error == nil
	})
	if iter.Error != nil {
		return nil, fmt.Errorf("decode json: %w", iter.Error)
	}
	return rec, nil
}

// encodeTable renders the table as a JSON object indented by two spaces.
func encodeTable(t Table) ([]byte, error) {
	if t == nil {
		t = Table{}
	}
	compact, err := codec.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode validator table: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("indent validator table: %w", err)
	}
	return out.Bytes(), nil
}
