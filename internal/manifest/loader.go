package manifest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// Manifest field names with reserved meaning. Everything else is metadata.
const (
	fieldAudio    = "audio_filepath"
	fieldText     = "text"
	fieldDuration = "duration"
)

// Scanner limit for one manifest line. Transcripts can be long but a line is
// still one utterance.
const maxLineBytes = 4 * 1024 * 1024

// ErrNoRecords indicates a manifest yielded zero valid records.
var ErrNoRecords = errors.New("no valid records")

// LoadError is a fatal manifest failure: the file could not be read, or no
// line parsed into a valid record.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Result is the outcome of a manifest load.
type Result struct {
	// Records holds the valid utterance records in manifest order.
	Records []Record
	// Skipped counts non-blank lines that failed to parse or validate.
	Skipped int
}

// Load reads a line-delimited JSON manifest. Blank lines are ignored;
// malformed lines are skipped and counted. Load fails with a *LoadError when
// the file cannot be opened or no line yields a valid record.
func Load(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	result := &Result{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		record, err := ParseRecord(line)
		if err != nil {
			result.Skipped++
			continue
		}
		record.ID = len(result.Records)
		result.Records = append(result.Records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(result.Records) == 0 {
		return nil, &LoadError{Path: path, Err: ErrNoRecords}
	}
	return result, nil
}

// ParseRecord decodes one manifest line, preserving the order of pass-through
// fields. json.Unmarshal into a map would lose that order, so the object is
// walked token by token. The record's ID is left for the caller to assign.
func ParseRecord(line []byte) (Record, error) {
	var record Record
	seen := make(map[string]struct{}, 4)

	dec := json.NewDecoder(bytes.NewReader(line))
	tok, err := dec.Token()
	if err != nil {
		return record, fmt.Errorf("decode: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return record, errors.New("line is not a JSON object")
	}

	hasAudio := false
	hasText := false
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return record, fmt.Errorf("decode key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return record, errors.New("object key is not a string")
		}
		if _, dup := seen[key]; dup {
			return record, fmt.Errorf("duplicate field %q", key)
		}
		seen[key] = struct{}{}

		var value any
		if err := dec.Decode(&value); err != nil {
			return record, fmt.Errorf("decode value for %q: %w", key, err)
		}

		switch key {
		case fieldAudio:
			s, ok := value.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return record, fmt.Errorf("%s must be a non-empty string", fieldAudio)
			}
			record.AudioPath = s
			hasAudio = true
		case fieldText:
			s, ok := value.(string)
			if !ok {
				return record, fmt.Errorf("%s must be a string", fieldText)
			}
			record.Text = s
			hasText = true
		case fieldDuration:
			n, ok := value.(float64)
			if !ok {
				return record, fmt.Errorf("%s must be a number", fieldDuration)
			}
			if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
				return record, fmt.Errorf("%s must be finite and non-negative", fieldDuration)
			}
			record.Duration = Seconds(n)
		default:
			record.Metadata.set(key, value)
		}
	}
	if _, err := dec.Token(); err != nil {
		return record, fmt.Errorf("decode: %w", err)
	}

	if !hasAudio {
		return record, fmt.Errorf("missing required field %s", fieldAudio)
	}
	if !hasText {
		return record, fmt.Errorf("missing required field %s", fieldText)
	}
	return record, nil
}
