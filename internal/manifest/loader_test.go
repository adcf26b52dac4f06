package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeManifest(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadCountsRecordsAndSkips(t *testing.T) {
	path := writeManifest(t, `{"audio_filepath":"a.wav","text":"hello world","duration":1.5}

{"audio_filepath":"b.wav","text":""}
not json at all
{"text":"missing audio"}
{"audio_filepath":"c.wav","text":"three","duration":0}
`)

	result, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// records + skipped == non-blank lines
	if got := len(result.Records) + result.Skipped; got != 5 {
		t.Errorf("records+skipped = %d, want 5", got)
	}
	if len(result.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(result.Records))
	}
	if result.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", result.Skipped)
	}

	for i, rec := range result.Records {
		if rec.ID != i {
			t.Errorf("record %d has ID %d", i, rec.ID)
		}
	}
	if !result.Records[0].Duration.Known() || result.Records[0].Duration.Value() != 1.5 {
		t.Errorf("record 0 duration = %+v, want known 1.5", result.Records[0].Duration)
	}
	if result.Records[1].Duration.Known() {
		t.Error("record 1 duration should be unknown")
	}
	if result.Records[2].Duration.Value() != 0 {
		t.Error("record 2 duration should be 0")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("want *LoadError, got %v", err)
	}
}

func TestLoadZeroValidRecords(t *testing.T) {
	path := writeManifest(t, "garbage\n{\"text\":\"no audio\"}\n")
	_, err := Load(path)
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("want ErrNoRecords, got %v", err)
	}
}

func TestParseRecordMetadataOrder(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"speaker":"spk1","audio_filepath":"a.wav","snr":12.25,"text":"hi","lang":"en","tags":["x","y"]}`))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	wantKeys := []string{"speaker", "snr", "lang", "tags"}
	if !reflect.DeepEqual(rec.Metadata.Keys(), wantKeys) {
		t.Errorf("metadata keys = %v, want %v", rec.Metadata.Keys(), wantKeys)
	}
	if s, _ := rec.Metadata.String("snr"); s != "12.25" {
		t.Errorf("snr rendered as %q, want 12.25", s)
	}
	if s, _ := rec.Metadata.String("tags"); s != "[x,y]" {
		t.Errorf("tags rendered as %q, want [x,y]", s)
	}
}

func TestParseRecordRejections(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"array not object", `[1,2,3]`},
		{"empty audio path", `{"audio_filepath":"  ","text":"x"}`},
		{"audio path wrong type", `{"audio_filepath":7,"text":"x"}`},
		{"text wrong type", `{"audio_filepath":"a.wav","text":3}`},
		{"missing text", `{"audio_filepath":"a.wav"}`},
		{"negative duration", `{"audio_filepath":"a.wav","text":"x","duration":-1}`},
		{"duration wrong type", `{"audio_filepath":"a.wav","text":"x","duration":"1.5"}`},
		{"duplicate field", `{"audio_filepath":"a.wav","text":"x","text":"y"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRecord([]byte(tt.line)); err == nil {
				t.Errorf("ParseRecord(%s) should fail", tt.line)
			}
		})
	}
}
