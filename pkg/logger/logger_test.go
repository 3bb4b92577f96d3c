package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "storefront", Output: &buf, Level: zerolog.InfoLevel})

	ctx := logg.WithRequestID(context.Background(), "req-1")
	ctx = logg.WithDestination(ctx, "AT", "")
	logg.Info(ctx, "estimate.start")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["request_id"] != "req-1" {
		t.Fatalf("missing request id: %v", entry)
	}
	if entry["destination"] != "AT" {
		t.Fatalf("missing destination: %v", entry)
	}
	if entry["service"] != "storefront" {
		t.Fatalf("missing service name: %v", entry)
	}
}

func TestWithDestinationIncludesState(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "storefront", Output: &buf})

	ctx := logg.WithDestination(context.Background(), "DE", "BY")
	logg.Info(ctx, "estimate.start")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["destination"] != "DE:BY" {
		t.Fatalf("unexpected destination: %v", entry["destination"])
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatal("debug should parse")
	}
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Fatal("unknown levels fall back to info")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatal("empty level falls back to info")
	}
}
