package app_test

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"dhchat/internal/app"
	"dhchat/internal/domain"
	"dhchat/internal/observability"
)

func TestNewWire_Defaults(t *testing.T) {
	w, err := app.NewWire(app.Config{Home: t.TempDir(), LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	defer w.Close()
	if w.Metrics != nil {
		t.Fatalf("metrics server started without an address")
	}
	if w.Observer != observability.Noop {
		t.Fatalf("observer should be the no-op one")
	}
	if err := w.Profiles.SaveProfile(domain.Profile{Name: "p"}); err != nil {
		t.Fatalf("profile store: %v", err)
	}
}

func TestNewWire_Metrics(t *testing.T) {
	w, err := app.NewWire(app.Config{Home: t.TempDir(), LogOutput: io.Discard, MetricsAddr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	defer w.Close()

	w.Observer.Close(observability.CloseReasonPeerExit)

	resp, err := http.Get("http://" + w.Metrics.Addr().String() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `dhchat_channel_close_total{reason="peer_exit"} 1`) {
		t.Fatalf("metric missing:\n%s", body)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := app.NewLogger(&buf, "info", app.LogFormatJSON)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Debug().Msg("hidden")
	log.Info().Str("k", "v").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("unexpected log output: %s", out)
	}

	if _, err := app.NewLogger(&buf, "loud", ""); err == nil {
		t.Fatalf("bad level accepted")
	}
	if _, err := app.NewLogger(&buf, "", "xml"); err == nil {
		t.Fatalf("bad format accepted")
	}
}
