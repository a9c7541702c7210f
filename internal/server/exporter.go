package server

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/nvolkova/avcatalog/internal/report"
)

// Exporter runs report exports one at a time, notifying clients over the
// hub as each run starts and finishes.
type Exporter struct {
	gen *report.Generator
	hub *Hub

	mu      sync.Mutex
	running bool
}

func NewExporter(gen *report.Generator, hub *Hub) *Exporter {
	return &Exporter{gen: gen, hub: hub}
}

// ErrExportBusy is returned when an export is already in progress.
var ErrExportBusy = fmt.Errorf("an export is already in progress")

// Start kicks off an export of the given kind in the background. Only one
// export runs at a time; a second request is rejected with ErrExportBusy.
func (e *Exporter) Start(kind string) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrExportBusy
	}
	e.running = true
	e.mu.Unlock()

	e.hub.Broadcast(Event{Type: "export", Kind: kind, Status: "started"})

	go func() {
		path, err := e.run(kind)

		e.mu.Lock()
		e.running = false
		e.mu.Unlock()

		if err != nil {
			slog.Error("export failed", "kind", kind, "error", err)
			e.hub.Broadcast(Event{Type: "export", Kind: kind, Status: "failed", Error: err.Error()})
			return
		}
		slog.Info("export completed", "kind", kind, "path", path)
		e.hub.Broadcast(Event{Type: "export", Kind: kind, Status: "completed", Path: path})
	}()

	return nil
}

func (e *Exporter) run(kind string) (string, error) {
	switch kind {
	case "workbook":
		return e.gen.ExportWorkbook()
	case "statistical":
		return e.gen.ExportStatisticalReport()
	case "detailed":
		return e.gen.ExportDetailedReport()
	default:
		return "", fmt.Errorf("unknown export kind %q", kind)
	}
}
