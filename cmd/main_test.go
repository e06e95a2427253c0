package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/okian/checkin/internal/config"
	"github.com/okian/checkin/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func writeRoster(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	rows := [][]any{{"ID", "Name"}, {"A1", "Alice"}}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "guests.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			t.Setenv("CHECKIN_ADDR", ":8080")
			t.Setenv("CHECKIN_SCAN_QUEUE_SIZE", "128")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ScanQueueSize, convey.ShouldEqual, 128)
			})

			convey.Convey("And the service follows it", func() {
				cfg, _ := config.Load(context.Background())
				svc, err := newService(cfg, logger.Nop())
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.GetStats()["queueCapacity"], convey.ShouldEqual, 128)
			})
		})

		convey.Convey("When the report timezone is unknown", func() {
			cfg := config.New(context.Background())
			cfg.ReportTimezone = "Mars/Olympus"
			_, err := newService(cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When building the HTTP mux", func() {
			cfg := config.New(context.Background())
			svc, err := newService(cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			mux := newMux(context.Background(), cfg, svc, logger.Nop())

			convey.Convey("Then API and docs routes are registered", func() {
				for _, path := range []string{"/healthz", "/metrics", "/stats", "/api-docs", "/openapi.yaml"} {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest("GET", path, http.NoBody))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})

			convey.Convey("And business routes report a missing roster", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest("GET", "/report", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusConflict)
			})
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a configuration for a local server", t, func() {
		cfg := config.New(context.Background())
		cfg.Addr = "127.0.0.1:0"
		cfg.ShutdownTimeoutMS = 1000

		convey.Convey("When the context is cancelled", func() {
			cfg.RosterPath = writeRoster(t)
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			convey.Convey("Then run preloads the roster and returns cleanly", func() {
				convey.So(run(ctx, cfg, logger.Nop()), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the roster file is missing", func() {
			cfg.RosterPath = filepath.Join(t.TempDir(), "missing.xlsx")
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			convey.Convey("Then run fails before serving", func() {
				convey.So(run(ctx, cfg, logger.Nop()), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestServiceMetricsUpdater(t *testing.T) {
	convey.Convey("Given a service", t, func() {
		cfg := config.New(context.Background())
		svc, err := newService(cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the updater runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("When stats are pushed into gauges", func() {
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}
