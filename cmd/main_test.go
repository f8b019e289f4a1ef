package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/warcut/internal/config"
	"github.com/okian/warcut/internal/domain/cut"
	"github.com/okian/warcut/internal/domain/report"
	"github.com/okian/warcut/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeTorn answers the three faction selections with one war, one chain and
// twelve chain hits.
func fakeTorn(t *testing.T) *httptest.Server {
	t.Helper()

	attacks := map[string]map[string]any{}
	for i := 0; i < 10; i++ {
		defender := "Bystanders"
		if i == 9 {
			defender = "Rivals"
		}
		attacks[fmt.Sprintf("%d", 100+i)] = map[string]any{
			"code": fmt.Sprintf("a%02d", i), "timestamp_ended": 1000 + i*30,
			"attacker_name": "ann", "defender_factionname": defender, "chain": i + 1,
		}
	}
	attacks["111"] = map[string]any{"code": "b11", "timestamp_ended": 1300, "attacker_name": "bob", "defender_factionname": "Bystanders", "chain": 11}
	attacks["112"] = map[string]any{"code": "b12", "timestamp_ended": 1400, "attacker_name": "bob", "defender_factionname": "Rivals", "chain": 12}
	attacks["113"] = map[string]any{"code": "u13", "timestamp_ended": 1450, "attacker_name": "cat", "defender_factionname": "Untitled", "chain": 13}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body any
		switch r.URL.Query().Get("selections") {
		case "rankedwars":
			body = map[string]any{"rankedwars": map[string]any{
				"8": map[string]any{
					"factions": map[string]any{"42": map[string]any{"name": "Us"}, "77": map[string]any{"name": "Rivals"}},
					"war":      map[string]any{"start": 900, "end": 5000},
				},
			}}
		case "chains":
			body = map[string]any{"chains": map[string]any{"1": map[string]any{"start": 1000, "end": 2000}}}
		case "attacks":
			body = map[string]any{"attacks": attacks}
		default:
			body = map[string]any{"error": map[string]any{"code": 4, "error": "Wrong fields"}}
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.APIKey = "key"
	cfg.FactionID = "42"
	cfg.BaseURL = baseURL
	cfg.RequestsPerMinute = 600_000
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.LogFile = ""
	return cfg
}

func TestRunPipeline(t *testing.T) {
	convey.Convey("Given a remote API with one war", t, func() {
		ctx := context.Background()
		cfg := testConfig(t, fakeTorn(t).URL)

		svc, err := newService(ctx, cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the service runs", func() {
			err := runOnce(ctx, svc)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the tables are written", func() {
				for _, name := range []string{report.ChainsTable, report.AttacksTable, report.SummaryTable} {
					_, err := os.Stat(filepath.Join(cfg.OutputDir, name+".csv"))
					convey.So(err, convey.ShouldBeNil)
				}
				_, err := os.Stat(filepath.Join(cfg.OutputDir, report.PenaltiesTable+".csv"))
				convey.So(os.IsNotExist(err), convey.ShouldBeTrue)

				summary, err := os.ReadFile(filepath.Join(cfg.OutputDir, report.SummaryTable+".csv"))
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(summary), convey.ShouldContainSubstring, "\nann,")
				convey.So(string(summary), convey.ShouldContainSubstring, "\nGROUP,")
				convey.So(string(summary), convey.ShouldContainSubstring, "\nTOTALS,")
				convey.So(string(summary), convey.ShouldNotContainSubstring, "cat")
			})

			convey.Convey("Then the report is served over HTTP", func() {
				handler := newServer(ctx, cfg, svc).Handler

				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=5", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(rec.Body.String(), convey.ShouldContainSubstring, `"actor":"ann"`)

				rec = httptest.NewRecorder()
				handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(rec.Body.String(), convey.ShouldContainSubstring, `"opposing_faction":"Rivals"`)

				rec = httptest.NewRecorder()
				handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When the window is fixed by configuration", func() {
			cfg.OpposingFaction = "Rivals"
			cfg.WindowStart = 5000
			cfg.WindowEnd = 6000
			svc, err := newService(ctx, cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)

			rep, err := svc.Run(ctx)

			convey.Convey("Then the manual war is scored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rep.War.ID, convey.ShouldEqual, "manual")
			})
		})
	})

	convey.Convey("Given sheets credentials that cannot be read", t, func() {
		cfg := testConfig(t, "http://127.0.0.1:0")
		cfg.SheetsCredentialsFile = filepath.Join(t.TempDir(), "missing.json")
		cfg.SheetsURL = "https://docs.google.com/spreadsheets/d/abc/edit"

		_, err := newService(context.Background(), cfg, logger.Get())

		convey.Convey("Then the service is not built", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "sheets credentials")
		})
	})
}

func TestExitCode(t *testing.T) {
	convey.Convey("Given run outcomes", t, func() {
		ctx := context.Background()
		log := logger.Get()

		convey.So(exitCode(ctx, log, nil), convey.ShouldEqual, exitOK)
		convey.So(exitCode(ctx, log, report.ErrNoChains), convey.ShouldEqual, exitOK)
		convey.So(exitCode(ctx, log, fmt.Errorf("x: %w", report.ErrNoActions)), convey.ShouldEqual, exitOK)
		convey.So(exitCode(ctx, log, fmt.Errorf("distribute cuts: %w", cut.ErrIntegrity)), convey.ShouldEqual, exitIntegrity)
		convey.So(exitCode(ctx, log, errors.New("boom")), convey.ShouldEqual, exitFailure)
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
	})
}
