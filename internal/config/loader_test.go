package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/warcut/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When credentials come from the environment", func() {
			_ = os.Setenv("WARCUT_API_KEY", "secret")
			_ = os.Setenv("WARCUT_FACTION_ID", "12345")

			cfg, err := config.Load(ctx)

			convey.Convey("Then defaults fill the rest", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIKey, convey.ShouldEqual, "secret")
				convey.So(cfg.FactionID, convey.ShouldEqual, "12345")
				convey.So(cfg.PageSize, convey.ShouldEqual, 100)
				convey.So(cfg.UntrackedGroup, convey.ShouldEqual, "Untitled")
			})
		})

		convey.Convey("When credentials are missing", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := createTempConfigFile(t, `
api_key: "from-file"
faction_id: "777"
fetch_concurrency: 2
grace_period_seconds: 30
opposing_faction: "Rivals"
window_start: 1738900000
window_end: 1738990000
serve: true
`)
			_ = os.Setenv(config.FileEnv, path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIKey, convey.ShouldEqual, "from-file")
				convey.So(cfg.FetchConcurrency, convey.ShouldEqual, 2)
				convey.So(cfg.GracePeriodSeconds, convey.ShouldEqual, 30)
				convey.So(cfg.WindowStart, convey.ShouldEqual, int64(1738900000))
				convey.So(cfg.Serve, convey.ShouldBeTrue)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			})

			convey.Convey("And environment variables override the file", func() {
				_ = os.Setenv("WARCUT_FETCH_CONCURRENCY", "8")
				_ = os.Setenv("WARCUT_ADDR", ":8080")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.FetchConcurrency, convey.ShouldEqual, 8)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.APIKey, convey.ShouldEqual, "from-file")
			})
		})

		convey.Convey("When the YAML file is invalid", func() {
			path := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv(config.FileEnv, path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv(config.FileEnv, "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a numeric variable is not a number", func() {
			_ = os.Setenv("WARCUT_API_KEY", "secret")
			_ = os.Setenv("WARCUT_FACTION_ID", "12345")
			_ = os.Setenv("WARCUT_PAGE_SIZE", "lots")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warcut.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, name := range []string{
		config.FileEnv,
		"WARCUT_API_KEY",
		"WARCUT_FACTION_ID",
		"WARCUT_FETCH_CONCURRENCY",
		"WARCUT_ADDR",
		"WARCUT_PAGE_SIZE",
	} {
		_ = os.Unsetenv(name)
	}
}
