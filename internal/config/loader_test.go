package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/preset-app/matchmaking/internal/config"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"PRESET_MATCH_CONFIG",
		"PRESET_MATCH_ADDR",
		"PRESET_MATCH_ORACLE_BASE_URL",
		"PRESET_MATCH_ORACLE_API_KEY",
		"PRESET_MATCH_CACHE_BACKEND",
		"PRESET_MATCH_REDIS_ADDR",
		"PRESET_MATCH_QUEUE_SIZE",
		"PRESET_MATCH_WORKER_COUNT",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When no oracle URL is configured loading fails", func() {
			clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("PRESET_MATCH_ADDR", ":9090")
			_ = os.Setenv("PRESET_MATCH_ORACLE_BASE_URL", "https://oracle.test")
			_ = os.Setenv("PRESET_MATCH_QUEUE_SIZE", "500")
			_ = os.Setenv("PRESET_MATCH_WORKER_COUNT", "4")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.OracleBaseURL, convey.ShouldEqual, "https://oracle.test")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			clearConfigEnvVars()
			path := createTempConfigFile(t, `
addr: ":7070"
oracle_base_url: "https://oracle.file"
cache_backend: "redis"
redis_addr: "redis.test:6379"
queue_size: 250
`)
			_ = os.Setenv("PRESET_MATCH_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the file values apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.OracleBaseURL, convey.ShouldEqual, "https://oracle.file")
				convey.So(cfg.CacheBackend, convey.ShouldEqual, config.CacheBackendRedis)
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "redis.test:6379")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 250)
			})
		})

		convey.Convey("When env vars and a file are both set env wins", func() {
			clearConfigEnvVars()
			path := createTempConfigFile(t, `
addr: ":7070"
oracle_base_url: "https://oracle.file"
`)
			_ = os.Setenv("PRESET_MATCH_CONFIG", path)
			_ = os.Setenv("PRESET_MATCH_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			convey.So(cfg.OracleBaseURL, convey.ShouldEqual, "https://oracle.file")
		})

		convey.Convey("When the cache backend is unknown loading fails", func() {
			clearConfigEnvVars()
			_ = os.Setenv("PRESET_MATCH_ORACLE_BASE_URL", "https://oracle.test")
			_ = os.Setenv("PRESET_MATCH_CACHE_BACKEND", "memcached")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
		})
	})
}
