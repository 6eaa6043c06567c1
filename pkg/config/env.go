package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnvFiles seeds the process environment from .env files. Variables that
// are already set win, and missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from MDPOSTER_* variables (and CHROME_PATH).
// lookup is os.LookupEnv outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		v, ok := lookup(name)
		if !ok || v == "" {
			return
		}
		d, err := parseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = d
	}
	i64 := func(name string, dst *int64) {
		v, ok := lookup(name)
		if !ok || v == "" {
			return
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = n
	}

	str("MDPOSTER_MODE", &c.Mode)
	str("MDPOSTER_BASE_URL", &c.BaseURL)
	str("CHROME_PATH", &c.ChromePath)
	str("MDPOSTER_PROVIDER", &c.Provider)
	str("MDPOSTER_BROWSER_DIR", &c.BrowserDir)

	str("MDPOSTER_ADDR", &c.Server.Addr)
	i64("MDPOSTER_MAX_BODY_BYTES", &c.Server.MaxBodyBytes)
	dur("MDPOSTER_REQUEST_TIMEOUT", &c.Render.RequestTimeout)

	str("MDPOSTER_OUTPUT_MODE", &c.Output.Mode)
	str("MDPOSTER_OUTPUT_DIR", &c.Output.Dir)
	str("MDPOSTER_S3_BUCKET", &c.Output.S3.Bucket)
	str("MDPOSTER_S3_REGION", &c.Output.S3.Region)
	str("MDPOSTER_S3_ENDPOINT", &c.Output.S3.Endpoint)
	str("MDPOSTER_S3_PUBLIC_URL", &c.Output.S3.PublicURL)
	if c.Output.S3.Bucket != "" {
		if _, set := lookup("MDPOSTER_S3_BUCKET"); set {
			c.Output.Store = "s3"
		}
	}

	str("MDPOSTER_LOG_LEVEL", &c.Log.Level)
	str("MDPOSTER_LOG_FORMAT", &c.Log.Format)

	return errors.Join(errs...)
}

// parseDuration accepts Go durations ("30s") or plain milliseconds ("30000").
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}
