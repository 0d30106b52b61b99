package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/programme-lv/smoke/internal/harness"
	"github.com/programme-lv/smoke/internal/piston"
)

type EnvConfig struct {
	PistonUrl   string
	BatteryPath string
	Threshold   float64

	NatsUrl     string
	NatsSubject string

	SqsQueueUrl string
	AwsRegion   string
	AwsProfile  string
}

const defaultNatsSubject = "smoke.runs"

// ReadEnvConfig loads .env files (when present) into the process environment
// and reads the configuration from it.
func ReadEnvConfig(files ...string) (*EnvConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	result := &EnvConfig{
		PistonUrl:   envOr("PISTON_URL", piston.DefaultBaseUrl),
		BatteryPath: os.Getenv("SMOKE_BATTERY"),
		Threshold:   harness.DefaultThreshold,
		NatsUrl:     os.Getenv("NATS_URL"),
		NatsSubject: envOr("NATS_SUBJECT", defaultNatsSubject),
		SqsQueueUrl: os.Getenv("SQS_QUEUE_URL"),
		AwsRegion:   os.Getenv("AWS_REGION"),
		AwsProfile:  os.Getenv("AWS_PROFILE"),
	}

	if raw := os.Getenv("SMOKE_THRESHOLD"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("SMOKE_THRESHOLD must be a number in [0, 1], got %q", raw)
		}
		result.Threshold = v
	}

	return result, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
