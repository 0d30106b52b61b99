package environment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/smoke/internal/environment"
	"github.com/programme-lv/smoke/internal/piston"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PISTON_URL", "SMOKE_BATTERY", "SMOKE_THRESHOLD", "NATS_URL",
		"NATS_SUBJECT", "SQS_QUEUE_URL", "AWS_REGION", "AWS_PROFILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestReadEnvConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := environment.ReadEnvConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, piston.DefaultBaseUrl, cfg.PistonUrl)
	assert.Equal(t, 0.70, cfg.Threshold)
	assert.Equal(t, "smoke.runs", cfg.NatsSubject)
	assert.Empty(t, cfg.NatsUrl)
}

func TestReadEnvConfig_DotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"PISTON_URL=http://localhost:2000/api/v2\nSMOKE_THRESHOLD=0.9\nSQS_QUEUE_URL=https://sqs.example/q\n"), 0o644))

	cfg, err := environment.ReadEnvConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:2000/api/v2", cfg.PistonUrl)
	assert.Equal(t, 0.9, cfg.Threshold)
	assert.Equal(t, "https://sqs.example/q", cfg.SqsQueueUrl)
}

func TestReadEnvConfig_BadThreshold(t *testing.T) {
	clearEnv(t)
	for _, raw := range []string{"seventy", "NaN", "-0.1", "1.5"} {
		t.Setenv("SMOKE_THRESHOLD", raw)
		_, err := environment.ReadEnvConfig(filepath.Join(t.TempDir(), "missing.env"))
		require.Error(t, err, raw)
	}
}
