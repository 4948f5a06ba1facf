package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port           int           `koanf:"port"`
		MaxHeaderBytes int           `koanf:"maxHeaderBytes"`
		Timeout        time.Duration `koanf:"timeout"`
	} `koanf:"server"`
	Name string `koanf:"name"`
}

func (c *testConfig) Defaults() map[string]any {
	return map[string]any{
		"server.port":           8080,
		"server.maxheaderbytes": 1024,
		"server.timeout":        "5s",
		"name":                  "default",
	}
}

func (c *testConfig) Validate() error {
	if c.Name == "invalid" {
		return errors.New("name must not be invalid")
	}
	return nil
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func getenvWith(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func Test_Load_Priority(t *testing.T) {
	testCases := []struct {
		name         string
		yaml         string
		env          map[string]string
		expectedPort int
		expectedMHB  int
		expectedName string
	}{
		{
			name:         "defaults only",
			expectedPort: 8080,
			expectedMHB:  1024,
			expectedName: "default",
		},
		{
			name:         "yaml overrides defaults",
			yaml:         "server:\n  port: 9090\n  maxHeaderBytes: 2048\nname: yaml\n",
			expectedPort: 9090,
			expectedMHB:  2048,
			expectedName: "yaml",
		},
		{
			name:         "env overrides yaml",
			yaml:         "server:\n  port: 9090\n  maxHeaderBytes: 2048\nname: yaml\n",
			env:          map[string]string{"TESTSVC_SERVER_PORT": "7070", "TESTSVC_SERVER_MAXHEADERBYTES": "4096"},
			expectedPort: 7070,
			expectedMHB:  4096,
			expectedName: "yaml",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			getenv := map[string]string{"TESTSVC_CONFIG_FILE": filepath.Join(t.TempDir(), "missing.yaml")}
			if tc.yaml != "" {
				getenv["TESTSVC_CONFIG_FILE"] = writeYAML(t, tc.yaml)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			// when
			cfg, err := load[*testConfig]("testsvc", getenvWith(getenv))

			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expectedPort, cfg.Server.Port)
			assert.Equal(t, tc.expectedMHB, cfg.Server.MaxHeaderBytes)
			assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
			assert.Equal(t, tc.expectedName, cfg.Name)
		})
	}
}

func Test_Load_ValidationError(t *testing.T) {
	// given
	path := writeYAML(t, "name: invalid\n")

	// when
	_, err := load[*testConfig]("testsvc", getenvWith(map[string]string{"TESTSVC_CONFIG_FILE": path}))

	// then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func Test_keyTransformer(t *testing.T) {
	transform := keyTransformer("PRODUCT_")

	assert.Equal(t, "server.port", transform("PRODUCT_SERVER_PORT"))
	assert.Equal(t, "resilience.circuitbreaker.enabled", transform("PRODUCT_RESILIENCE_CIRCUITBREAKER_ENABLED"))
}
