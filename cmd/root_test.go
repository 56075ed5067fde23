package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "guide", "warm", "link"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "guestbites", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestGuideCommand_Flags(t *testing.T) {
	for _, name := range []string{"property", "pick", "format"} {
		assert.NotNil(t, guideCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "json", guideCmd.Flags().Lookup("format").DefValue)
}

func TestWarmCommand_Flags(t *testing.T) {
	flag := warmCmd.Flags().Lookup("concurrency")
	require.NotNil(t, flag)
	assert.Equal(t, "4", flag.DefValue)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	base := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(local, []byte("GUESTBITES_TEST_A=local\n"), 0o600))
	require.NoError(t, os.WriteFile(base, []byte("GUESTBITES_TEST_A=base\nGUESTBITES_TEST_B=base\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("GUESTBITES_TEST_A") //nolint:errcheck
		os.Unsetenv("GUESTBITES_TEST_B") //nolint:errcheck
	})

	require.NoError(t, loadEnvFiles(local, base, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "local", os.Getenv("GUESTBITES_TEST_A"))
	assert.Equal(t, "base", os.Getenv("GUESTBITES_TEST_B"))
}

func TestLoadEnvFiles_Malformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("BAD'KEY=1\n"), 0o600))
	assert.Error(t, loadEnvFiles(p))
}
