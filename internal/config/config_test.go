package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	require.NoError(t, Init())
	return home
}

func TestInitDefaults(t *testing.T) {
	home := initTest(t)

	assert.Equal(t, []string{filepath.Join(home, ".cheats")}, GetPaths())
	assert.Equal(t, filepath.Join(home, ".cheater.json"), GetVarsFile())
	assert.Equal(t, "permissive", GetBuildPolicy())
	assert.Equal(t, "print", GetOutput())
	assert.Equal(t, "cheater_prefix_cmd", GetPrefixVar())
	assert.Contains(t, GetGlobalVars(), "LHOST")
	assert.Equal(t, 40, GetColumnHeader())
	assert.True(t, GetWithTags())
	assert.Equal(t, "warn", C.LogLevel)
}

func TestGetVarsFileLocal(t *testing.T) {
	initTest(t)
	launch := t.TempDir()
	viper.Set("local_vars", true)
	viper.Set("launch_dir", launch)

	assert.Equal(t, filepath.Join(launch, ".cheater.json"), GetVarsFile())
	assert.Equal(t, launch, GetLaunchDir())
}

func TestGetKeys(t *testing.T) {
	initTest(t)
	viper.Set("keys", map[string][]string{"fuzzy": {"ctrl+w"}, "globals": {}})

	keys := GetKeys()
	assert.Equal(t, []string{"ctrl+w"}, keys["fuzzy"])
	assert.Equal(t, []string{"ctrl+g"}, keys["globals"])
	assert.Equal(t, []string{"enter"}, keys["commit"])
}

func TestGetChoiceLabels(t *testing.T) {
	initTest(t)

	labels := GetChoiceLabels()
	require.Contains(t, labels, "creds_options")
	assert.Len(t, labels["creds_options"], 3)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CHEATER_BUILD_POLICY", "Strict")
	initTest(t)

	assert.Equal(t, "strict", GetBuildPolicy())
}

func TestExpandTilde(t *testing.T) {
	home := initTest(t)

	assert.Equal(t, filepath.Join(home, "lists"), ExpandTilde("~/lists"))
	assert.Equal(t, "/etc/passwd", ExpandTilde("/etc/passwd"))
	assert.Equal(t, "", ExpandTilde(""))
}
