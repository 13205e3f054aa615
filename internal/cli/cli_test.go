package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"Mansoor88-6/launcher-kit/internal/bridge"
	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/platform"
	"Mansoor88-6/launcher-kit/internal/platform/platformtest"
	"Mansoor88-6/launcher-kit/pkg/launcherkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against an in-memory platform
func runCLI(t *testing.T, fake *platformtest.Fake, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LAUNCHERKIT_LOG_LEVEL", "error")

	prev := moduleFactory
	moduleFactory = func(rt *runtime) (bridge.Module, error) {
		rt.native = bridge.NewNativeModule(bridge.Deps{Platform: fake, CacheDir: t.TempDir(), Workers: 1})
		return rt.native, nil
	}
	t.Cleanup(func() { moduleFactory = prev })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAppsCommand(t *testing.T) {
	fake := &platformtest.Fake{}
	fake.Install("com.z", "zebra", "1.0")
	fake.Install("com.a", "Apple", "2.0")

	out, err := runCLI(t, fake, "apps", "--sorted", "--version", "--json")
	require.NoError(t, err)

	var apps []models.AppRecord
	require.NoError(t, json.Unmarshal([]byte(out), &apps))
	require.Len(t, apps, 2)
	assert.Equal(t, "Apple", apps[0].Label)
	assert.Equal(t, "2.0", *apps[0].Version)
	assert.Equal(t, "zebra", apps[1].Label)

	out, err = runCLI(t, fake, "apps")
	require.NoError(t, err)
	assert.Contains(t, out, "LABEL")
	assert.Contains(t, out, "com.z")
	assert.Contains(t, out, "2 apps")
}

func TestLaunchCommand(t *testing.T) {
	fake := &platformtest.Fake{}
	fake.Install("com.maps", "Maps", "1")

	_, err := runCLI(t, fake, "launch", "com.maps", "--data", "geo:0,0?q=cafe", "--extra", "mode=walk")
	require.NoError(t, err)
	require.Len(t, fake.Intents, 1)
	assert.Equal(t, platform.ActionView, fake.Intents[0].Action)
	assert.Equal(t, "walk", fake.Intents[0].Extras["mode"])

	_, err = runCLI(t, fake, "launch", "com.maps")
	require.NoError(t, err)
	assert.Equal(t, []string{"com.maps"}, fake.Launched)

	_, err = runCLI(t, fake, "launch", "com.maps", "--extra", "broken")
	assert.Error(t, err)
}

func TestSystemCommands(t *testing.T) {
	fake := &platformtest.Fake{
		Launcher:    "com.home",
		BatteryInfo: &platform.BatteryInfo{Level: 40, Scale: 100, Status: platform.BatteryCharging},
	}

	out, err := runCLI(t, fake, "battery")
	require.NoError(t, err)
	assert.Equal(t, "40% (charging)\n", out)

	out, err = runCLI(t, fake, "default-launcher")
	require.NoError(t, err)
	assert.Equal(t, "com.home\n", out)

	_, err = runCLI(t, fake, "set-default-launcher", "--picker")
	require.NoError(t, err)
	_, err = runCLI(t, fake, "settings")
	require.NoError(t, err)
	assert.Equal(t, []string{"home_settings", "settings"}, fake.SystemActions)

	fake.NoAlarmApp = true
	_, err = runCLI(t, fake, "alarm")
	// a missing alarm app is logged by the native side, not reported
	assert.NoError(t, err)
}

func TestInstalledCommand(t *testing.T) {
	fake := &platformtest.Fake{}
	fake.Install("com.a", "A", "1")

	out, err := runCLI(t, fake, "installed", "com.a")
	require.NoError(t, err)
	assert.Equal(t, "com.a: true\n", out)

	out, err = runCLI(t, fake, "installed", "com.b")
	require.NoError(t, err)
	assert.Equal(t, "com.b: false\n", out)
}

func TestServeRejectsRemote(t *testing.T) {
	_, err := runCLI(t, &platformtest.Fake{}, "--remote", "http://localhost:1", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--remote")
}

func TestParseExtras(t *testing.T) {
	extras, err := parseExtras([]string{"a=1", "b=x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y", "c": ""}, extras)

	extras, err = parseExtras(nil)
	require.NoError(t, err)
	assert.Nil(t, extras)

	_, err = parseExtras([]string{"=v"})
	assert.Error(t, err)
}

func TestWriteAppsTable(t *testing.T) {
	var buf bytes.Buffer
	writeAppsTable(&buf, []models.AppRecord{{
		Label:       "Notes",
		PackageName: "com.notes",
		Icon:        models.StringPtr("file:///cache/icons/com.notes.png"),
		AccentColor: models.StringPtr("#FF0000"),
	}}, launcherkit.GetAppsOptions{IncludeAccentColor: true})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"LABEL", "PACKAGE", "COLOR", "ICON"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Notes", "com.notes", "#FF0000", "/cache/icons/com.notes.png"}, strings.Fields(lines[1]))
	assert.Equal(t, "1 apps", lines[2])
}
