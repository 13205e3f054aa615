package launcherkit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"Mansoor88-6/launcher-kit/internal/bridge"
	"Mansoor88-6/launcher-kit/internal/events"
	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/platform"
	"Mansoor88-6/launcher-kit/internal/platform/platformtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModule returns canned answers and counts arming calls
type stubModule struct {
	apps    string
	err     error
	emitter *events.Emitter

	mu     sync.Mutex
	calls  []string
	lastGA [2]bool
}

func newStub() *stubModule {
	return &stubModule{emitter: events.NewEmitter()}
}

func (s *stubModule) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubModule) GetApps(_ context.Context, v, c bool) (string, error) {
	s.mu.Lock()
	s.lastGA = [2]bool{v, c}
	s.mu.Unlock()
	return s.apps, s.err
}
func (s *stubModule) IsPackageInstalled(context.Context, string) (bool, error) { return true, s.err }
func (s *stubModule) StartListeningForAppInstallations(context.Context) error {
	s.record("startInstall")
	return s.err
}
func (s *stubModule) StopListeningForAppInstallations(context.Context) error {
	s.record("stopInstall")
	return s.err
}
func (s *stubModule) StartListeningForAppRemovals(context.Context) error {
	s.record("startRemoval")
	return s.err
}
func (s *stubModule) StopListeningForAppRemovals(context.Context) error {
	s.record("stopRemoval")
	return s.err
}
func (s *stubModule) LaunchApplication(context.Context, string, *models.LaunchParams) error {
	return s.err
}
func (s *stubModule) GetDefaultLauncherPackageName(context.Context) (string, error) {
	return "com.home", s.err
}
func (s *stubModule) SetAsDefaultLauncher(context.Context) error { return s.err }
func (s *stubModule) OpenSetDefaultLauncher(context.Context) (bool, error) {
	return s.err == nil, s.err
}
func (s *stubModule) GetBatteryStatus(context.Context) (models.BatteryStatus, error) {
	return models.BatteryStatus{Level: 80}, s.err
}
func (s *stubModule) GoToSettings(context.Context) error { return s.err }
func (s *stubModule) OpenAlarmApp(context.Context) error { return s.err }
func (s *stubModule) Events() events.Source              { return s.emitter }

func TestGetApps_MergesDefaults(t *testing.T) {
	stub := newStub()
	stub.apps = `[{"label":"A","packageName":"com.a","icon":null,"version":null,"accentColor":null}]`
	c := New(bridge.Linked(stub), nil)

	apps := c.Apps.GetApps(context.Background(), nil)
	require.Len(t, apps, 1)
	assert.Equal(t, [2]bool{false, false}, stub.lastGA)

	c.Apps.GetApps(context.Background(), &GetAppsOptions{IncludeAccentColor: true})
	assert.Equal(t, [2]bool{false, true}, stub.lastGA)
}

func TestGetApps_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		apps string
		err  error
	}{
		{"bridge error", "", errors.New("transport closed")},
		{"malformed json", `[{"label":`, nil},
		{"empty string", "", nil},
		{"json null", "null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStub()
			stub.apps, stub.err = tt.apps, tt.err
			c := New(bridge.Linked(stub), nil)

			apps := c.Apps.GetApps(context.Background(), nil)
			assert.NotNil(t, apps)
			assert.Empty(t, apps)
			assert.Empty(t, c.Apps.GetSortedApps(context.Background(), nil))
		})
	}
}

func TestGetSortedApps(t *testing.T) {
	stub := newStub()
	stub.apps = `[
		{"label":"banana","packageName":"com.b1"},
		{"label":"Apple","packageName":"com.a"},
		{"label":"Banana","packageName":"com.b2"},
		{"packageName":"com.nolabel"},
		{"label":"cherry","packageName":"com.c"}
	]`
	c := New(bridge.Linked(stub), nil)

	apps := c.Apps.GetSortedApps(context.Background(), nil)

	var ids []string
	for _, a := range apps {
		ids = append(ids, a.PackageName)
	}
	// case-insensitive, stable for equal keys, missing label first
	assert.Equal(t, []string{"com.nolabel", "com.a", "com.b1", "com.b2", "com.c"}, ids)
}

func TestUnlinkedFallbacks(t *testing.T) {
	c := New(bridge.Unlinked(), nil)
	ctx := context.Background()

	assert.Empty(t, c.Apps.GetApps(ctx, nil))
	assert.Empty(t, c.Apps.GetSortedApps(ctx, nil))
	assert.NotPanics(t, func() {
		c.Apps.StartListeningForAppInstallations(ctx, func(models.AppRecord) {})
		c.Apps.StopListeningForAppInstallations(ctx)
		c.Apps.StartListeningForAppRemovals(ctx, func(string) {})
		c.Apps.StopListeningForAppRemovals(ctx)
		c.Helper.GoToSettings(ctx)
	})
	assert.False(t, c.Helper.LaunchApplication(ctx, "com.a", nil))
	assert.False(t, c.Helper.CheckIfPackageInstalled(ctx, "com.a"))
	assert.Equal(t, "", c.Helper.GetDefaultLauncherPackageName(ctx))
	assert.False(t, c.Helper.OpenAlarmApp(ctx))
	assert.False(t, c.Helper.SetAsDefaultLauncher(ctx))
	assert.Equal(t, models.BatteryStatus{}, c.Helper.GetBatteryStatus(ctx))

	ok, err := c.Helper.OpenSetDefaultLauncher(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestHelper_ErrorFallbacks(t *testing.T) {
	stub := newStub()
	stub.err = errors.New("device offline")
	c := New(bridge.Linked(stub), nil)
	ctx := context.Background()

	assert.False(t, c.Helper.LaunchApplication(ctx, "com.a", nil))
	assert.False(t, c.Helper.CheckIfPackageInstalled(ctx, "com.a"))
	assert.Equal(t, "", c.Helper.GetDefaultLauncherPackageName(ctx))
	assert.False(t, c.Helper.OpenAlarmApp(ctx))
	assert.Equal(t, models.BatteryStatus{}, c.Helper.GetBatteryStatus(ctx))

	// the one operation that propagates
	ok, err := c.Helper.OpenSetDefaultLauncher(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, stub.err)
}

func TestHelper_Success(t *testing.T) {
	c := New(bridge.Linked(newStub()), nil)
	ctx := context.Background()

	assert.True(t, c.Helper.LaunchApplication(ctx, "com.a", &models.LaunchParams{Data: "geo:0,0"}))
	assert.False(t, c.Helper.LaunchApplication(ctx, "", nil))
	assert.True(t, c.Helper.CheckIfPackageInstalled(ctx, "com.a"))
	assert.Equal(t, "com.home", c.Helper.GetDefaultLauncherPackageName(ctx))
	assert.Equal(t, models.BatteryStatus{Level: 80}, c.Helper.GetBatteryStatus(ctx))

	ok, err := c.Helper.OpenSetDefaultLauncher(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListeners_ReplaceOnStart(t *testing.T) {
	stub := newStub()
	c := New(bridge.Linked(stub), nil)
	ctx := context.Background()

	var first, second []string
	c.Apps.StartListeningForAppRemovals(ctx, func(id string) { first = append(first, id) })
	c.Apps.StartListeningForAppRemovals(ctx, func(id string) { second = append(second, id) })

	stub.emitter.Emit(models.EventAppRemoved, "com.gone")

	assert.Empty(t, first)
	assert.Equal(t, []string{"com.gone"}, second)
	assert.Equal(t, 1, stub.emitter.ListenerCount(models.EventAppRemoved))

	c.Apps.StopListeningForAppRemovals(ctx)
	stub.emitter.Emit(models.EventAppRemoved, "com.later")
	assert.Equal(t, []string{"com.gone"}, second)
	assert.Equal(t, []string{"startRemoval", "startRemoval", "stopRemoval"}, stub.calls)
}

func TestListeners_InstallDecoding(t *testing.T) {
	stub := newStub()
	c := New(bridge.Linked(stub), nil)

	var got []models.AppRecord
	c.Apps.StartListeningForAppInstallations(context.Background(), func(app models.AppRecord) {
		got = append(got, app)
	})

	stub.emitter.Emit(models.EventAppInstalled, `{"label":"New","packageName":"com.new","icon":null,"version":"1","accentColor":"#FF0000"}`)
	stub.emitter.Emit(models.EventAppInstalled, `not json`)

	require.Len(t, got, 2)
	assert.Equal(t, "com.new", got[0].PackageName)
	require.NotNil(t, got[0].AccentColor)
	assert.Equal(t, "#FF0000", *got[0].AccentColor)
	assert.Equal(t, models.AppRecord{}, got[1])
}

func TestRoundTrip_NativeModule(t *testing.T) {
	fake := &platformtest.Fake{}
	fake.Install("com.zeta", "zeta", "2.0")
	fake.Install("com.alpha", "Alpha", "1.0")
	native := bridge.NewNativeModule(bridge.Deps{Platform: fake, CacheDir: t.TempDir(), Workers: 1})
	t.Cleanup(func() { _ = native.Close(context.Background()) })
	c := New(bridge.Linked(native), nil)
	ctx := context.Background()

	apps := c.Apps.GetSortedApps(ctx, &GetAppsOptions{IncludeVersion: true})
	require.Len(t, apps, 2)
	assert.Equal(t, "com.alpha", apps[0].PackageName)
	require.NotNil(t, apps[0].Version)
	assert.Equal(t, "1.0", *apps[0].Version)
	assert.Nil(t, apps[0].AccentColor)

	installed := make(chan models.AppRecord, 1)
	c.Apps.StartListeningForAppInstallations(ctx, func(app models.AppRecord) { installed <- app })
	fake.Install("com.new", "New", "0.1")
	fake.Send(ctx, platform.PackageBroadcast(platform.ActionPackageAdded, "com.new"))

	select {
	case app := <-installed:
		assert.Equal(t, "com.new", app.PackageName)
		require.NotNil(t, app.Version)
		assert.Equal(t, "0.1", *app.Version)
	case <-time.After(2 * time.Second):
		t.Fatal("install event not delivered")
	}

	c.Apps.StopListeningForAppInstallations(ctx)
	assert.Zero(t, fake.ReceiverCount())
}
