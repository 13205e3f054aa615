package remote

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"Mansoor88-6/launcher-kit/internal/bridge"
	"Mansoor88-6/launcher-kit/internal/config"
	"Mansoor88-6/launcher-kit/internal/events"
	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/platform"
	"Mansoor88-6/launcher-kit/internal/platform/platformtest"
	"Mansoor88-6/launcher-kit/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startServer(t *testing.T, fake *platformtest.Fake) string {
	t.Helper()
	emitter := events.NewEmitter()
	native := bridge.NewNativeModule(bridge.Deps{
		Platform: fake,
		CacheDir: t.TempDir(),
		Workers:  1,
		Emitter:  emitter,
	})
	s := server.New(config.ServerConfig{}, native, emitter, nil, nil, zap.NewNop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
		ts.Close()
		_ = native.Close(context.Background())
	})
	return ts.URL
}

func TestModule_Calls(t *testing.T) {
	fake := &platformtest.Fake{
		Launcher:    "com.home",
		BatteryInfo: &platform.BatteryInfo{Level: 30, Scale: 100, Status: platform.BatteryDischarging},
	}
	fake.Install("com.a", "Alpha", "2.0")
	m := New(startServer(t, fake), 5*time.Second, zap.NewNop())
	defer m.Close()
	ctx := context.Background()

	payload, err := m.GetApps(ctx, true, false)
	require.NoError(t, err)
	assert.Contains(t, payload, `"packageName":"com.a"`)
	assert.Contains(t, payload, `"version":"2.0"`)

	installed, err := m.IsPackageInstalled(ctx, "com.a")
	require.NoError(t, err)
	assert.True(t, installed)

	installed, err = m.IsPackageInstalled(ctx, "com.none")
	require.NoError(t, err)
	assert.False(t, installed)

	launcher, err := m.GetDefaultLauncherPackageName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "com.home", launcher)

	battery, err := m.GetBatteryStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.BatteryStatus{Level: 30, IsCharging: false}, battery)

	require.NoError(t, m.LaunchApplication(ctx, "com.a", nil))
	assert.Equal(t, []string{"com.a"}, fake.Launched)

	ok, err := m.OpenSetDefaultLauncher(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestModule_ErrorKindsSurvive(t *testing.T) {
	fake := &platformtest.Fake{SystemErr: platform.Errorf(platform.KindPermissionDenied, "home settings", "denied")}
	m := New(startServer(t, fake), 5*time.Second, zap.NewNop())
	defer m.Close()

	ok, err := m.OpenSetDefaultLauncher(context.Background())
	assert.False(t, ok)
	assert.Equal(t, platform.KindPermissionDenied, platform.KindOf(err))
}

func TestModule_Unreachable(t *testing.T) {
	m := New("http://127.0.0.1:1", time.Second, zap.NewNop())
	defer m.Close()

	_, err := m.GetApps(context.Background(), false, false)
	assert.Equal(t, platform.KindTransientIO, platform.KindOf(err))
}

func TestModule_Events(t *testing.T) {
	fake := &platformtest.Fake{}
	m := New(startServer(t, fake), 5*time.Second, zap.NewNop())
	defer m.Close()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		removed []string
	)
	m.Events().AddListener(models.EventAppRemoved, func(payload string) {
		mu.Lock()
		removed = append(removed, payload)
		mu.Unlock()
	})

	require.NoError(t, m.StartListeningForAppRemovals(ctx))
	assert.Equal(t, 1, fake.ReceiverCount())

	// the stream registers on the server shortly after the handshake
	require.Eventually(t, func() bool {
		fake.Send(ctx, platform.PackageBroadcast(platform.ActionPackageRemoved, "com.gone"))
		mu.Lock()
		defer mu.Unlock()
		return len(removed) > 0
	}, 3*time.Second, 50*time.Millisecond)

	mu.Lock()
	assert.Equal(t, "com.gone", removed[0])
	mu.Unlock()

	require.NoError(t, m.StopListeningForAppRemovals(ctx))
	assert.Equal(t, 0, fake.ReceiverCount())
}

func TestEventsURL(t *testing.T) {
	m := New("https://device.local:8765/", time.Second, zap.NewNop())
	u, err := m.eventsURL()
	require.NoError(t, err)
	assert.Equal(t, "wss://device.local:8765/api/v1/events", u)
}

func TestModule_JournalDisabled(t *testing.T) {
	m := New(startServer(t, &platformtest.Fake{}), 5*time.Second, zap.NewNop())
	defer m.Close()

	_, err := m.Journal(context.Background(), 10)
	assert.True(t, platform.IsNotFound(err))
}
