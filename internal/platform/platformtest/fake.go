// Package platformtest provides an in-memory platform for tests.
package platformtest

import (
	"context"
	"image"
	"image/color"
	"sync"

	"Mansoor88-6/launcher-kit/internal/platform"
)

type registration struct {
	filter   platform.IntentFilter
	receiver platform.Receiver
}

// Fake is a scriptable platform.Platform. Zero value is usable.
type Fake struct {
	mu sync.Mutex

	Activities  []platform.ActivityInfo
	QueryErr    error
	Icons       map[string]platform.Drawable // by package
	IconErrs    map[string]error
	Packages    map[string]platform.PackageInfo
	PackageErrs map[string]error
	// Unlaunchable packages resolve to KindNotFound even if installed
	Unlaunchable map[string]bool
	ResolveErrs  map[string]error

	BatteryInfo   *platform.BatteryInfo
	BatteryErr    error
	Launcher      string
	SystemErr     error
	NoAlarmApp    bool
	Launched      []string
	Intents       []platform.Intent
	SystemActions []string

	receivers []registration
}

// SolidIcon returns a bitmap drawable filled with c
func SolidIcon(w, h int, c color.Color) platform.Drawable {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return &platform.BitmapDrawable{Image: img}
}

// Install adds a launchable package with one activity
func (f *Fake) Install(packageName, label, version string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Activities = append(f.Activities, platform.ActivityInfo{
		PackageName: packageName,
		Name:        packageName + ".MainActivity",
		Label:       label,
	})
	if f.Packages == nil {
		f.Packages = make(map[string]platform.PackageInfo)
	}
	f.Packages[packageName] = platform.PackageInfo{PackageName: packageName, VersionName: version}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) DeviceID(context.Context) (string, error) { return "fake-device", nil }

func (f *Fake) QueryLauncherActivities(context.Context) ([]platform.ActivityInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	out := make([]platform.ActivityInfo, len(f.Activities))
	copy(out, f.Activities)
	return out, nil
}

func (f *Fake) LoadLabel(_ context.Context, a platform.ActivityInfo) string {
	if a.Label != "" {
		return a.Label
	}
	return a.PackageName
}

func (f *Fake) LoadIcon(_ context.Context, a platform.ActivityInfo) (platform.Drawable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.IconErrs[a.PackageName]; err != nil {
		return nil, err
	}
	if d, ok := f.Icons[a.PackageName]; ok {
		return d, nil
	}
	return nil, platform.NotFound("load icon", a.PackageName)
}

func (f *Fake) GetPackageInfo(_ context.Context, packageName string) (platform.PackageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.PackageErrs[packageName]; err != nil {
		return platform.PackageInfo{}, err
	}
	info, ok := f.Packages[packageName]
	if !ok {
		return platform.PackageInfo{}, platform.NotFound("get package info", packageName)
	}
	return info, nil
}

func (f *Fake) GetInstalledPackages(context.Context) ([]platform.PackageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	out := make([]platform.PackageInfo, 0, len(f.Packages))
	for _, p := range f.Packages {
		out = append(out, p)
	}
	return out, nil
}

func (f *Fake) ResolveLaunchActivity(_ context.Context, packageName string) (platform.ActivityInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ResolveErrs[packageName]; err != nil {
		return platform.ActivityInfo{}, err
	}
	if !f.Unlaunchable[packageName] {
		for _, a := range f.Activities {
			if a.PackageName == packageName {
				return a, nil
			}
		}
	}
	return platform.ActivityInfo{}, platform.NotFound("resolve launch activity", packageName)
}

func (f *Fake) RegisterReceiver(filter platform.IntentFilter, receiver platform.Receiver) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.receivers {
		if r.receiver == receiver {
			return nil
		}
	}
	f.receivers = append(f.receivers, registration{filter: filter, receiver: receiver})
	return nil
}

func (f *Fake) UnregisterReceiver(receiver platform.Receiver) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.receivers {
		if r.receiver == receiver {
			f.receivers = append(f.receivers[:i], f.receivers[i+1:]...)
			return nil
		}
	}
	return platform.ErrReceiverNotRegistered
}

// ReceiverCount returns the number of armed receivers
func (f *Fake) ReceiverCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.receivers)
}

// Send delivers a broadcast synchronously to every matching receiver
func (f *Fake) Send(ctx context.Context, b platform.Broadcast) {
	f.mu.Lock()
	var targets []platform.Receiver
	for _, r := range f.receivers {
		if r.filter.Matches(b) {
			targets = append(targets, r.receiver)
		}
	}
	f.mu.Unlock()

	for _, r := range targets {
		r.OnReceive(ctx, b)
	}
}

func (f *Fake) LaunchPackage(_ context.Context, packageName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SystemErr != nil {
		return f.SystemErr
	}
	f.Launched = append(f.Launched, packageName)
	return nil
}

func (f *Fake) StartActivity(_ context.Context, intent platform.Intent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SystemErr != nil {
		return f.SystemErr
	}
	f.Intents = append(f.Intents, intent)
	return nil
}

func (f *Fake) DefaultLauncher(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SystemErr != nil {
		return "", f.SystemErr
	}
	if f.Launcher == "" {
		return "", platform.NotFound("default launcher", "home activity")
	}
	return f.Launcher, nil
}

func (f *Fake) record(action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SystemErr != nil {
		return f.SystemErr
	}
	f.SystemActions = append(f.SystemActions, action)
	return nil
}

func (f *Fake) OpenDefaultAppsSettings(context.Context) error { return f.record("default_apps") }
func (f *Fake) OpenHomeSettings(context.Context) error        { return f.record("home_settings") }
func (f *Fake) OpenSettings(context.Context) error            { return f.record("settings") }
func (f *Fake) OpenAlarms(context.Context) error {
	if f.NoAlarmApp {
		return platform.NotFound("open alarms", "alarm app")
	}
	return f.record("alarms")
}

func (f *Fake) Battery(context.Context) (*platform.BatteryInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.BatteryErr != nil {
		return nil, f.BatteryErr
	}
	if f.BatteryInfo == nil {
		return nil, platform.NotFound("battery", "battery")
	}
	info := *f.BatteryInfo
	return &info, nil
}

var _ platform.Platform = (*Fake)(nil)
