package launcherkit

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"Mansoor88-6/launcher-kit/internal/bridge"
	"Mansoor88-6/launcher-kit/internal/events"
	"Mansoor88-6/launcher-kit/internal/models"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AppInstalledCallback receives the decoded record of an installed app
type AppInstalledCallback func(app models.AppRecord)

// AppRemovedCallback receives the identifier of a removed app
type AppRemovedCallback func(packageName string)

// InstalledApps enumerates apps and watches install/removal events
type InstalledApps struct {
	handle bridge.Handle
	logger *zap.Logger

	mu   sync.Mutex
	subs map[string]*events.Subscription
}

func NewInstalledApps(handle bridge.Handle, logger *zap.Logger) *InstalledApps {
	return &InstalledApps{
		handle: handle,
		logger: logger,
		subs:   make(map[string]*events.Subscription),
	}
}

// GetApps lists the launchable apps. Any failure yields an empty slice.
func (a *InstalledApps) GetApps(ctx context.Context, opts *GetAppsOptions) []models.AppRecord {
	m, err := a.handle.Module()
	if err != nil {
		a.logger.Warn("Cannot list apps", zap.Error(err))
		return []models.AppRecord{}
	}

	o := mergeOptions(opts)
	raw, err := m.GetApps(ctx, o.IncludeVersion, o.IncludeAccentColor)
	if err != nil {
		a.logger.Warn("Failed to list apps", zap.Error(err))
		return []models.AppRecord{}
	}

	var apps []models.AppRecord
	if !decodeJSON(a.logger, raw, &apps) || apps == nil {
		return []models.AppRecord{}
	}
	return apps
}

// GetSortedApps is GetApps stably ordered by case-insensitive label
func (a *InstalledApps) GetSortedApps(ctx context.Context, opts *GetAppsOptions) []models.AppRecord {
	apps := a.GetApps(ctx, opts)
	SortByLabel(apps)
	return apps
}

// SortByLabel orders records by lower-cased label using locale collation
func SortByLabel(apps []models.AppRecord) {
	col := collate.New(language.Und)
	lower := cases.Lower(language.Und)

	keys := make([]string, len(apps))
	for i := range apps {
		keys[i] = lower.String(apps[i].Label)
	}
	idx := make([]int, len(apps))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return col.CompareString(keys[idx[i]], keys[idx[j]]) < 0
	})

	sorted := make([]models.AppRecord, len(apps))
	for i, k := range idx {
		sorted[i] = apps[k]
	}
	copy(apps, sorted)
}

// StartListeningForAppInstallations replaces any active installation
// listener with cb and arms the native watcher. Undecodable payloads are
// delivered as an empty record.
func (a *InstalledApps) StartListeningForAppInstallations(ctx context.Context, cb AppInstalledCallback) {
	a.listen(ctx, models.EventAppInstalled, func(payload string) {
		var app models.AppRecord
		if !decodeJSON(a.logger, payload, &app) {
			app = models.AppRecord{}
		}
		cb(app)
	}, bridge.Module.StartListeningForAppInstallations)
}

// StopListeningForAppInstallations removes every installation listener and
// disarms the native watcher
func (a *InstalledApps) StopListeningForAppInstallations(ctx context.Context) {
	a.unlisten(ctx, models.EventAppInstalled, bridge.Module.StopListeningForAppInstallations)
}

// StartListeningForAppRemovals replaces any active removal listener with cb
func (a *InstalledApps) StartListeningForAppRemovals(ctx context.Context, cb AppRemovedCallback) {
	a.listen(ctx, models.EventAppRemoved, func(payload string) {
		cb(payload)
	}, bridge.Module.StartListeningForAppRemovals)
}

// StopListeningForAppRemovals removes every removal listener
func (a *InstalledApps) StopListeningForAppRemovals(ctx context.Context) {
	a.unlisten(ctx, models.EventAppRemoved, bridge.Module.StopListeningForAppRemovals)
}

func (a *InstalledApps) listen(ctx context.Context, event string, listener events.Listener, arm func(bridge.Module, context.Context) error) {
	m, err := a.handle.Module()
	if err != nil {
		a.logger.Warn("Cannot listen for app events", zap.String("event", event), zap.Error(err))
		return
	}

	a.mu.Lock()
	if prev := a.subs[event]; prev != nil {
		prev.Remove()
	}
	a.subs[event] = m.Events().AddListener(event, listener)
	a.mu.Unlock()

	if err := arm(m, ctx); err != nil {
		a.logger.Warn("Failed to start native listener", zap.String("event", event), zap.Error(err))
	}
}

func (a *InstalledApps) unlisten(ctx context.Context, event string, disarm func(bridge.Module, context.Context) error) {
	m, err := a.handle.Module()
	if err != nil {
		a.logger.Warn("Cannot stop listening for app events", zap.String("event", event), zap.Error(err))
		return
	}

	a.mu.Lock()
	delete(a.subs, event)
	m.Events().RemoveAllListeners(event)
	a.mu.Unlock()

	if err := disarm(m, ctx); err != nil {
		a.logger.Warn("Failed to stop native listener", zap.String("event", event), zap.Error(err))
	}
}

func decodeJSON(logger *zap.Logger, raw string, v interface{}) bool {
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		logger.Warn("Failed to parse JSON data", zap.Error(err))
		return false
	}
	return true
}
