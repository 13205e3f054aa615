// Package remote implements bridge.Module against a launcher-kit server.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"Mansoor88-6/launcher-kit/internal/bridge"
	"Mansoor88-6/launcher-kit/internal/events"
	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/platform"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Module talks to the native side over HTTP. Events arrive on one
// WebSocket, opened on the first StartListening call and fed into a local
// emitter.
type Module struct {
	baseURL string
	client  *resty.Client
	emitter *events.Emitter
	logger  *zap.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	done   chan struct{}
	closed bool
}

// New creates a remote module for the server at baseURL
// (e.g. http://localhost:8765)
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Module {
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "launcher-kit-remote/1.0")
	// only transport failures are retried; error replies are final
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil
	})

	return &Module{
		baseURL: baseURL,
		client:  client,
		emitter: events.NewEmitter(),
		logger:  logger,
	}
}

// call invokes a bridge method and decodes its result into out (may be nil)
func (m *Module) call(ctx context.Context, method string, args interface{}, out interface{}) error {
	body := map[string]interface{}{}
	if args != nil {
		body["args"] = args
	}

	var reply bridge.Response
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&reply).
		SetError(&reply).
		Post("/api/v1/bridge/" + method)
	if err != nil {
		return platform.Wrap(platform.KindTransientIO, method, err)
	}
	if reply.Error != nil {
		return reply.Error.Err(method)
	}
	if resp.IsError() {
		return platform.Errorf(kindForStatus(resp.StatusCode()), method, "server returned %s", resp.Status())
	}

	if out == nil || len(reply.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(reply.Result, out); err != nil {
		return platform.Errorf(platform.KindUnknown, method, "decode result: %v", err)
	}
	return nil
}

func kindForStatus(code int) platform.Kind {
	switch {
	case code == http.StatusNotFound:
		return platform.KindNotFound
	case code == http.StatusForbidden, code == http.StatusUnauthorized:
		return platform.KindPermissionDenied
	case code == http.StatusTooManyRequests, code >= 500:
		return platform.KindTransientIO
	default:
		return platform.KindUnknown
	}
}

func (m *Module) GetApps(ctx context.Context, includeVersion, includeAccentColor bool) (string, error) {
	var out string
	err := m.call(ctx, bridge.MethodGetApps, bridge.GetAppsArgs{
		IncludeVersion:     includeVersion,
		IncludeAccentColor: includeAccentColor,
	}, &out)
	return out, err
}

func (m *Module) IsPackageInstalled(ctx context.Context, packageName string) (bool, error) {
	var out bool
	err := m.call(ctx, bridge.MethodIsPackageInstalled, bridge.PackageArgs{PackageName: packageName}, &out)
	return out, err
}

func (m *Module) StartListeningForAppInstallations(ctx context.Context) error {
	if err := m.connect(ctx); err != nil {
		return err
	}
	return m.call(ctx, bridge.MethodStartListeningForAppInstallations, nil, nil)
}

func (m *Module) StopListeningForAppInstallations(ctx context.Context) error {
	return m.call(ctx, bridge.MethodStopListeningForAppInstallations, nil, nil)
}

func (m *Module) StartListeningForAppRemovals(ctx context.Context) error {
	if err := m.connect(ctx); err != nil {
		return err
	}
	return m.call(ctx, bridge.MethodStartListeningForAppRemovals, nil, nil)
}

func (m *Module) StopListeningForAppRemovals(ctx context.Context) error {
	return m.call(ctx, bridge.MethodStopListeningForAppRemovals, nil, nil)
}

func (m *Module) LaunchApplication(ctx context.Context, packageName string, params *models.LaunchParams) error {
	return m.call(ctx, bridge.MethodLaunchApplication, bridge.LaunchArgs{PackageName: packageName, Params: params}, nil)
}

func (m *Module) GetDefaultLauncherPackageName(ctx context.Context) (string, error) {
	var out string
	err := m.call(ctx, bridge.MethodGetDefaultLauncherPackageName, nil, &out)
	return out, err
}

func (m *Module) SetAsDefaultLauncher(ctx context.Context) error {
	return m.call(ctx, bridge.MethodSetAsDefaultLauncher, nil, nil)
}

func (m *Module) OpenSetDefaultLauncher(ctx context.Context) (bool, error) {
	var out bool
	err := m.call(ctx, bridge.MethodOpenSetDefaultLauncher, nil, &out)
	return out, err
}

func (m *Module) GetBatteryStatus(ctx context.Context) (models.BatteryStatus, error) {
	var out models.BatteryStatus
	err := m.call(ctx, bridge.MethodGetBatteryStatus, nil, &out)
	return out, err
}

func (m *Module) GoToSettings(ctx context.Context) error {
	return m.call(ctx, bridge.MethodGoToSettings, nil, nil)
}

func (m *Module) OpenAlarmApp(ctx context.Context) error {
	return m.call(ctx, bridge.MethodOpenAlarmApp, nil, nil)
}

// Journal reads the server's event journal, newest first
func (m *Module) Journal(ctx context.Context, limit int) ([]models.AppEvent, error) {
	var (
		body struct {
			Events []models.AppEvent `json:"events"`
		}
		reply bridge.Response
	)
	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&body).
		SetError(&reply).
		Get("/api/v1/journal")
	if err != nil {
		return nil, platform.Wrap(platform.KindTransientIO, "journal", err)
	}
	if resp.IsError() {
		if reply.Error != nil {
			return nil, reply.Error.Err("journal")
		}
		return nil, platform.Errorf(kindForStatus(resp.StatusCode()), "journal", "server returned %s", resp.Status())
	}
	return body.Events, nil
}

func (m *Module) Events() events.Source {
	return m.emitter
}

// eventsURL maps the base URL onto the ws(s) events endpoint
func (m *Module) eventsURL() (string, error) {
	u, err := url.Parse(m.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/events"
	return u.String(), nil
}

// connect opens the event stream once
func (m *Module) connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New("remote module closed")
	}
	if m.conn != nil {
		return nil
	}

	target, err := m.eventsURL()
	if err != nil {
		return platform.Wrap(platform.KindUnknown, "connect events", err)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return platform.Wrap(platform.KindTransientIO, "connect events", fmt.Errorf("dial %s: %w", target, err))
	}

	m.conn = conn
	m.done = make(chan struct{})
	go m.readLoop(conn, m.done)

	m.logger.Debug("Event stream connected", zap.String("url", target))
	return nil
}

func (m *Module) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		var msg bridge.EventMessage
		if err := conn.ReadJSON(&msg); err != nil {
			m.mu.Lock()
			closed := m.closed
			if m.conn == conn {
				// the next StartListening call reconnects
				m.conn = nil
			}
			m.mu.Unlock()
			if !closed {
				m.logger.Warn("Event stream disconnected", zap.Error(err))
			}
			return
		}
		m.emitter.Emit(msg.Event, msg.Payload)
	}
}

// Close disconnects the event stream. Native listeners on the server are
// left as they are.
func (m *Module) Close() error {
	m.mu.Lock()
	m.closed = true
	conn, done := m.conn, m.done
	m.conn = nil
	m.mu.Unlock()

	if conn == nil {
		return nil
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := conn.Close()
	<-done
	return err
}

var _ bridge.Module = (*Module)(nil)
