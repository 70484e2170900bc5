// Package netmgr implements the network manager (C9): non-blocking
// request tasks polled from the VM thread, grounded on spec §4.6 and
// scenario S4. The VM never blocks on a fetch; it only ever asks "is
// this task done yet" and reads whatever terminal state has been
// recorded, which Manager guarantees transitions pending -> terminal
// at most once (spec §5 "Shared resources", §8's NetTask invariant).
//
// Concurrency is grounded on five82-reel's processing package
// (_examples/five82-reel/internal/processing/chunked.go), which bounds
// parallel work with golang.org/x/sync rather than raw unguarded
// goroutines; here a semaphore.Weighted caps how many fetches run at
// once, and each task's own mutex (not a manager-wide lock) guards the
// pending->terminal transition so the VM thread is never blocked behind
// a fetch in flight.
package netmgr

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/sync/semaphore"
)

// fingerprint keys the preload de-dup cache by digest rather than the
// raw resolved URI, keeping arbitrarily long URLs out of the map key.
func fingerprint(s string) string {
	h := ripemd160.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// StreamStatus mirrors the three strings getStreamStatus can return.
type StreamStatus string

const (
	StatusLoading  StreamStatus = "Loading"
	StatusComplete StreamStatus = "Complete"
	StatusError    StreamStatus = "Error"
)

type state int

const (
	statePending state = iota
	stateSuccess
	stateError
)

// NetTask is a single fetch (spec §3 "NetTask"). Its state is read and
// written under mu so the VM thread (calling IsTaskDone/TaskResult) and
// the fetch goroutine (calling complete) never race.
type NetTask struct {
	ID          int64
	URL         string
	ResolvedURI string
	Method      string
	PostData    []byte

	mu      sync.Mutex
	st      state
	body    []byte
	errCode int
}

func (t *NetTask) done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st != statePending
}

func (t *NetTask) completeSuccess(body []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.st != statePending {
		return // already terminal; a NetTask never reverts (spec §8 invariant)
	}
	t.st = stateSuccess
	t.body = body
}

func (t *NetTask) completeError(code int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.st != statePending {
		return
	}
	t.st = stateError
	t.errCode = code
}

func (t *NetTask) snapshot() (st state, body []byte, errCode int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st, t.body, t.errCode
}

// NetProvider is the open capability boundary to transport (spec §9):
// "preloadNetThing, postNetText, netDone, netTextResult, getStreamStatus,
// netError". The manager only ever calls Fetch; it owns polling state
// itself so any transport (real HTTP, a browser fetch bridge, a test
// stub) can satisfy this without knowing about tasks.
type NetProvider interface {
	Fetch(ctx context.Context, method, uri string, postData []byte) ([]byte, int, error)
}

// HTTPProvider is the default NetProvider, backed by net/http.
type HTTPProvider struct {
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPProvider builds an HTTPProvider with a sane default timeout.
func NewHTTPProvider() *HTTPProvider {
	return &HTTPProvider{Client: &http.Client{}, Timeout: 30 * time.Second}
}

func (p *HTTPProvider) Fetch(ctx context.Context, method, uri string, postData []byte) ([]byte, int, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader strings.Reader
	if len(postData) > 0 {
		bodyReader = *strings.NewReader(string(postData))
	}
	req, err := http.NewRequestWithContext(ctx, method, uri, &bodyReader)
	if err != nil {
		return nil, -1, err
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, -1, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, nil
	}
	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)
	for {
		n, rerr := resp.Body.Read(tmp)
		buf = append(buf, tmp[:n]...)
		if rerr != nil {
			break
		}
	}
	return buf, 0, nil
}

// Manager is the VM-facing surface for C9: preloadNetThing, postNetText,
// isTaskDone, taskResult, netError, getStreamStatus, plus the URL
// resolution rule from spec §4.6.
type Manager struct {
	BaseURL  string
	Provider NetProvider

	mu       sync.Mutex
	tasks    map[int64]*NetTask
	byURL    map[string]int64 // preload de-dup cache, keyed by fingerprint(resolved URI)
	order    []int64
	nextID   int64
	lastID   int64
	inflight *semaphore.Weighted
}

const defaultMaxInflight = 8

// New builds a Manager. baseURL is forced to end in "/" per spec §4.6.
func New(baseURL string, provider NetProvider) *Manager {
	if provider == nil {
		provider = NewHTTPProvider()
	}
	return &Manager{
		BaseURL:  forceTrailingSlash(baseURL),
		Provider: provider,
		tasks:    make(map[int64]*NetTask),
		byURL:    make(map[string]int64),
		inflight: semaphore.NewWeighted(defaultMaxInflight),
	}
}

func forceTrailingSlash(base string) string {
	if base == "" {
		return base
	}
	if idx := strings.LastIndex(base, "/"); idx >= 0 && idx != len(base)-1 {
		// strip a trailing filename, keep the directory
		base = base[:idx+1]
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// ResolveURL implements spec §4.6's resolution rule: an absolute
// http(s):// URL is used verbatim; otherwise path separators are
// normalised and the result resolved against the manager's base.
func (m *Manager) ResolveURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	normalized := path.Clean(strings.ReplaceAll(raw, "\\", "/"))
	normalized = strings.TrimPrefix(normalized, "/")
	base, err := url.Parse(m.BaseURL)
	if err != nil {
		return m.BaseURL + normalized
	}
	ref, err := url.Parse(normalized)
	if err != nil {
		return m.BaseURL + normalized
	}
	return base.ResolveReference(ref).String()
}

// PreloadNetThing creates or reuses (by resolved URL) a GET task and
// spawns its fetch asynchronously, returning immediately (spec §4.6).
func (m *Manager) PreloadNetThing(rawURL string) int64 {
	resolved := m.ResolveURL(rawURL)
	key := fingerprint(resolved)

	m.mu.Lock()
	if id, ok := m.byURL[key]; ok {
		m.mu.Unlock()
		return id
	}
	id := m.newTaskLocked(rawURL, resolved, http.MethodGet, nil)
	m.byURL[key] = id
	task := m.tasks[id]
	provider := m.Provider
	m.mu.Unlock()

	m.spawn(task, provider)
	return id
}

// PostNetText always creates a new task (spec §4.6), posting postData.
func (m *Manager) PostNetText(rawURL, postData string) int64 {
	resolved := m.ResolveURL(rawURL)

	m.mu.Lock()
	id := m.newTaskLocked(rawURL, resolved, http.MethodPost, []byte(postData))
	task := m.tasks[id]
	provider := m.Provider
	m.mu.Unlock()

	m.spawn(task, provider)
	return id
}

// newTaskLocked must be called with m.mu held.
func (m *Manager) newTaskLocked(rawURL, resolved, method string, postData []byte) int64 {
	m.nextID++
	id := m.nextID
	m.tasks[id] = &NetTask{ID: id, URL: rawURL, ResolvedURI: resolved, Method: method, PostData: postData}
	m.order = append(m.order, id)
	m.lastID = id
	return id
}

// spawn runs the fetch in its own goroutine, bounded by the manager's
// inflight semaphore, and records the terminal result on task. The VM
// thread never blocks here: Acquire happens in the goroutine, not the
// caller.
func (m *Manager) spawn(task *NetTask, provider NetProvider) {
	go func() {
		ctx := context.Background()
		if err := m.inflight.Acquire(ctx, 1); err != nil {
			task.completeError(-1)
			return
		}
		defer m.inflight.Release(1)

		body, code, err := provider.Fetch(ctx, task.Method, task.ResolvedURI, task.PostData)
		if err != nil {
			task.completeError(-1)
			return
		}
		if code != 0 {
			task.completeError(code)
			return
		}
		task.completeSuccess(body)
	}()
}

// resolveTaskID implements "if the caller passes a null/zero taskId, the
// manager acts on the most-recently-created task" (spec §4.6).
func (m *Manager) resolveTaskID(taskID int64) int64 {
	if taskID != 0 {
		return taskID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastID
}

func (m *Manager) taskByID(taskID int64) *NetTask {
	id := m.resolveTaskID(taskID)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks[id]
}

// IsTaskDone reports whether taskID has reached a terminal state.
func (m *Manager) IsTaskDone(taskID int64) bool {
	t := m.taskByID(taskID)
	if t == nil {
		return true // an unknown task can't ever complete; don't hang the caller
	}
	return t.done()
}

// TaskResult returns the terminal bytes on success, or ok=false on error
// or if the task is still pending.
func (m *Manager) TaskResult(taskID int64) (data []byte, ok bool) {
	t := m.taskByID(taskID)
	if t == nil {
		return nil, false
	}
	st, body, _ := t.snapshot()
	if st != stateSuccess {
		return nil, false
	}
	return body, true
}

// NetError returns 0 when ok or pending, else the recorded error code.
func (m *Manager) NetError(taskID int64) int {
	t := m.taskByID(taskID)
	if t == nil {
		return -1
	}
	st, _, code := t.snapshot()
	if st != stateError {
		return 0
	}
	return code
}

// GetStreamStatus reports one of "Loading", "Complete", "Error".
func (m *Manager) GetStreamStatus(taskID int64) StreamStatus {
	t := m.taskByID(taskID)
	if t == nil {
		return StatusError
	}
	st, _, _ := t.snapshot()
	switch st {
	case stateSuccess:
		return StatusComplete
	case stateError:
		return StatusError
	default:
		return StatusLoading
	}
}
