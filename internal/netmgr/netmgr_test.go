package netmgr

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeProvider lets a test control exactly when a fetch "completes",
// instead of racing a real goroutine against assertions.
type fakeProvider struct {
	mu      sync.Mutex
	gate    chan struct{}
	body    []byte
	errCode int
	err     error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{gate: make(chan struct{})}
}

func (p *fakeProvider) release(body []byte, errCode int, err error) {
	p.mu.Lock()
	p.body, p.errCode, p.err = body, errCode, err
	p.mu.Unlock()
	close(p.gate)
}

func (p *fakeProvider) Fetch(ctx context.Context, method, uri string, postData []byte) ([]byte, int, error) {
	<-p.gate
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.body, p.errCode, p.err
}

func waitUntilDone(t *testing.T, m *Manager, id int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !m.IsTaskDone(id) {
		if time.Now().After(deadline) {
			t.Fatal("task never completed")
		}
		time.Sleep(time.Millisecond)
	}
}

// TestNetLifecycle covers spec scenario S4.
func TestNetLifecycle(t *testing.T) {
	provider := newFakeProvider()
	m := New("http://h/", provider)

	id := m.PreloadNetThing("external_variables.txt")
	if m.IsTaskDone(id) {
		t.Fatal("task reported done before the provider answered")
	}

	provider.release([]byte("a=1\nb=2"), 0, nil)
	waitUntilDone(t, m, id)

	if status := m.GetStreamStatus(id); status != StatusComplete {
		t.Errorf("GetStreamStatus = %q, want Complete", status)
	}
	if code := m.NetError(id); code != 0 {
		t.Errorf("NetError = %d, want 0", code)
	}
	data, ok := m.TaskResult(id)
	if !ok || string(data) != "a=1\nb=2" {
		t.Errorf("TaskResult = (%q, %v), want (\"a=1\\nb=2\", true)", data, ok)
	}
}

func TestResolveURLAbsoluteUsedVerbatim(t *testing.T) {
	m := New("http://h/movies/", nil)
	got := m.ResolveURL("https://other.example/x.txt")
	if got != "https://other.example/x.txt" {
		t.Errorf("ResolveURL = %q, want verbatim absolute URL", got)
	}
}

func TestResolveURLRelativeResolvedAgainstBase(t *testing.T) {
	m := New("http://h/movies/main.dir", nil)
	if m.BaseURL != "http://h/movies/" {
		t.Fatalf("base not trimmed to directory: %q", m.BaseURL)
	}
	got := m.ResolveURL("assets\\sprite.txt")
	if got != "http://h/movies/assets/sprite.txt" {
		t.Errorf("ResolveURL = %q, want http://h/movies/assets/sprite.txt", got)
	}
}

func TestPreloadReusesTaskForSameURL(t *testing.T) {
	provider := newFakeProvider()
	m := New("http://h/", provider)
	id1 := m.PreloadNetThing("x.txt")
	id2 := m.PreloadNetThing("x.txt")
	if id1 != id2 {
		t.Errorf("PreloadNetThing did not reuse task: %d != %d", id1, id2)
	}
	provider.release(nil, 0, nil)
	waitUntilDone(t, m, id1)
}

func TestPostNetTextAlwaysCreatesNewTask(t *testing.T) {
	provider := newFakeProvider()
	m := New("http://h/", provider)
	id1 := m.PostNetText("submit.cgi", "a=1")
	provider.release(nil, 0, nil)
	waitUntilDone(t, m, id1)

	provider2 := newFakeProvider()
	m.Provider = provider2
	id2 := m.PostNetText("submit.cgi", "a=2")
	if id1 == id2 {
		t.Error("PostNetText reused a task id")
	}
	provider2.release(nil, 0, nil)
	waitUntilDone(t, m, id2)
}

func TestZeroTaskIDActsOnMostRecentlyCreated(t *testing.T) {
	provider := newFakeProvider()
	m := New("http://h/", provider)
	id := m.PreloadNetThing("x.txt")
	provider.release([]byte("ok"), 0, nil)
	waitUntilDone(t, m, id)

	if !m.IsTaskDone(0) {
		t.Error("IsTaskDone(0) should act on the most recently created task")
	}
	data, ok := m.TaskResult(0)
	if !ok || string(data) != "ok" {
		t.Errorf("TaskResult(0) = (%q, %v), want (\"ok\", true)", data, ok)
	}
}
