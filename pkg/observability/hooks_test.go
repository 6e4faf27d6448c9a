package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Editor hooks
	e := NoopEditorHooks{}
	e.OnRouteStart(ctx, 3)
	e.OnRouteComplete(ctx, 3, 1, time.Second)
	e.OnCommandApplied(ctx, "move selection", 12)
	e.OnUndo(ctx, "move selection")
	e.OnRedo(ctx, "move selection")

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "export")
	c.OnCacheMiss(ctx, "export")
	c.OnCacheSet(ctx, "export", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/v1/nets")
	h.OnResponse(ctx, "GET", "/v1/nets", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("Editor() should return NoopEditorHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customEditor := &testEditorHooks{}
	SetEditorHooks(customEditor)
	if Editor() != customEditor {
		t.Error("SetEditorHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("Reset() should restore NoopEditorHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEditorHooks{}
	SetEditorHooks(custom)

	// Setting nil should be ignored
	SetEditorHooks(nil)

	if Editor() != custom {
		t.Error("SetEditorHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testEditorHooks struct{ NoopEditorHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
