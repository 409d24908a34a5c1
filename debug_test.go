package arbor

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// debugScene returns a scene in debug mode whose log output lands in buf.
func debugScene(t *testing.T, buf *bytes.Buffer) *Scene {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewScene(WithLogger(logger), WithDebug(true))
	t.Cleanup(func() {
		s.SetDebugMode(false)
		debugLogger.Store(nil)
	})
	return s
}

func expectPanic(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, contains) {
			t.Errorf("panic = %q, want it to mention %q", msg, contains)
		}
	}()
	fn()
}

func TestDebugModeDisposedChildPanics(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)
	child := NewElement("child")
	child.Dispose()

	expectPanic(t, "disposed", func() { s.Root().AddChild(child) })
}

func TestDebugModeDisposedParentPanics(t *testing.T) {
	var buf bytes.Buffer
	debugScene(t, &buf)
	parent := NewElement("parent")
	parent.Dispose()

	expectPanic(t, `AddChildAt (parent) on disposed node "parent"`, func() {
		parent.AddChildAt(NewElement("child"), 0)
	})
}

func TestReleaseModeDisposedNodeNoPanic(t *testing.T) {
	s := NewScene()
	child := NewElement("child")
	child.Dispose()

	s.Root().AddChild(child)
	if child.Parent != s.Root() {
		t.Error("release mode should not check disposal")
	}
}

func TestDebugModeTreeDepthWarning(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)

	current := s.Root()
	for i := range debugMaxTreeDepth + 2 {
		child := NewElement(fmt.Sprintf("depth_%d", i))
		current.AddChild(child)
		current = child
	}

	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected tree depth warning, got: %q", buf.String())
	}
}

func TestDebugModeChildCountWarning(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)

	parent := NewElement("many_children")
	s.Root().AddChild(parent)
	for i := range debugMaxChildCount + 1 {
		parent.AddChild(NewElement(fmt.Sprintf("c_%d", i)))
	}

	out := buf.String()
	if !strings.Contains(out, "child count exceeds threshold") || !strings.Contains(out, "node=many_children") {
		t.Errorf("expected child count warning, got: %q", out)
	}
}

func TestDebugModeFrameStats(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)
	b := button("ok", 0)
	s.Root().AddChild(b)

	s.Update()

	out := buf.String()
	for _, want := range []string{"msg=frame", "frame=0", "accessible=1", "events=0"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame log missing %q: %q", want, out)
		}
	}
}

func TestSetDebugModeConcurrentScenes(t *testing.T) {
	scenes := []*Scene{NewScene(), NewScene()}
	t.Cleanup(func() {
		globalDebug.Store(false)
		debugLogger.Store(nil)
	})

	// Node ids come from a plain counter, so nodes are built up front.
	children := make([][]*Node, len(scenes))
	for i := range children {
		for range 100 {
			children[i] = append(children[i], NewElement("n"))
		}
	}

	var wg sync.WaitGroup
	for i, s := range scenes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j, n := range children[i] {
				s.SetDebugMode(j%2 == 0)
				s.Root().AddChild(n)
			}
		}()
	}
	wg.Wait()

	if scenes[0].Root().NumChildren() != 100 || scenes[1].Root().NumChildren() != 100 {
		t.Error("every AddChild should land")
	}
}

func TestReleaseModeNoFrameStats(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewScene(WithLogger(logger))
	s.Update()

	if strings.Contains(buf.String(), "msg=frame") {
		t.Error("frame stats should only be logged in debug mode")
	}
}
