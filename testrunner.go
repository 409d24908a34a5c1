package arbor

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	DX     float64 `yaml:"dx,omitempty"`
	DY     float64 `yaml:"dy,omitempty"`
	Key    string  `yaml:"key,omitempty"`
	Code   string  `yaml:"code,omitempty"`
	Shift  bool    `yaml:"shift,omitempty"`
	Finger uint64  `yaml:"finger,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	Name   string  `yaml:"name,omitempty"`
}

// testScript is the top-level structure for a test script.
type testScript struct {
	Steps []testStep `yaml:"steps"`
}

// TestRunner sequences injected input and focus assertions across frames
// for scripted interaction tests. Attach to a Scene via SetTestRunner.
//
// Supported actions: click, move, press, release, key, tab, wheel, tap,
// wait, expect_focus.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	failures  []error
}

// LoadTestScript parses a YAML (or JSON) test script and returns a
// TestRunner ready to be attached to a Scene via SetTestRunner.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownAction(st.Action) {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func knownAction(a string) bool {
	switch a {
	case "click", "move", "press", "release", "key", "tab", "wheel", "tap", "wait", "expect_focus":
		return true
	}
	return false
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called from Scene.Update before input is polled each frame.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns every failed expectation joined, or nil.
func (r *TestRunner) Err() error {
	return errors.Join(r.failures...)
}

// step advances the test runner by one frame. Called from Scene.Update.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}

	// Assertions don't consume a frame; run every consecutive one now.
	for r.cursor < len(r.steps) && r.steps[r.cursor].Action == "expect_focus" {
		r.expectFocus(s, r.cursor, r.steps[r.cursor].Name)
		r.cursor++
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		s.InjectClick(st.X, st.Y)
	case "move":
		s.InjectMove(st.X, st.Y)
	case "press":
		s.InjectPress(st.X, st.Y)
	case "release":
		s.InjectRelease(st.X, st.Y)
	case "key":
		var mods KeyModifiers
		if st.Shift {
			mods = ModShift
		}
		code := st.Code
		if code == "" {
			code = st.Key
		}
		s.InjectKey(st.Key, code, mods)
	case "tab":
		s.InjectTab(st.Shift)
	case "wheel":
		s.InjectWheel(st.X, st.Y, st.DX, st.DY)
	case "tap":
		s.InjectTap(st.Finger, st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
}

// expectFocus records a failure unless the focused node is called name. An
// empty name expects nothing to be focused.
func (r *TestRunner) expectFocus(s *Scene, index int, name string) {
	id := s.access.FocusID()
	var got string
	if n, ok := s.accessNodes[id]; ok {
		got = n.Name
	}
	if got != name {
		r.failures = append(r.failures,
			fmt.Errorf("step %d: expect_focus: focused %q, want %q", index, got, name))
	}
}
