// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, selection and the commands sent for key presses
package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func testRows() []Row {
	return []Row{
		{Name: "kick.wav", Volume: 1, Duration: 1500 * time.Millisecond},
		{Name: "snare.wav", Volume: 0.5, Playing: true, Plays: 3},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil) // Controls are optional for testing

	if model.selected != 0 {
		t.Errorf("expected selection 0, got %d", model.selected)
	}

	if len(model.rows) != 0 {
		t.Errorf("expected no rows, got %d", len(model.rows))
	}

	if model.quitting {
		t.Error("expected quitting to be false initially")
	}
}

func TestStatusMsgRows(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{
		Backend: "miniaudio",
		Device:  "Speakers",
		Rows:    testRows(),
	})

	if model.backend != "miniaudio" {
		t.Errorf("expected backend 'miniaudio', got '%s'", model.backend)
	}

	if model.device != "Speakers" {
		t.Errorf("expected device 'Speakers', got '%s'", model.device)
	}

	if len(model.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(model.rows))
	}
}

func TestStatusMsgPartialKeepsRows(t *testing.T) {
	model := NewModel(nil)
	model.applyStatus(StatusMsg{Rows: testRows()})

	model.applyStatus(StatusMsg{Err: "load failed"})

	if len(model.rows) != 2 {
		t.Errorf("expected rows to survive a partial update, got %d", len(model.rows))
	}

	if model.lastErr != "load failed" {
		t.Errorf("expected lastErr 'load failed', got '%s'", model.lastErr)
	}
}

func TestSelectionBounds(t *testing.T) {
	model := NewModel(nil)
	model.applyStatus(StatusMsg{Rows: testRows()})

	model = press(model, "up")
	if model.selected != 0 {
		t.Errorf("expected selection to stay at 0, got %d", model.selected)
	}

	model = press(model, "down", "down", "down")
	if model.selected != 1 {
		t.Errorf("expected selection to stop at 1, got %d", model.selected)
	}

	model.applyStatus(StatusMsg{Rows: testRows()[:1]})
	if model.selected != 0 {
		t.Errorf("expected selection clamped to 0, got %d", model.selected)
	}
}

func TestSpaceTogglesPlayback(t *testing.T) {
	controls := NewControls()
	model := NewModel(controls)
	model.applyStatus(StatusMsg{Rows: testRows()})

	model = press(model, " ")
	cmd := <-controls.Commands
	if cmd.Kind != CommandPlay || cmd.Index != 0 {
		t.Errorf("expected play on 0, got %s on %d", cmd.Kind, cmd.Index)
	}

	model = press(model, "down", " ")
	cmd = <-controls.Commands
	if cmd.Kind != CommandStop || cmd.Index != 1 {
		t.Errorf("expected stop on 1, got %s on %d", cmd.Kind, cmd.Index)
	}

	press(model, "r")
	cmd = <-controls.Commands
	if cmd.Kind != CommandReset || cmd.Index != 1 {
		t.Errorf("expected reset on 1, got %s on %d", cmd.Kind, cmd.Index)
	}
}

func TestVolumeKeys(t *testing.T) {
	controls := NewControls()
	model := NewModel(controls)
	model.applyStatus(StatusMsg{Rows: testRows()})

	model = press(model, "-")
	cmd := <-controls.Commands
	if cmd.Kind != CommandVolume {
		t.Fatalf("expected volume command, got %s", cmd.Kind)
	}
	if cmd.Volume < 0.89 || cmd.Volume > 0.91 {
		t.Errorf("expected volume 0.9, got %f", cmd.Volume)
	}
	if model.rows[0].Volume != cmd.Volume {
		t.Errorf("expected row volume to follow the command, got %f", model.rows[0].Volume)
	}

	for range 30 {
		model = press(model, "-")
		<-controls.Commands
	}
	if model.rows[0].Volume != 0 {
		t.Errorf("expected volume floor 0, got %f", model.rows[0].Volume)
	}
}

func TestKeysWithoutRows(t *testing.T) {
	controls := NewControls()
	model := NewModel(controls)

	press(model, " ", "r", "+")

	select {
	case cmd := <-controls.Commands:
		t.Errorf("expected no command, got %s", cmd.Kind)
	default:
	}
}

func TestQuitKey(t *testing.T) {
	controls := NewControls()
	model := NewModel(controls)

	next, cmd := model.Update(key("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
	if !next.(Model).quitting {
		t.Error("expected quitting to be set")
	}

	select {
	case <-controls.Quit:
	default:
		t.Error("expected quit signal on controls")
	}
}

func TestViewRendersRows(t *testing.T) {
	model := NewModel(nil)
	model.applyStatus(StatusMsg{Backend: "oto", Rows: testRows()})

	view := model.View()
	for _, want := range []string{"Clip Deck", "oto", "kick.wav", "snare.wav", "0:02", "plays: 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		value float32
		want  string
	}{
		{0, "░░░░░░░░░░"},
		{1, "█████░░░░░"},
		{2, "██████████"},
		{5, "██████████"},
	}
	for _, tt := range tests {
		if got := renderBar(tt.value, maxVolume, 10); got != tt.want {
			t.Errorf("renderBar(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected 'short', got '%s'", got)
	}
	if got := truncate("a-very-long-clip-name.wav", 10); got != "a-very-..." {
		t.Errorf("expected 'a-very-...', got '%s'", got)
	}
}
