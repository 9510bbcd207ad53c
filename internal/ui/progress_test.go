package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"loxvm/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("check", []string{"a.lox", "b.lox"}, events).(*progressModel)

	m.Update(eventMsg(driver.Event{File: "a.lox", Stage: driver.StageCompile, Status: driver.StatusWorking}))
	m.Update(eventMsg(driver.Event{File: "b.lox", Stage: driver.StageCompile, Status: driver.StatusError}))
	m.Update(eventMsg(driver.Event{File: "zzz.lox", Status: driver.StatusDone}))

	if m.items[0].status != "compiling" || m.items[0].finished {
		t.Fatalf("a.lox: %+v", m.items[0])
	}
	if m.items[1].status != "error" || !m.items[1].finished {
		t.Fatalf("b.lox: %+v", m.items[1])
	}
	if got := m.percent(); got != (0.6+1.0)/2 {
		t.Fatalf("percent = %v", got)
	}

	view := m.View()
	if !strings.Contains(view, "a.lox") || !strings.Contains(view, "compiling") {
		t.Fatalf("unexpected view:\n%s", view)
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatal("doneMsg must quit")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Fatalf("expected quit message, got %#v", msg)
	}
}

func TestListenForEventReportsClose(t *testing.T) {
	events := make(chan driver.Event, 1)
	m := NewProgressModel("check", []string{"a.lox"}, events).(*progressModel)
	events <- driver.Event{File: "a.lox", Status: driver.StatusCached}
	close(events)

	if msg, ok := m.listenForEvent()().(eventMsg); !ok || msg.Status != driver.StatusCached {
		t.Fatalf("expected cached event, got %#v", msg)
	}
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatal("closed channel must produce doneMsg")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short.lox", 20, "short.lox"},
		{"a/very/long/path/file.lox", 10, "a/very/..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
