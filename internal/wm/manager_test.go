package wm

import (
	"testing"
)

func TestOpenFocuses(t *testing.T) {
	m := NewManager()
	k := AppKey("vault")

	m.Open(k)

	if !m.IsOpen(k) {
		t.Fatal("window not open after Open")
	}
	if focused, ok := m.Focused(KindApp); !ok || focused != k {
		t.Fatalf("focused = %v, %v; want %v focused", focused, ok, k)
	}
	if _, ok := m.ZIndex(k); !ok {
		t.Fatal("no z-index assigned on Open")
	}
}

func TestCrossDomainFocusExclusivity(t *testing.T) {
	m := NewManager()
	a := AppKey("chat")
	b := FolderKey("f1")
	m.Open(a)
	m.Open(b)

	m.Focus(a)
	m.Focus(b)

	if _, ok := m.Focused(KindApp); ok {
		t.Error("app still focused after focusing a folder")
	}
	if focused, ok := m.Focused(KindFolder); !ok || focused != b {
		t.Errorf("focused folder = %v, %v; want %v", focused, ok, b)
	}
	za, _ := m.ZIndex(a)
	zb, _ := m.ZIndex(b)
	if zb <= za {
		t.Errorf("folder z = %d not above app z = %d", zb, za)
	}
}

func TestMinimizeClearsFocusAndRestoreRefocuses(t *testing.T) {
	m := NewManager()
	k := FolderKey("f1")
	m.Open(k)
	zBefore, _ := m.ZIndex(k)

	m.Minimize(k)
	if !m.IsMinimized(k) {
		t.Fatal("window not minimized")
	}
	if _, ok := m.Focused(KindFolder); ok {
		t.Error("minimized window still focused")
	}

	m.Restore(k)
	if m.IsMinimized(k) {
		t.Error("window still minimized after Restore")
	}
	if focused, ok := m.Focused(KindFolder); !ok || focused != k {
		t.Error("window not re-focused after Restore")
	}
	if zAfter, _ := m.ZIndex(k); zAfter <= zBefore {
		t.Errorf("z after restore = %d, want > %d", zAfter, zBefore)
	}
}

func TestFocusIgnoresMinimizedAndClosed(t *testing.T) {
	m := NewManager()
	k := AppKey("mail")

	m.Focus(k) // closed: no-op
	if _, ok := m.Focused(KindApp); ok {
		t.Error("closed window became focused")
	}

	m.Open(k)
	m.Minimize(k)
	m.Focus(k) // minimized: no-op
	if _, ok := m.Focused(KindApp); ok {
		t.Error("minimized window became focused")
	}
}

func TestCloseClearsAllState(t *testing.T) {
	m := NewManager()
	k := AppKey("vault")
	m.Open(k)
	m.Close(k)

	if m.IsOpen(k) || m.IsMinimized(k) {
		t.Error("window state survived Close")
	}
	if _, ok := m.Focused(KindApp); ok {
		t.Error("focus survived Close")
	}
	if _, ok := m.ZIndex(k); ok {
		t.Error("z-index survived Close")
	}
}

func TestOverviewProjection(t *testing.T) {
	m := NewManager()
	a := AppKey("chat")
	f1 := FolderKey("f1")
	f2 := FolderKey("f2")
	m.Open(a)
	m.Open(f1)
	m.Open(f2)
	m.Minimize(f1)

	items := m.Overview()
	if len(items) != 3 {
		t.Fatalf("overview size = %d, want 3", len(items))
	}
	byKey := make(map[Key]OverviewItem, len(items))
	for _, it := range items {
		byKey[it.Key] = it
	}
	if !byKey[f1].Minimized || byKey[f1].Focused {
		t.Errorf("f1 state = %+v, want minimized and unfocused", byKey[f1])
	}
	if !byKey[f2].Focused {
		t.Errorf("f2 state = %+v, want focused", byKey[f2])
	}
	if byKey[a].Focused {
		// Opening f1/f2 after a moved focus to the folder domain.
		t.Errorf("app state = %+v, want unfocused", byKey[a])
	}
	// Bottom of the stack first.
	for i := 1; i < len(items); i++ {
		if items[i-1].Z > items[i].Z {
			t.Errorf("overview not z-sorted: %v", items)
		}
	}
}

func TestWindowKeyString(t *testing.T) {
	if got := AppKey("vault").String(); got != "app-vault" {
		t.Errorf("app key = %q", got)
	}
	if got := FolderKey("abc").String(); got != "folder-abc" {
		t.Errorf("folder key = %q", got)
	}
}
