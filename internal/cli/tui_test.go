// Copyright 2022 Ian Parberry
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cli

import (
	"path/filepath"
	"strings"
	"testing"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	tea "github.com/charmbracelet/bubbletea"
)

func newMenu(t *testing.T) MenuModel {
	t.Helper()
	tile, err := curvedline.DefaultTile(8)
	if err != nil {
		t.Fatal(err)
	}
	engine, err := curvedline.NewEngine(tile, curvedline.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), curvedline.DefaultExportName)
	return NewMenuModel(engine, output, curvedline.DefaultEncodeOptions)
}

func press(t *testing.T, m MenuModel, key tea.KeyMsg) (MenuModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	menu, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return menu, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMenuNavigation(t *testing.T) {
	m := newMenu(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first item: %d", m.Cursor)
	}
	for i := 0; i < 10; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Cursor != len(menuLabels)-1 {
		t.Errorf("cursor = %d, want last item", m.Cursor)
	}
	m, _ = press(t, m, runes("k"))
	if m.Cursor != len(menuLabels)-2 {
		t.Errorf("k did not move up: %d", m.Cursor)
	}
}

func TestMenuSelectLayout(t *testing.T) {
	m := newMenu(t)
	if !strings.Contains(m.View(), "Original") {
		t.Fatalf("view:\n%s", m.View())
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("selecting a layout returned a command")
	}
	if m.Engine.Layout() != curvedline.LayoutRandom {
		t.Errorf("layout = %v, want random", m.Engine.Layout())
	}
	if m.Failed || !strings.Contains(m.Status, "random") {
		t.Errorf("status = %q", m.Status)
	}
	if !strings.Contains(m.View(), m.Engine.Current().Cells().String()[:15]) {
		t.Error("view does not show the cells")
	}
	m, _ = press(t, m, runes("o"))
	if m.Engine.Layout() != curvedline.LayoutOriginal {
		t.Errorf("o shortcut: layout = %v", m.Engine.Layout())
	}
}

func TestMenuSave(t *testing.T) {
	m := newMenu(t)
	m, _ = press(t, m, runes("s"))
	if m.Failed {
		t.Fatalf("save failed: %s", m.Status)
	}
	tile, err := curvedline.LoadTile(m.Output)
	if err != nil {
		t.Fatal(err)
	}
	if tile.Size() != 64 {
		t.Errorf("saved mosaic size = %d", tile.Size())
	}

	m.Output = filepath.Join(t.TempDir(), "mosaic.svg")
	m, _ = press(t, m, runes("s"))
	if !m.Failed {
		t.Error("saving with unsupported extension succeeded")
	}
}

func TestMenuQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := press(t, newMenu(t), key)
		if cmd == nil {
			t.Fatalf("%s did not quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s returned %T", key, cmd())
		}
	}
	m := newMenu(t)
	m.Cursor = int(itemQuit)
	if _, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Error("Quit entry did not quit")
	}
}
