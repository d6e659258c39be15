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
	"fmt"
	"strings"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// menuItem is an entry of the menu.
type menuItem int

const (
	itemOriginal menuItem = iota
	itemRandom
	itemSave
	itemQuit
)

var menuLabels = [...]string{
	itemOriginal: "Original",
	itemRandom:   "Random",
	itemSave:     "Save",
	itemQuit:     "Quit",
}

// layout returns the layout selected by the item, LayoutCustom if the item
// is not a layout.
func (item menuItem) layout() curvedline.Layout {
	switch item {
	case itemOriginal:
		return curvedline.LayoutOriginal
	case itemRandom:
		return curvedline.LayoutRandom
	default:
		return curvedline.LayoutCustom
	}
}

// MenuModel is the bubbletea model of the layout menu. The active layout is
// marked with a check mark.
type MenuModel struct {
	Engine *curvedline.Engine
	Output string
	Encode curvedline.EncodeOptions
	Cursor int
	Status string
	Failed bool
}

// NewMenuModel creates a menu for engine saving to output.
func NewMenuModel(engine *curvedline.Engine, output string, opts curvedline.EncodeOptions) MenuModel {
	return MenuModel{
		Engine: engine,
		Output: output,
		Encode: opts,
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) activate(item menuItem) (tea.Model, tea.Cmd) {
	switch item {
	case itemOriginal, itemRandom:
		mosaic, err := m.Engine.GenerateLayout(item.layout())
		if err != nil {
			m.Status, m.Failed = curvedline.UserMessage(err), true
			return m, nil
		}
		m.Status = fmt.Sprintf("Generated %s layout", strings.ToLower(mosaic.Layout().DisplayString()))
		m.Failed = false
	case itemSave:
		if err := curvedline.SaveImage(m.Output, m.Engine.Current().Image(), m.Encode); err != nil {
			m.Status, m.Failed = curvedline.UserMessage(err), true
			return m, nil
		}
		m.Status, m.Failed = "Saved "+m.Output, false
	case itemQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(menuLabels)-1 {
				m.Cursor++
			}
		case "enter", " ":
			return m.activate(menuItem(m.Cursor))
		case "o":
			return m.activate(itemOriginal)
		case "r":
			return m.activate(itemRandom)
		case "s":
			return m.activate(itemSave)
		}
	}
	return m, nil
}

func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Find the Curved Line"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  o/r/s shortcuts  q quit"))
	b.WriteString("\n\n")

	active := m.Engine.Layout()
	for i, label := range menuLabels {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		mark := "  "
		if l := menuItem(i).layout(); l != curvedline.LayoutCustom && l == active {
			mark = StyleSuccess.Render(iconSuccess) + " "
		}
		b.WriteString(cursor + mark + style.Render(label) + "\n")
	}

	b.WriteString("\n")
	for _, line := range strings.Split(m.Engine.Current().Cells().String(), "\n") {
		b.WriteString("  " + listDimStyle.Render(line) + "\n")
	}

	if m.Status != "" {
		b.WriteString("\n")
		if m.Failed {
			b.WriteString(StyleError.Render(iconError + " " + m.Status))
		} else {
			b.WriteString(StyleSuccess.Render(m.Status))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (c *CLI) tuiCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Choose layouts in a terminal menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := c.newEngine(cmd)
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Output
			}
			model := NewMenuModel(engine, output, cfg.EncodeOptions())
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file the Save entry writes to")

	return cmd
}
