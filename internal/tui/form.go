package tui

import (
	"fmt"
	"strconv"
	"strings"

	"solve-launcher/internal/app"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldTask = iota
	fieldLabel
	fieldEngine
	fieldIndex
	fieldMaxTime
	fieldOutputTypes
	fieldSolveBin
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTask:        "Task",
	fieldLabel:       "Label",
	fieldEngine:      "LLM engine",
	fieldIndex:       "Index",
	fieldMaxTime:     "Max time (s)",
	fieldOutputTypes: "Output types",
	fieldSolveBin:    "Solve binary",
}

type toolCheck struct {
	tool    app.Tool
	checked bool
}

// formModel edits one run configuration before launch. Focus walks the text
// fields, then the tool checkboxes, then the launch button.
type formModel struct {
	theme  Theme
	base   app.Config
	fields [fieldCount]textinput.Model
	tools  []toolCheck
	focus  int
	status string
}

func newFormModel(cfg app.Config, theme Theme) formModel {
	f := formModel{theme: theme, base: cfg}

	values := [fieldCount]string{
		fieldTask:        cfg.Task,
		fieldLabel:       cfg.Label,
		fieldEngine:      cfg.LLMEngine,
		fieldIndex:       strconv.Itoa(cfg.Index),
		fieldMaxTime:     strconv.Itoa(cfg.MaxTime),
		fieldOutputTypes: cfg.OutputTypes,
		fieldSolveBin:    cfg.SolveBin,
	}
	for i := range f.fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 256
		in.SetValue(values[i])
		f.fields[i] = in
	}
	f.fields[0].Focus()

	enabled := make(map[string]bool, len(cfg.EnabledTools))
	for _, name := range cfg.EnabledTools {
		enabled[name] = true
	}
	for _, tool := range app.KnownTools() {
		f.tools = append(f.tools, toolCheck{tool: tool, checked: enabled[tool.Name]})
		delete(enabled, tool.Name)
	}
	// Tools configured outside the catalog still show up and stay enabled.
	for _, name := range cfg.EnabledTools {
		if enabled[name] {
			f.tools = append(f.tools, toolCheck{tool: app.Tool{Name: name}, checked: true})
		}
	}
	return f
}

// Focus slots: text fields, then one per tool, then the launch button.
func (f *formModel) slotCount() int {
	return fieldCount + len(f.tools) + 1
}

func (f *formModel) onLaunchSlot() bool {
	return f.focus == f.slotCount()-1
}

func (f *formModel) onToolSlot() bool {
	return f.focus >= fieldCount && f.focus < fieldCount+len(f.tools)
}

func (f *formModel) setFocus(slot int) {
	if slot < 0 {
		slot = f.slotCount() - 1
	}
	if slot >= f.slotCount() {
		slot = 0
	}
	f.focus = slot
	for i := range f.fields {
		if i == slot {
			f.fields[i].Focus()
		} else {
			f.fields[i].Blur()
		}
	}
}

func (f *formModel) toggleCurrent() {
	if f.onToolSlot() {
		i := f.focus - fieldCount
		f.tools[i].checked = !f.tools[i].checked
	}
}

func (f *formModel) update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "shift+tab":
			f.setFocus(f.focus - 1)
			return nil
		case "down", "tab":
			f.setFocus(f.focus + 1)
			return nil
		case " ":
			if f.onToolSlot() {
				f.toggleCurrent()
				return nil
			}
		}
	}

	if f.focus < fieldCount {
		var cmd tea.Cmd
		f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
		return cmd
	}
	return nil
}

// config assembles the run configuration the form currently describes.
func (f *formModel) config() (app.Config, error) {
	cfg := f.base
	cfg.Task = strings.TrimSpace(f.fields[fieldTask].Value())
	cfg.Label = strings.TrimSpace(f.fields[fieldLabel].Value())
	cfg.LLMEngine = strings.TrimSpace(f.fields[fieldEngine].Value())
	cfg.OutputTypes = strings.TrimSpace(f.fields[fieldOutputTypes].Value())
	cfg.SolveBin = strings.TrimSpace(f.fields[fieldSolveBin].Value())

	index, err := strconv.Atoi(strings.TrimSpace(f.fields[fieldIndex].Value()))
	if err != nil {
		return cfg, fmt.Errorf("index must be a number")
	}
	cfg.Index = index

	maxTime, err := strconv.Atoi(strings.TrimSpace(f.fields[fieldMaxTime].Value()))
	if err != nil {
		return cfg, fmt.Errorf("max time must be a number")
	}
	cfg.MaxTime = maxTime

	var tools []string
	for _, tc := range f.tools {
		if tc.checked {
			tools = append(tools, tc.tool.Name)
		}
	}
	cfg.EnabledTools = tools

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// previewConfig is the best-effort configuration for the path preview; bad
// numeric fields fall back to the base values instead of erroring.
func (f *formModel) previewConfig() app.Config {
	cfg, err := f.config()
	if err != nil {
		cfg.Task = strings.TrimSpace(f.fields[fieldTask].Value())
		cfg.Label = strings.TrimSpace(f.fields[fieldLabel].Value())
	}
	if cfg.Task == "" {
		cfg.Task = f.base.Task
	}
	if cfg.Label == "" {
		cfg.Label = f.base.Label
	}
	return cfg
}

func (f *formModel) view(width int) string {
	var b strings.Builder

	for i := range f.fields {
		label := f.theme.FieldLabel
		if f.focus == i {
			label = f.theme.FieldLabelF
		}
		b.WriteString(fmt.Sprintf("%s %s", label.Width(14).Render(fieldLabels[i]), f.fields[i].View()))
		if i == fieldEngine {
			if info, ok := app.LookupEngine(f.fields[fieldEngine].Value()); ok {
				b.WriteString(f.theme.PathPreview.Render("  (" + info.Family + ")"))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + f.theme.PaneTitle.Render("Tools") + "\n")
	for i, tc := range f.tools {
		marker := f.theme.CheckOff.Render("○")
		if tc.checked {
			marker = f.theme.CheckOn.Render("●")
		}
		name := tc.tool.Name
		if f.focus == fieldCount+i {
			name = f.theme.FieldLabelF.Render(name)
		} else {
			name = f.theme.FieldLabel.Render(name)
		}
		b.WriteString(fmt.Sprintf("  %s %s", marker, name))
		if tc.tool.Description != "" && width >= 100 {
			b.WriteString(f.theme.PathPreview.Render("  " + tc.tool.Description))
		}
		b.WriteString("\n")
	}

	launch := "[ Launch ]"
	if f.onLaunchSlot() {
		launch = f.theme.StatusOK.Render("[ Launch ]")
	} else {
		launch = f.theme.FieldLabel.Render(launch)
	}
	b.WriteString("\n" + launch + "\n")

	preview := f.previewConfig()
	b.WriteString("\n" + f.theme.PaneTitle.Render("Run layout") + "\n")
	b.WriteString(f.theme.PathPreview.Render("  data    "+preview.ResolvedDataFile()) + "\n")
	b.WriteString(f.theme.PathPreview.Render("  logs    "+preview.ResolvedLogDir()) + "\n")
	b.WriteString(f.theme.PathPreview.Render("  results "+preview.ResolvedOutputDir()) + "\n")
	b.WriteString(f.theme.PathPreview.Render("  cache   "+preview.ResolvedCacheDir()) + "\n")

	if f.status != "" {
		b.WriteString("\n" + f.theme.StatusErr.Render(f.status) + "\n")
	}
	return b.String()
}
