package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nt314p/eqsolve/equations"
	"github.com/spf13/cobra"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

// replModel keeps a session system: every accepted assignment is part of
// it and values reflect the last successful solve.
type replModel struct {
	textInput   textinput.Model
	config      equations.Config
	session     []equations.Equation
	values      map[string]float64
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlV key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlV: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle vars"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newREPLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive equation session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := solverConfig(cmd)
			if err != nil {
				return err
			}
			// The alt screen owns the terminal.
			cfg.Logger = nil
			return runREPL(cfg)
		},
	}
}

func newREPLModel(cfg equations.Config) replModel {
	ti := textinput.New()
	ti.Placeholder = "x = 2y + sin(z)"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "eq> "

	return replModel{
		textInput:  ti,
		config:     cfg,
		values:     make(map[string]float64),
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlV):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := m.evaluate(input)
			m.history = append(m.history, historyEntry{
				input:  input,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":list", ":l":
		m.history = append(m.history, historyEntry{
			input:  input,
			output: m.listSession(),
		})
	case ":load":
		if len(parts) != 2 {
			m.history = append(m.history, historyEntry{
				input:  input,
				output: "usage: :load <file>",
				isErr:  true,
			})
			break
		}
		output, isErr := m.load(parts[1])
		m.history = append(m.history, historyEntry{
			input:  input,
			output: output,
			isErr:  isErr,
		})
	case ":reset", ":r":
		m.session = nil
		m.values = make(map[string]float64)
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "Session reset",
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if input == "" {
		return m
	}

	// Complete the trailing run of letters.
	end := len(input)
	start := end
	for start > 0 && isIdentifierByte(input[start-1]) {
		start--
	}
	lastWord := input[start:end]
	if lastWord == "" {
		return m
	}

	var completions []string
	for _, name := range equations.FunctionNames() {
		if strings.HasPrefix(name, lastWord) {
			completions = append(completions, name)
		}
	}
	for _, name := range sortedNames(m.values) {
		if strings.HasPrefix(name, lastWord) {
			completions = append(completions, name)
		}
	}

	if len(completions) == 1 {
		m.textInput.SetValue(input[:start] + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}

	return m
}

func isIdentifierByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// evaluate handles one input line. An assignment is committed only when the
// whole session, including the new equation, still solves. A bare
// expression is evaluated against the current values.
func (m *replModel) evaluate(input string) (string, bool) {
	eq, err := equations.ParseEquation(input)
	if err != nil {
		return err.Error(), true
	}

	if !eq.IsAssignment() {
		v, err := equations.EvaluateExpression(eq, m.values)
		if err != nil {
			return err.Error(), true
		}
		return formatNumber(v), false
	}

	if err := m.commit([]equations.Equation{eq}); err != nil {
		return err.Error(), true
	}
	return fmt.Sprintf("%s = %s", eq.LeftHandVariable, formatNumber(m.values[eq.LeftHandVariable])), false
}

func (m *replModel) load(path string) (string, bool) {
	src, err := readSource(path)
	if err != nil {
		return err.Error(), true
	}
	eqs, err := equations.ParseSource(src)
	if err != nil {
		return fmt.Sprintf("%s: %v", path, err), true
	}
	if err := m.commit(eqs); err != nil {
		return err.Error(), true
	}
	return fmt.Sprintf("Loaded %d equation(s) from %s", len(eqs), path), false
}

// commit merges eqs into the session, replacing earlier definitions of the
// same variables, and keeps the result only if it solves.
func (m *replModel) commit(eqs []equations.Equation) error {
	candidate := append([]equations.Equation(nil), m.session...)
	for _, eq := range eqs {
		replaced := false
		for i := range candidate {
			if candidate[i].LeftHandVariable == eq.LeftHandVariable {
				candidate[i] = eq
				replaced = true
				break
			}
		}
		if !replaced {
			candidate = append(candidate, eq)
		}
	}

	sys, err := equations.NewSystem(candidate, m.config)
	if err != nil {
		return err
	}
	values, err := sys.Evaluate()
	if err != nil {
		return err
	}
	m.session = candidate
	m.values = values
	return nil
}

func (m replModel) listSession() string {
	if len(m.session) == 0 {
		return "No equations"
	}
	lines := make([]string, len(m.session))
	for i, eq := range m.session {
		lines[i] = equations.Format(eq)
	}
	return strings.Join(lines, "\n    ")
}

func sortedNames(values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("eqsolve REPL")
	b.WriteString(header + " " + mutedStyle.Render(version) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(0, min(m.width-2, 60)))) + "\n\n")

	reservedLines := 8 // header, input, help hint
	if m.showHelp {
		reservedLines += 12
	}
	if m.showVars {
		reservedLines += len(m.values) + 3
	}
	availableHeight := max(m.height-reservedLines, 0)

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showVars {
		b.WriteString(renderVarsPanel(m.values))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" vars  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderVarsPanel(values map[string]float64) string {
	if len(values) == 0 {
		return borderStyle.Render(mutedStyle.Render("No variables defined"))
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Variables"))
	varNameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, name := range sortedNames(values) {
		lines = append(lines, fmt.Sprintf("  %s = %s", varNameStyle.Render(name), formatNumber(values[name])))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate command history"},
		{"Tab", "Autocomplete functions and variables"},
		{"Enter", "Add an equation or evaluate an expression"},
		{":help", "Toggle this help"},
		{":vars", "Toggle variables panel"},
		{":list", "Show the session equations"},
		{":load", "Add equations from a file"},
		{":clear", "Clear history"},
		{":reset", "Forget every equation"},
		{":quit", "Exit REPL"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runREPL(cfg equations.Config) error {
	p := tea.NewProgram(newREPLModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
