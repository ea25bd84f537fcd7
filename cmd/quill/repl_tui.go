package main

import (
	"bytes"
	"context"
	"strings"
	"unicode"

	"github.com/deepnoodle-ai/wonton/tui"
	"github.com/fatih/color"

	"github.com/risor-io/quill"
)

var (
	tuiPromptStyle  = tui.NewStyle().WithFgRGB(tui.RGB{R: 120, G: 200, B: 140}).WithBold()
	tuiMutedStyle   = tui.NewStyle().WithFgRGB(tui.RGB{R: 140, G: 140, B: 155})
	tuiValueStyle   = tui.NewStyle().WithFgRGB(tui.RGB{R: 200, G: 140, B: 230})
	tuiErrorStyle   = tui.NewStyle().WithForeground(tui.ColorRed)
	tuiWarningStyle = tui.NewStyle().WithForeground(tui.ColorYellow)
)

// replApp drives a repl from an inline terminal UI. Submissions are
// edited in the live region and their output is printed to scrollback.
type replApp struct {
	runner     *tui.InlineApp
	core       *repl
	buf        *bytes.Buffer
	input      string
	cursorPos  int
	historyIdx int
	multiLine  bool
}

func runTerminalRepl(ctx context.Context, opts []quill.Option) error {
	// Output is rendered cell by cell, so escape sequences would be
	// printed literally.
	oldNoColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = oldNoColor }()

	app := newReplApp(ctx, tui.NewInlineApp(tui.InlineAppConfig{
		BracketedPaste: true,
		KittyKeyboard:  true,
	}), opts)
	app.core.history, app.core.historyPath = loadHistory()
	app.runner.Print(tui.Text("quill %s, type #help for commands", version).Style(tuiMutedStyle))
	return app.runner.Run(app)
}

func newReplApp(ctx context.Context, runner *tui.InlineApp, opts []quill.Option) *replApp {
	buf := &bytes.Buffer{}
	// print writes into the same buffer so script output lands in
	// scrollback in order with values and diagnostics. input reads nothing
	// since the terminal belongs to the editor.
	opts = append(opts, quill.WithStdout(buf), quill.WithStdin(strings.NewReader("")))
	return &replApp{
		runner:     runner,
		core:       newRepl(ctx, strings.NewReader(""), buf, opts),
		buf:        buf,
		historyIdx: -1,
	}
}

// LiveView returns the prompt and the input being edited.
func (app *replApp) LiveView() tui.View {
	lines := strings.Split(app.input, "\n")
	views := []tui.View{tui.Divider()}

	pos := app.cursorPos
	for i, line := range lines {
		prompt := "» "
		if i > 0 {
			prompt = "· "
		}
		runes := []rune(line)
		row := []tui.View{tui.Text("%s", prompt).Style(tuiPromptStyle)}
		if pos >= 0 && pos <= len(runes) {
			cursor := " "
			after := ""
			if pos < len(runes) {
				cursor = string(runes[pos])
				after = string(runes[pos+1:])
			}
			row = append(row,
				tui.Text("%s", string(runes[:pos])),
				tui.Text("%s", cursor).Reverse(),
				tui.Text("%s", after),
			)
		} else {
			row = append(row, tui.Text("%s", line))
		}
		views = append(views, tui.Group(row...))
		pos -= len(runes) + 1
	}
	views = append(views, tui.Divider())
	return tui.Stack(views...)
}

// HandleEvent edits the input and submits it on enter.
func (app *replApp) HandleEvent(event tui.Event) []tui.Cmd {
	keyEvent, ok := event.(tui.KeyEvent)
	if !ok {
		return nil
	}

	if keyEvent.Paste != "" {
		app.insertString(keyEvent.Paste)
		return nil
	}

	switch keyEvent.Key {
	case tui.KeyEnter:
		if keyEvent.Shift {
			app.insertString("\n")
			return nil
		}
		return app.submit()

	case tui.KeyCtrlC:
		if app.input != "" {
			app.reset()
			return nil
		}
		return []tui.Cmd{tui.Quit()}

	case tui.KeyCtrlD:
		if app.input == "" {
			return []tui.Cmd{tui.Quit()}
		}
		app.deleteChar()

	case tui.KeyBackspace:
		app.backspace()

	case tui.KeyDelete:
		app.deleteChar()

	case tui.KeyArrowLeft:
		if app.cursorPos > 0 {
			app.cursorPos--
		}

	case tui.KeyArrowRight:
		if app.cursorPos < len([]rune(app.input)) {
			app.cursorPos++
		}

	case tui.KeyHome, tui.KeyCtrlA:
		app.cursorPos = 0

	case tui.KeyEnd, tui.KeyCtrlE:
		app.cursorPos = len([]rune(app.input))

	case tui.KeyCtrlU:
		app.reset()

	case tui.KeyCtrlK:
		app.setInput(string([]rune(app.input)[:app.cursorPos]))

	case tui.KeyCtrlW:
		app.deleteWordBackward()

	case tui.KeyArrowUp:
		app.historyUp()

	case tui.KeyArrowDown:
		app.historyDown()

	default:
		if keyEvent.Rune != 0 {
			app.insertString(string(keyEvent.Rune))
		}
	}
	return nil
}

// submit evaluates the input once it forms a complete submission. A
// trailing blank line submits incomplete input anyway.
func (app *replApp) submit() []tui.Cmd {
	text := strings.TrimSpace(app.input)
	if text == "" {
		app.reset()
		return nil
	}

	forced := strings.HasSuffix(app.input, "\n")
	if !strings.HasPrefix(text, "#") && !forced && !isCompleteSubmission(app.input) {
		app.input += "\n"
		app.cursorPos = len([]rune(app.input))
		app.multiLine = true
		return nil
	}

	submitted := strings.TrimRight(app.input, "\n")
	app.reset()
	app.echo(submitted)

	if strings.HasPrefix(text, "#") {
		app.core.metaCommand(text)
	} else {
		app.core.addHistory(submitted)
		app.core.evaluate(submitted)
	}
	app.flush()

	if app.core.done {
		return []tui.Cmd{tui.Quit()}
	}
	return nil
}

func (app *replApp) echo(text string) {
	views := make([]tui.View, 0, strings.Count(text, "\n")+1)
	for i, line := range strings.Split(text, "\n") {
		prompt := "» "
		if i > 0 {
			prompt = "· "
		}
		views = append(views, tui.Group(
			tui.Text("%s", prompt).Style(tuiPromptStyle),
			tui.Text("%s", line),
		))
	}
	app.runner.Print(tui.Stack(views...))
}

// flush prints whatever the last submission wrote, one view per line.
func (app *replApp) flush() {
	out := strings.TrimRight(app.buf.String(), "\n")
	app.buf.Reset()
	if out == "" {
		return
	}
	lines := strings.Split(out, "\n")
	views := make([]tui.View, len(lines))
	for i, line := range lines {
		views[i] = tui.Text("%s", line).Style(lineStyle(line))
	}
	app.runner.Print(tui.Stack(views...))
}

func lineStyle(line string) tui.Style {
	switch {
	case strings.HasPrefix(line, "error"):
		return tuiErrorStyle
	case strings.HasPrefix(line, "warning"):
		return tuiWarningStyle
	case strings.HasPrefix(line, "Showing"), strings.HasPrefix(line, "Not showing"),
		strings.HasPrefix(line, "Cleared"):
		return tuiMutedStyle
	}
	return tui.NewStyle()
}

func (app *replApp) reset() {
	app.input = ""
	app.cursorPos = 0
	app.historyIdx = -1
	app.multiLine = false
}

func (app *replApp) setInput(s string) {
	app.input = s
	if n := len([]rune(s)); app.cursorPos > n {
		app.cursorPos = n
	}
	app.multiLine = strings.Contains(s, "\n")
}

func (app *replApp) insertString(s string) {
	runes := []rune(app.input)
	inserted := []rune(s)
	out := make([]rune, 0, len(runes)+len(inserted))
	out = append(out, runes[:app.cursorPos]...)
	out = append(out, inserted...)
	out = append(out, runes[app.cursorPos:]...)
	app.cursorPos += len(inserted)
	app.historyIdx = -1
	app.setInput(string(out))
}

func (app *replApp) backspace() {
	if app.cursorPos == 0 {
		return
	}
	runes := []rune(app.input)
	app.cursorPos--
	app.setInput(string(runes[:app.cursorPos]) + string(runes[app.cursorPos+1:]))
}

func (app *replApp) deleteChar() {
	runes := []rune(app.input)
	if app.cursorPos >= len(runes) {
		return
	}
	app.setInput(string(runes[:app.cursorPos]) + string(runes[app.cursorPos+1:]))
}

func (app *replApp) deleteWordBackward() {
	runes := []rune(app.input)
	end := app.cursorPos
	for app.cursorPos > 0 && !isWordChar(runes[app.cursorPos-1]) {
		app.cursorPos--
	}
	for app.cursorPos > 0 && isWordChar(runes[app.cursorPos-1]) {
		app.cursorPos--
	}
	app.historyIdx = -1
	app.setInput(string(runes[:app.cursorPos]) + string(runes[end:]))
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (app *replApp) historyUp() {
	history := app.core.history
	if len(history) == 0 {
		return
	}
	switch {
	case app.historyIdx == -1:
		app.historyIdx = len(history) - 1
	case app.historyIdx > 0:
		app.historyIdx--
	default:
		return
	}
	app.showHistory()
}

func (app *replApp) historyDown() {
	if app.historyIdx == -1 {
		return
	}
	if app.historyIdx >= len(app.core.history)-1 {
		app.reset()
		return
	}
	app.historyIdx++
	app.showHistory()
}

func (app *replApp) showHistory() {
	entry := app.core.history[app.historyIdx]
	app.cursorPos = len([]rune(entry))
	app.setInput(entry)
}
