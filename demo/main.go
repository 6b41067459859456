package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/alecthomas/kong"
	"github.com/computerdane/flexlabel"
	"github.com/computerdane/flexlabel/internal/logging"
	"github.com/computerdane/flexlabel/renderers"
	"github.com/eiannone/keyboard"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
)

var cli struct {
	File     string `arg:"" type:"existingfile" help:"TOML label description."`
	Renderer string `enum:"ansi,html,runs" default:"ansi" help:"Output backend (${enum})."`
	Width    int      `default:"0" help:"Block width for the runs backend, 0 for unbounded."`
	Height   int      `default:"0" help:"Block height for the runs backend, 0 to fit the text."`
	Color    bool     `help:"Emit color escapes even when stdout is not a terminal."`
	Tap      []int    `help:"Tap the given UTF-16 offsets after rendering (html and runs backends)."`
	Click    []string `placeholder:"ROW:COL" help:"Click the given one-based screen cells after the first draw (ansi backend)."`
	LogLevel string   `default:"warn" enum:"debug,info,warn,error" help:"Log level."`
	LogJSON  bool     `name:"log-json" help:"Log as JSON."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("flexlabel"),
		kong.Description("Render a rich-text label described in TOML."),
	)

	level, err := logging.ParseLevel(cli.LogLevel)
	ctx.FatalIfErrorf(err)
	format := logging.FormatText
	if cli.LogJSON {
		format = logging.FormatJSON
	}
	logging.InitLogger(level, format, os.Stderr)

	cfg, err := flexlabel.LoadConfigFile(cli.File)
	ctx.FatalIfErrorf(err)

	label := flexlabel.NewLabel()
	onTap := func(action string) {
		logging.Info("tapped", "label", label.Key(), "action", action)
	}

	switch cli.Renderer {
	case "html":
		r := renderers.NewHTMLRenderer(os.Stdout)
		cfg.Apply(label, onTap)
		label.SetRenderer(r)
		fmt.Println()
		// Taps go through the ids of the rendered anchors, the way a page
		// script would report a click.
		for _, offset := range cli.Tap {
			id, ok := r.TapID(offset)
			if !ok || !r.Activate(id) {
				logging.Warn("nothing to tap", "offset", offset)
			}
		}
	case "runs":
		r := renderers.NewRunRenderer(os.Stdout, cli.Width)
		r.SetHeight(cli.Height)
		if cli.Color {
			r.SetColorProfile(termenv.TrueColor)
		}
		cfg.Apply(label, onTap)
		label.SetRenderer(r)
		for _, offset := range cli.Tap {
			if !label.Tap(offset) {
				logging.Warn("nothing to tap", "offset", offset)
			}
		}
	default:
		ctx.FatalIfErrorf(runTerminal(label, cfg))
	}
}

func labelBox(screen flexlabel.Box) flexlabel.Box {
	return flexlabel.NewBox(screen.Top(), screen.Left(), screen.Width(), screen.Height()-1)
}

// parseCell parses a one-based "row:col" screen position into zero-based
// coordinates.
func parseCell(s string) (row, col int, err error) {
	r, c, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("cell %q: want ROW:COL", s)
	}
	if row, err = strconv.Atoi(r); err != nil {
		return 0, 0, fmt.Errorf("cell %q: %w", s, err)
	}
	if col, err = strconv.Atoi(c); err != nil {
		return 0, 0, fmt.Errorf("cell %q: %w", s, err)
	}
	return row - 1, col - 1, nil
}

// click taps whatever the last draw put at a screen cell.
func click(label *flexlabel.Label, r *renderers.ANSIRenderer, cell string) error {
	row, col, err := parseCell(cell)
	if err != nil {
		return err
	}
	offset, ok := r.OffsetAt(row, col)
	if !ok || !label.Tap(offset) {
		logging.Warn("nothing to click", "cell", cell)
	}
	return nil
}

// runTerminal draws the label full screen and drives its taps from the
// keyboard: tab or j and k move focus, enter taps, q quits.
func runTerminal(label *flexlabel.Label, cfg flexlabel.Config) error {
	if !flexlabel.IsTerminal() && !cli.Color {
		return errors.New("the ansi renderer needs a terminal, use --color to force it")
	}
	screen, err := flexlabel.ScreenBox()
	if err != nil {
		return err
	}

	if err := keyboard.Open(); err != nil {
		return fmt.Errorf("open keyboard: %w", err)
	}
	defer keyboard.Close()

	flexlabel.HideCursor()
	defer flexlabel.ShowCursor()
	flexlabel.ClearScreen()

	r := renderers.NewANSIRenderer(os.Stdout, labelBox(screen))
	r.SetForceColor(cli.Color)
	r.SetBorders(&renderers.Borders{
		Symbols:         renderers.BordersSymbols_Rounded,
		Title:           " " + cli.File + " ",
		TitleIsOnBottom: true,
		ColorFunc:       color.New(color.FgHiBlack).SprintFunc(),
		TitleColorFunc:  color.New(color.Bold).Add(color.FgBlue).SprintFunc(),
	})
	r.Focus().SetSelectedColorFunc(color.New(color.ReverseVideo).SprintFunc())

	// The last screen row is the status line.
	var statusRow atomic.Int64
	statusRow.Store(int64(screen.Height()))

	flexlabel.HandleShellSignals(func(screen flexlabel.Box) {
		statusRow.Store(int64(screen.Height()))
		r.SetBox(labelBox(screen))
		flexlabel.ClearScreen()
		label.Render()
	})

	cfg.Apply(label, func(action string) {
		logging.Info("tapped", "label", label.Key(), "action", action)
		flexlabel.CursorTo(int(statusRow.Load()), 1)
		fmt.Printf("\033[2Ktapped %q", action)
	})
	label.SetRenderer(r)

	for _, cell := range cli.Click {
		if err := click(label, r, cell); err != nil {
			return err
		}
	}

	for {
		char, key, err := keyboard.GetKey()
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}

		switch {
		case char == 'q' || key == keyboard.KeyCtrlC || key == keyboard.KeyEsc:
			return nil
		case key == keyboard.KeyTab || char == 'j':
			r.Focus().Next()
			label.Render()
		case char == 'k':
			r.Focus().Prev()
			label.Render()
		case key == keyboard.KeyEnter || key == keyboard.KeySpace:
			if offset, ok := r.Focus().Offset(); ok {
				label.Tap(offset)
			}
		}
	}
}
