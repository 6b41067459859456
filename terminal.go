package flexlabel

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

func HideCursor() {
	fmt.Print("\033[?25l")
}

func ShowCursor() {
	fmt.Print("\033[?25h")
}

// CursorTo moves the cursor to a one-based row and column.
func CursorTo(row, col int) {
	fmt.Printf("\033[%d;%dH", row, col)
}

func ClearScreen() {
	fmt.Print("\033[2J")
}

// ScreenBox returns a Box covering the whole terminal attached to stdout.
func ScreenBox() (Box, error) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return Box{}, fmt.Errorf("terminal size: %w", err)
	}
	return NewBox(0, 0, width, height), nil
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Handles SIGINT, SIGTERM, and SIGWINCH signals.
//
// - SIGINT/SIGTERM : shows the cursor and exits the current process
//
// - SIGWINCH : calls onResize with the new screen box
func HandleShellSignals(onResize func(Box)) {
	stopChan := make(chan os.Signal, 1)
	resizeChan := make(chan os.Signal, 1)

	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
	signal.Notify(resizeChan, syscall.SIGWINCH)

	go func() {
		<-stopChan
		ShowCursor()
		os.Exit(0)
	}()

	go func() {
		for {
			<-resizeChan
			box, err := ScreenBox()
			if err != nil {
				continue
			}
			if onResize != nil {
				onResize(box)
			}
		}
	}()
}
