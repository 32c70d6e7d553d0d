package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/username/gokana-ime/internal/composer"
	"github.com/username/gokana-ime/internal/table"
)

const (
	serviceName = "org.gokana.Composer"
	objectPath  = "/Composer"
)

// X11 keysym values for the control keys ProcessKey must recognize
// outside ordinary character input.
const (
	keysymBackspace uint32 = 0xff08
	keysymReturn    uint32 = 0xff0d
	keysymEscape    uint32 = 0xff1b
	keysymSpace     uint32 = 0x0020
	keysymTab       uint32 = 0xff09
	keysymDelete    uint32 = 0xffff
	keysymLeft      uint32 = 0xff51
	keysymRight     uint32 = 0xff53
	keysymHome      uint32 = 0xff50
	keysymEnd       uint32 = 0xff57
)

// Modifier flags for keyboard state, matching the frontend's wire format.
const (
	modShift uint32 = 1 << 0
	modLock  uint32 = 1 << 1
	modCtrl  uint32 = 1 << 2
	modAlt   uint32 = 1 << 3
)

// keysymToRune maps a printable-range X11 keysym directly to the rune it
// types. The composer only ever needs the typed character, never the
// raw keysym, so anything outside Latin-1 that isn't one of the named
// control keys above is simply unhandled.
func keysymToRune(keysym uint32) rune {
	if keysym >= 0x20 && keysym <= 0x7e {
		return rune(keysym)
	}
	if keysym >= 0xa0 && keysym <= 0xff {
		return rune(keysym)
	}
	return 0
}

func translateModifiers(modifiers uint32) composer.Modifier {
	var m composer.Modifier
	if modifiers&modShift != 0 {
		m |= composer.ModShift
	}
	if modifiers&modCtrl != 0 {
		m |= composer.ModCtrl
	}
	if modifiers&modAlt != 0 {
		m |= composer.ModAlt
	}
	if modifiers&modLock != 0 {
		m |= composer.ModCapsLocked
	}
	return m
}

func keyLabel(keysym, modifiers uint32) string {
	label := fmt.Sprintf("0x%x", keysym)
	if r := keysymToRune(keysym); r != 0 {
		label = fmt.Sprintf("%q", r)
	} else {
		switch keysym {
		case keysymBackspace:
			label = "Backspace"
		case keysymDelete:
			label = "Delete"
		case keysymReturn:
			label = "Enter"
		case keysymTab:
			label = "Tab"
		case keysymEscape:
			label = "Esc"
		case keysymLeft:
			label = "Left"
		case keysymRight:
			label = "Right"
		case keysymHome:
			label = "Home"
		case keysymEnd:
			label = "End"
		}
	}
	mods := ""
	if modifiers&modShift != 0 {
		mods += "Shift+"
	}
	if modifiers&modCtrl != 0 {
		mods += "Ctrl+"
	}
	if modifiers&modAlt != 0 {
		mods += "Alt+"
	}
	return mods + label
}

// ComposerEngine is the D-Bus object that receives key events from the
// input-method frontend and drives a composer.Composer.
type ComposerEngine struct {
	composer *composer.Composer
	enabled  bool
	logger   *log.Logger
}

// NewComposerEngine creates a ComposerEngine with the bundled romaji
// table and default request/config.
func NewComposerEngine(logger *log.Logger) *ComposerEngine {
	tbl := table.NewDefaultRomanToHiragana()
	tbl.Logger = logger
	return &ComposerEngine{
		composer: composer.NewComposer(tbl, &composer.Request{}, composer.DefaultConfig()),
		enabled:  true,
		logger:   logger,
	}
}

// ProcessKey handles key events from the frontend.
// Input: keysym (X11 keycode), modifiers (Shift/Ctrl/Alt/Lock state)
// Output: handled (was key consumed), commitText (text to commit), preeditText (composition)
func (e *ComposerEngine) ProcessKey(keysym uint32, modifiers uint32) (bool, string, string, *dbus.Error) {
	if !e.enabled {
		return false, "", "", nil
	}

	handled, committed := e.dispatchKey(keysym, modifiers, time.Now().UnixMilli())
	preedit := e.composer.GetStringForPreedit()

	if e.logger != nil {
		e.logger.Printf("Type: %-12s | Preedit: %-15q | Commit: %-15q | Handled: %v",
			keyLabel(keysym, modifiers), preedit, committed, handled)
	}

	return handled, committed, preedit, nil
}

// dispatchKey routes a keysym either to a cursor/edit operation or, for
// ordinary printable input, through the composer's key-event path.
func (e *ComposerEngine) dispatchKey(keysym, modifiers uint32, nowMsec int64) (handled bool, committed string) {
	switch keysym {
	case keysymBackspace:
		e.composer.Backspace()
		return true, ""
	case keysymDelete:
		e.composer.Delete()
		return true, ""
	case keysymLeft:
		e.composer.MoveCursorLeft()
		return true, ""
	case keysymRight:
		e.composer.MoveCursorRight()
		return true, ""
	case keysymHome:
		e.composer.MoveCursorToBeginning()
		return true, ""
	case keysymEnd:
		e.composer.MoveCursorToEnd()
		return true, ""
	case keysymReturn, keysymTab, keysymEscape:
		if e.composer.Empty() {
			return false, ""
		}
		committed = e.composer.GetStringForSubmission()
		e.composer.Reset()
		return true, committed
	case keysymSpace:
		if e.composer.Empty() {
			return false, ""
		}
		committed = e.composer.GetStringForSubmission()
		e.composer.Reset()
		return true, committed + " "
	}

	r := keysymToRune(keysym)
	if r == 0 {
		return false, ""
	}

	evt := composer.KeyEvent{
		KeyCode:   string(r),
		Modifiers: translateModifiers(modifiers),
	}
	return e.composer.InsertCharacterKeyEvent(evt, nowMsec), ""
}

// Reset clears the current composition state.
func (e *ComposerEngine) Reset() *dbus.Error {
	e.composer.Reset()
	fmt.Println(">>> [GoKana] Composer reset")
	return nil
}

// SetEnabled enables or disables the engine.
func (e *ComposerEngine) SetEnabled(enabled bool) *dbus.Error {
	e.enabled = enabled
	fmt.Printf(">>> [GoKana] Engine enabled: %v\n", enabled)
	return nil
}

// GetPreedit returns the current preedit string.
func (e *ComposerEngine) GetPreedit() (string, *dbus.Error) {
	return e.composer.GetStringForPreedit(), nil
}

func main() {
	// 1. Connect to Session Bus
	conn, err := dbus.SessionBus()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to connect to session bus:", err)
		os.Exit(1)
	}
	defer conn.Close()

	// 2. Register Service Name
	reply, err := conn.RequestName(serviceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to request name:", err)
		os.Exit(1)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		fmt.Fprintln(os.Stderr, "Name already taken - another instance may be running")
		os.Exit(1)
	}

	// 3. Setup logging
	logFile, err := os.OpenFile("composer.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	var logger *log.Logger
	if err == nil {
		logger = log.New(logFile, "", log.LstdFlags)
		fmt.Println(">>> [GoKana] Logging to composer.log")
	} else {
		fmt.Fprintf(os.Stderr, ">>> [GoKana] Failed to open log file: %v\n", err)
	}
	defer logFile.Close()

	// 4. Create and export the engine
	composerEngine := NewComposerEngine(logger)

	err = conn.Export(composerEngine, dbus.ObjectPath(objectPath), serviceName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to export object:", err)
		os.Exit(1)
	}

	// 5. Print startup banner
	fmt.Println("================================================")
	fmt.Println("GoKana composer backend is running!")
	fmt.Println("================================================")
	fmt.Printf("  Service:     %s\n", serviceName)
	fmt.Printf("  Object Path: %s\n", objectPath)
	fmt.Printf("  Input Method: Romaji -> Hiragana\n")
	fmt.Println("------------------------------------------------")
	fmt.Println("Waiting for key events...")
	fmt.Println()

	// 6. Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	fmt.Println("\n>>> [GoKana] Shutting down...")
}
