// Command replay is the line-oriented interactive driver described by
// the composer's external interfaces: it reads commands from stdin and
// prints `left[focused]right` after each one, so the worked scenarios in
// the composer's test suite can be driven and diffed from the shell.
package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/username/gokana-ime/internal/composer"
	"github.com/username/gokana-ime/internal/table"
)

var version string

type options struct {
	TablePath  string `short:"f" long:"file" description:"Path to a TSV rewrite-table file; defaults to the bundled romaji-to-hiragana table" value-name:"path"`
	ConfigPath string `short:"r" long:"request" description:"Path to a YAML Config file" value-name:"path"`
	Help       bool   `long:"help" description:"Show this help"`
	Version    bool   `long:"version" description:"Show this version"`
}

func parseOptions(args []string) options {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[option...]"
	_, err := parser.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	return opts
}

func loadTable(path string) *table.Table {
	if path == "" {
		return table.NewDefaultRomanToHiragana()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read table %s: %v\n", path, err)
		os.Exit(1)
	}
	t := table.New()
	t.Logger = nil
	t.Load(data)
	return t
}

func loadConfig(path string) *composer.Config {
	if path == "" {
		return composer.DefaultConfig()
	}
	cfg, err := composer.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config %s: %v\n", path, err)
		os.Exit(1)
	}
	return cfg
}

func main() {
	opts := parseOptions(os.Args[1:])
	tbl := loadTable(opts.TablePath)
	cfg := loadConfig(opts.ConfigPath)
	c := composer.NewComposer(tbl, &composer.Request{}, cfg)

	// A piped scenario script (not a real terminal) suppresses the
	// banner so transcript tests can diff stdout byte for byte.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("gokana composer replay driver")
		fmt.Println("commands: < << > >> <> >a< >A< >k< >K< >h< ! !!  (anything else is inserted as a key)")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		runCommand(c, scanner.Text())
		printPreedit(c)
	}
}

// runCommand applies one line of driver input to c. Unrecognized text is
// fed through the composer one rune at a time, exactly as ordinary
// keystrokes would be.
func runCommand(c *composer.Composer, cmd string) {
	switch cmd {
	case "<":
		c.MoveCursorLeft()
	case "<<":
		c.MoveCursorToBeginning()
	case ">":
		c.MoveCursorRight()
	case ">>":
		c.MoveCursorToEnd()
	case "<>":
		c.ToggleInputMode()
	case ">a<":
		c.SetInputMode(composer.HalfASCII)
	case ">A<":
		c.SetInputMode(composer.FullASCII)
	case ">k<":
		c.SetInputMode(composer.HalfKatakana)
	case ">K<":
		c.SetInputMode(composer.FullKatakana)
	case ">h<":
		c.SetInputMode(composer.Hiragana)
	case "!":
		c.Delete()
	case "!!":
		c.EditErase()
	default:
		now := time.Now().UnixMilli()
		for _, r := range cmd {
			c.InsertCharacterKeyEvent(composer.KeyEvent{KeyCode: string(r)}, now)
		}
	}
}

func printPreedit(c *composer.Composer) {
	left, focused, right := c.GetPreedit()
	fmt.Printf("%s[%s]%s\n", left, focused, right)
}
