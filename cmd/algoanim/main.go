package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ivlev/algoanim/internal/config"
	"github.com/ivlev/algoanim/internal/logging"
	"github.com/ivlev/algoanim/internal/scene"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

const defaultDeckDir = "scenes"

// errIssues marks a validate run that found error-severity issues.
var errIssues = errors.New("deck has errors")

const usage = `usage: algoanim <command> [flags]

commands:
  play        play a deck in real time
  frame       render one frame to PNG
  storyboard  render a contact sheet of sampled frames
  trace       print the draw calls for one frame
  validate    report problems in a deck
  inspect     print a deck as JSON

Run "algoanim <command> -h" for command flags.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	name string
	run  func(a *app, fs *flag.FlagSet, args []string) error
}

var commands = []command{
	{"play", (*app).play},
	{"frame", (*app).frame},
	{"storyboard", (*app).storyboard},
	{"trace", (*app).trace},
	{"validate", (*app).validate},
	{"inspect", (*app).inspect},
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	if args[0] == "version" {
		fmt.Fprintln(stdout, version)
		return 0
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "[-] Unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	if err := cmd.run(a, fs, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errIssues) {
			fmt.Fprintf(stderr, "[-] Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// commonFlags are shared by every command.
type commonFlags struct {
	configPath string
	deckPath   string
	logLevel   string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML config file (defaults are used when empty)")
	fs.StringVar(&c.deckPath, "deck", "", "scene deck, YAML or JSON (default: newest file in ./"+defaultDeckDir+")")
	fs.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
}

// setup loads config, builds the logger and reads the deck.
func (a *app) setup(c *commonFlags) (*scene.Deck, string, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, "", err
	}
	cfg.BuildVersion = version
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	a.cfg = cfg
	a.log = logging.New(cfg.Logging, version)

	path := c.deckPath
	if path == "" {
		latest, err := scene.FindLatestDeck(defaultDeckDir)
		if err != nil {
			return nil, "", fmt.Errorf("%w; put a deck in ./%s or pass -deck", err, defaultDeckDir)
		}
		path = latest
		fmt.Fprintf(a.stderr, "[*] Selected deck: %s\n", path)
	}

	deck, err := scene.ReadDeck(path)
	if err != nil {
		return nil, "", err
	}
	a.log.Debug("deck loaded", "path", path, "scenes", len(deck.Scenes), "version", deck.Version)
	return deck, path, nil
}

// progressLine renders "Scene i/n [####------]" for a scene index.
func progressLine(index, count int) string {
	const width = 20
	if count <= 0 {
		return "Scene 0/0"
	}
	filled := (index + 1) * width / count
	return fmt.Sprintf("Scene %d/%d [%s%s]", index+1, count,
		strings.Repeat("#", filled), strings.Repeat("-", width-filled))
}
