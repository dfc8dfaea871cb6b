package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/tallyboard/internal/app"
	"github.com/dori/tallyboard/internal/config"
	"github.com/dori/tallyboard/internal/db"
	"github.com/dori/tallyboard/internal/tracker"
	"github.com/dori/tallyboard/internal/ui"
	"github.com/dori/tallyboard/internal/ui/theme"
	"github.com/dori/tallyboard/internal/viewmodel"
)

var (
	version = "0.1.0"
)

// errUsage marks errors that should be followed by the usage text
var errUsage = errors.New("usage")

var commands = map[string]func(a *app.App, args []string, out io.Writer) error{
	"boards": cmdBoards,
	"search": cmdSearch,
	"points": cmdPoints,
	"earn":   cmdEarn,
	"dump":   cmdDump,
}

func main() {
	// Subcommand handling
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		switch os.Args[1] {
		case "version":
			fmt.Printf("tallyboard v%s\n", version)
			return
		case "help":
			printHelp()
			return
		}

		fn, ok := commands[os.Args[1]]
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
			printHelp()
			os.Exit(2)
		}
		if err := runCommand(os.Args[2:], fn); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Parse flags for TUI mode
	viewFlag := flag.String("view", "gallery", "Starting view (gallery, board, teams, rewards)")
	themeFlag := flag.String("theme", "", "Theme name (nord, dracula, gruvbox, catppuccin)")
	boardFlag := flag.String("board", "", "Open a board by id")
	dataDirFlag := flag.String("data-dir", "", "Data directory (overrides TALLY_DATA_DIR)")
	flag.Usage = printHelp
	flag.Parse()

	if err := runTUI(*viewFlag, *themeFlag, *boardFlag, *dataDirFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `tallyboard - boards, cards and a points reward loop

Usage:
  tallyboard                  Start the TUI
  tallyboard boards [team]    List boards, optionally for one team
  tallyboard search <query>   Search boards by name or team
  tallyboard points           Show points and goal progress
  tallyboard earn <n>         Add (or with a negative n, remove) points
  tallyboard dump <key>       Print a stored document (boards, teams, rewards)
  tallyboard version          Show version
  tallyboard help             Show this help

Every command accepts --data-dir <dir>.

TUI Options:
  --view <name>     Starting view (gallery, board, teams, rewards)
  --theme <name>    Theme (nord, dracula, gruvbox, catppuccin)
  --board <id>      Open a board directly
  --data-dir <dir>  Data directory

Environment:
  TALLY_DATA_DIR, TALLY_THEME, TALLY_DEBUG, TALLY_LOG_LEVEL,
  TALLY_NOTIFY, TALLY_SEARCH_DEBOUNCE, TALLY_CATALOG
  A .env file in the working directory is read first.

Keybindings:
  Views:    1 boards  2 board  3 teams  4 rewards
  Boards:   tab filter, / search, n new, enter open, d delete
  Board:    h/l j/k move, a add, space drag, H/L move card, r redeem
  Rewards:  e earn, a goal, c claim, x remove, r redeem
  General:  ? help, ctrl+t theme, q quit`

	fmt.Println(help)
}

// runCommand opens the app for a headless command. Commands share the
// single-instance lock with the TUI.
func runCommand(args []string, fn func(a *app.App, args []string, out io.Writer) error) error {
	fs := flag.NewFlagSet("tallyboard", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "", "Data directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*dataDir)
	if err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := fn(application, fs.Args(), os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printHelp()
		}
		return err
	}
	return nil
}

func loadConfig(dataDir string) (*config.Config, error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.SetDataDir(dataDir)
	}
	return cfg, nil
}

func printGallery(out io.Writer, g viewmodel.Gallery) {
	if len(g.Boards) == 0 {
		fmt.Fprintln(out, g.Empty)
		return
	}
	for _, b := range g.Boards {
		fmt.Fprintf(out, "%s  %s\n    %s\n", b.ID, b.Name, b.Meta)
	}
}

func cmdBoards(a *app.App, args []string, out io.Writer) error {
	filter := viewmodel.FilterAll
	if len(args) > 0 {
		filter = strings.Join(args, " ")
	}
	printGallery(out, viewmodel.BuildGallery(a.State, filter))
	return nil
}

func cmdSearch(a *app.App, args []string, out io.Writer) error {
	g := viewmodel.Search(a.State, strings.Join(args, " "))
	if g == nil {
		printGallery(out, viewmodel.BuildGallery(a.State, viewmodel.FilterAll))
		return nil
	}
	printGallery(out, *g)
	return nil
}

func cmdPoints(a *app.App, args []string, out io.Writer) error {
	p := viewmodel.BuildRewards(a.State, a.Config.Catalog)
	fmt.Fprintf(out, "Points: %d\n", p.Points)
	if len(p.Goals) == 0 {
		fmt.Fprintln(out, p.Empty)
		return nil
	}
	for _, g := range p.Goals {
		claim := ""
		if g.Claimable {
			claim = "  (claimable)"
		}
		fmt.Fprintf(out, "%s  %s  %d%%%s\n", g.Title, g.Meta, g.Percent, claim)
	}
	return nil
}

func cmdEarn(a *app.App, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("earn takes one amount: %w", errUsage)
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}

	s, effect := tracker.EarnPoints(a.State, amount)
	if err := a.Commit(s, effect); err != nil {
		return err
	}
	fmt.Fprintf(out, "Points: %d\n", a.State.Rewards.Points)
	return nil
}

func cmdDump(a *app.App, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("dump takes one key: %w", errUsage)
	}
	key := args[0]
	switch key {
	case "boards":
		key = db.KeyBoards
	case "teams":
		key = db.KeyTeams
	case "rewards":
		key = db.KeyRewards
	}
	if !slices.Contains(db.Keys, key) {
		return fmt.Errorf("unknown key %q, want one of boards, teams, rewards or %s: %w",
			args[0], strings.Join(db.Keys, ", "), errUsage)
	}

	raw, err := a.DB.Dump(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, raw)
	return nil
}

func runTUI(startView, themeName, boardID, dataDir string) error {
	cfg, err := loadConfig(dataDir)
	if err != nil {
		return err
	}

	view, ok := ui.ParseView(startView)
	if !ok {
		return fmt.Errorf("unknown view %q", startView)
	}

	if themeName == "" {
		themeName = cfg.Theme
	}
	t, ok := theme.ByName(themeName)
	if !ok {
		return fmt.Errorf("unknown theme %q", themeName)
	}
	theme.SetTheme(t)

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	model := ui.NewRootModel(application, ui.Options{StartView: view, BoardID: boardID})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
