// Package cli is an interactive terminal front end for a local two-player
// game. It drives the same three engine operations as the web API.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/justinabrahms/checkers/internal/checkers"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdSelect
	CmdMove
	CmdBoard
	CmdSave
	CmdLoad
	CmdHelp
	CmdQuit
	CmdUnknown
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// ParseCommand splits a line into a command and its arguments.
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return Command{Type: CmdNone}
	}

	args := parts[1:]
	switch strings.ToLower(parts[0]) {
	case "new", "n":
		return Command{Type: CmdNew, Args: args}
	case "select", "s":
		return Command{Type: CmdSelect, Args: args}
	case "move", "m":
		return Command{Type: CmdMove, Args: args}
	case "board", "b":
		return Command{Type: CmdBoard}
	case "save":
		return Command{Type: CmdSave}
	case "load":
		raw := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		return Command{Type: CmdLoad, Args: args, Raw: raw}
	case "help", "?":
		return Command{Type: CmdHelp}
	case "quit", "exit", "q":
		return Command{Type: CmdQuit}
	default:
		return Command{Type: CmdUnknown, Raw: input}
	}
}

// CLI holds one local game and writes everything it shows to output.
type CLI struct {
	game   *checkers.Game
	output io.Writer
}

func New(output io.Writer) *CLI {
	return &CLI{
		game:   checkers.NewGame(),
		output: output,
	}
}

// Game returns the game being played.
func (c *CLI) Game() *checkers.Game {
	return c.game
}

func (c *CLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.output, format, args...)
}

// Execute runs one input line. It reports false once the user asked to quit.
func (c *CLI) Execute(line string) bool {
	cmd := ParseCommand(line)

	switch cmd.Type {
	case CmdNone:
	case CmdNew:
		c.game = checkers.NewGame()
		c.show()
	case CmdSelect:
		row, col, err := parseSquare(cmd.Args)
		if err != nil {
			c.printf("select: %v\n", err)
			break
		}
		if !c.game.SelectPiece(row, col) {
			c.printf("Cannot select (%d,%d)\n", row, col)
			break
		}
		c.show()
	case CmdMove:
		row, col, err := parseSquare(cmd.Args)
		if err != nil {
			c.printf("move: %v\n", err)
			break
		}
		if !c.game.AttemptMove(row, col) {
			c.printf("Illegal move to (%d,%d)\n", row, col)
			break
		}
		c.show()
	case CmdBoard:
		c.show()
	case CmdSave:
		data, err := json.Marshal(c.game.Snapshot())
		if err != nil {
			c.printf("save: %v\n", err)
			break
		}
		c.printf("%s\n", data)
	case CmdLoad:
		snap, err := checkers.ParseSnapshot([]byte(cmd.Raw))
		if err != nil {
			c.printf("load: %v\n", err)
			break
		}
		game, err := checkers.Load(snap)
		if err != nil {
			c.printf("load: %v\n", err)
			break
		}
		c.game = game
		c.show()
	case CmdHelp:
		c.printf("%s", helpText)
	case CmdQuit:
		return false
	default:
		c.printf("Unknown command %q, type 'help' for commands\n", cmd.Raw)
	}
	return true
}

func parseSquare(args []string) (int, int, error) {
	if len(args) == 1 && strings.Contains(args[0], ",") {
		args = strings.SplitN(args[0], ",", 2)
	}
	if len(args) != 2 {
		return 0, 0, errors.New("expected a row and a column, e.g. 5 2")
	}
	row, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row %q", args[0])
	}
	col, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid column %q", args[1])
	}
	return row, col, nil
}

func (c *CLI) show() {
	c.printf("%s%s\n", RenderBoard(c.game), StatusLine(c.game))
}

// Prompt reflects whose turn it is.
func (c *CLI) Prompt() string {
	if c.game.IsGameOver() {
		return "checkers> "
	}
	return fmt.Sprintf("checkers [%s]> ", c.game.CurrentPlayer())
}

// Run reads commands from rl until quit or end of input.
func (c *CLI) Run(rl *readline.Instance) error {
	c.printf("English draughts. Type 'help' for commands.\n")
	c.show()

	for {
		rl.SetPrompt(c.Prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if !c.Execute(line) {
			return nil
		}
	}
}

// Completer offers command names to readline.
func Completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("new"),
		readline.PcItem("select"),
		readline.PcItem("move"),
		readline.PcItem("board"),
		readline.PcItem("save"),
		readline.PcItem("load"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

const helpText = `Commands:
  new              start a new game
  select ROW COL   select one of your pieces (alias: s)
  move ROW COL     move the selected piece (alias: m)
  board            show the board (alias: b)
  save             print the game as a JSON snapshot
  load JSON        restore a game from a JSON snapshot
  help             show this help
  quit             leave

Rows and columns run 0-7. Row 0 is black's back rank; red moves first.
`
