// Copyright 2018 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package curvedline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/nfnt/resize"
)

var (
	// ErrCmdSyntaxErr is returned by a CommandFunc if the syntax for the command
	// is invalid.
	ErrCmdSyntaxErr = errors.New("Invalid command syntax")

	// ErrQuit is returned by the quit command, Execute stops when it sees it.
	ErrQuit = errors.New("quit")
)

// ExecutorState is the state during a CommandHandler execution, see that
// type for more details of the workflow.
//
// The variables in the state are shared among the executions of the command
// functions.
type ExecutorState struct {
	// WorkingDir is the current directory. It must always be an absolute path.
	WorkingDir string

	// Engine generates the mosaics and holds the current one.
	Engine *Engine

	// Verbose is true if detailed output should be generated.
	Verbose bool

	// In is the source to read commands from (line by line).
	In io.Reader

	// Out is used to write state information.
	Out io.Writer

	// Option / config part

	// JPGQuality is the quality between 1 and 100 used when storing images.
	// The higher the value the better the quality. We use a default quality of
	// 100.
	JPGQuality int

	// InterP is the interpolation functions used when resizing previews.
	InterP resize.InterpolationFunction

	// ResizerName selects the resize engine for previews, "nfnt" or "bild".
	ResizerName string

	// Upscale allows previews that are larger than the mosaic.
	Upscale bool
}

// NewExecutorState returns a state working on engine with the settings from
// cfg. The working directory is the current directory.
// This method might panic if something with filepath is wrong, this should
// however usually not be the case.
func NewExecutorState(engine *Engine, cfg Config, in io.Reader, out io.Writer) *ExecutorState {
	dir, err := filepath.Abs(".")
	if err != nil {
		panic(fmt.Errorf("Unable to retrieve path: %s", err.Error()))
	}
	return &ExecutorState{
		// dir is always an absolute path
		WorkingDir:  dir,
		Engine:      engine,
		Verbose:     true,
		In:          in,
		Out:         out,
		JPGQuality:  cfg.JPGQuality,
		InterP:      GetInterP(cfg.Interp),
		ResizerName: cfg.Resizer,
		Upscale:     cfg.Upscale,
	}
}

// GetPath returns the absolute path given some other path.
// The idea is the following: If the user inputs a path we have two cases:
// The user used an absolute path, in this case we use this absolute path
// to perform tasks with.
// If it is a relative path we join the working directory with this path
// and thus retrieve the absolute path we work on.
//
// The home directory can be used like on Unix: ~/Pictures is the Pictures
// directory in the home directory of the user.
func (state *ExecutorState) GetPath(path string) (string, error) {
	var res string
	// first extend with homedir
	var pathErr error
	res, pathErr = homedir.Expand(path)
	if pathErr != nil {
		return "", pathErr
	}
	// now we test if we have an absolute path or a relative path.
	// if absolute path we don't need to do anything.
	// if relative path we have to join with the base directory
	if !filepath.IsAbs(res) {
		// join with base dir
		res = filepath.Join(state.WorkingDir, res)
	}
	// now convert to an absolute path again
	res, pathErr = filepath.Abs(res)
	if pathErr != nil {
		return "", pathErr
	}
	return res, nil
}

// Resizer returns the resizer selected by ResizerName and InterP.
func (state *ExecutorState) Resizer() ImageResizer {
	if strings.ToLower(state.ResizerName) == "bild" {
		// bild has no notion of the nfnt functions, map the quality
		resizer, _ := GetResizer("bild", uint(state.InterP))
		return resizer
	}
	return NewNfntResizer(state.InterP)
}

// EncodeOptions returns the options for saving images.
func (state *ExecutorState) EncodeOptions() EncodeOptions {
	return EncodeOptions{JPGQuality: state.JPGQuality}
}

// CommandFunc is a function that is applied to the current states and
// arguments to that command.
type CommandFunc func(state *ExecutorState, args ...string) error

// Command a command consists of a function to actually execute the command
// and some information about the command.
type Command struct {
	Exec        CommandFunc
	Usage       string
	Description string
}

// CommandMap maps command names to Commands.
type CommandMap map[string]Command

// DefaultCommands contains all commands of the mosaic shell.
var DefaultCommands CommandMap

// CommandHandler together with Execute implements a high-level command
// execution loop. CommandFuncs are applied to the current state until there
// are no more commands to execute (no more input).
//
// A command has the form "COMMAND ARG1 ... ARGN" where COMMAND is the command
// name and ARG1 to ARGN are the arguments for the command.
//
// Here's a rough summary of what Execute will do:
// First it creates an initial state by calling Init. After that it immediately
// calls Start to notify the handler that the execution begins.
//
// Before a command is executed the Before method is called to notify the
// handler that a command will be executed.
//
// Then a loop will begin that reads all lines from the state's reader.
// If there is a command line the line will be parsed, if an error during
// parsing occurred the handler gets notified via OnParseErr. This method
// should return true if the execution should continue despite the error.
// Then a lookup in the provided command map happens: If the command was
// found the corresponding Command object is executed. If it was not found
// the OnInvalidCmd function is called on the handler. Again it should return
// true if the exeuction should continue despite the error. If this execution
// was successful the OnSuccess function is called with the executed command.
// If the execution was unsuccessful the OnError function will be called.
// Commands should return ErrCmdSyntaxErr if the syntax of the command is
// incorrect (for example invalid number of arguments) and OnError can do
// special handling in this case. Again OnError returns true if execution should
// continue. A command returning ErrQuit ends the loop.
// OnScanErr is called if there is an error while reading a command line from
// the state's reader.
type CommandHandler interface {
	Init() *ExecutorState
	Start(s *ExecutorState)
	Before(s *ExecutorState)
	After(s *ExecutorState)
	OnParseErr(s *ExecutorState, err error) bool
	OnInvalidCmd(s *ExecutorState, cmd string) bool
	OnSuccess(s *ExecutorState, cmd Command)
	OnError(s *ExecutorState, err error, cmd Command) bool
	OnScanErr(s *ExecutorState, err error)
}

// Execute implements the high-level execution loop as described in the
// documentation of CommandHandler. commandMap is used to lookup commands.
// It returns the state after the last command.
func Execute(handler CommandHandler, commandMap CommandMap) *ExecutorState {
	state := handler.Init()
	handler.Start(state)
	scanner := bufio.NewScanner(state.In)
	for scanner.Scan() {
		// a bit ugly with the calls to After:
		// we want something like deferring in the loop...
		handler.Before(state)
		line := scanner.Text()
		parsedCmd, parseErr := ParseCommand(line)
		if parseErr != nil {
			if !handler.OnParseErr(state, parseErr) {
				return state
			}
			handler.After(state)
			continue
		}
		if len(parsedCmd) == 0 || strings.HasPrefix(parsedCmd[0], "#") {
			handler.After(state)
			continue
		}
		cmd := parsedCmd[0]
		nextCmd, ok := commandMap[cmd]
		if !ok {
			// we got an invalid command
			if !handler.OnInvalidCmd(state, cmd) {
				return state
			}
			handler.After(state)
			continue
		}
		execErr := nextCmd.Exec(state, parsedCmd[1:]...)
		switch {
		case execErr == nil:
			handler.OnSuccess(state, nextCmd)
		case errors.Is(execErr, ErrQuit):
			return state
		default:
			if !handler.OnError(state, execErr, nextCmd) {
				return state
			}
		}
		handler.After(state)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		handler.OnScanErr(state, scanErr)
	}
	return state
}

func isEOF(r []rune, i int) bool {
	return i == len(r)
}

// ParseCommand parses a command of the form "COMMAND ARG1 ... ARGN".
// Examples:
//
// foo bar is the command "foo" with argument "bar". Arguments might also
// be enclosed in quotes, so foo "bar bar" is parsed as command foo with
// argument bar bar (a single argument).
func ParseCommand(s string) ([]string, error) {
	parseErr := errors.New("Error parsing command line")
	res := make([]string, 0)
	// basically this is an deterministic automaton with five states:
	// 0 between arguments, 1 in an unquoted argument, 2 after a \ in an
	// unquoted argument, 3 in a quoted argument and 4 after a \ in a quoted
	// argument
	r := []rune(s)
	state, i := 0, 0
	// while parsing runes get appended here to build the current argument
	currentArg := make([]rune, 0)
L:
	for ; i <= len(r); i++ {
		switch state {
		case 0:
			if isEOF(r, i) {
				break L
			}
			switch r[i] {
			case ' ', '\t':
				// do nothing, just remain in state
			case '\\':
				state = 2
			case '"':
				state = 3
			default:
				currentArg = append(currentArg, r[i])
				state = 1
			}
		case 1:
			if isEOF(r, i) {
				break L
			}
			switch r[i] {
			case ' ', '\t':
				// parsing done
				res = append(res, string(currentArg))
				currentArg = nil
				state = 0
			case '\\':
				state = 2
			case '"':
				return nil, parseErr
			default:
				currentArg = append(currentArg, r[i])
			}
		case 2:
			if isEOF(r, i) {
				return nil, parseErr
			}
			switch r[i] {
			case '\\', '"':
				currentArg = append(currentArg, r[i])
				state = 1
			default:
				return nil, parseErr
			}
		case 3:
			if isEOF(r, i) {
				return nil, parseErr
			}
			switch r[i] {
			case '"':
				// parsing done
				res = append(res, string(currentArg))
				currentArg = nil
				state = 0
			case '\\':
				state = 4
			default:
				currentArg = append(currentArg, r[i])
			}
		case 4:
			if isEOF(r, i) {
				return nil, parseErr
			}
			switch r[i] {
			case '\\', '"':
				currentArg = append(currentArg, r[i])
				state = 3
			default:
				return nil, parseErr
			}
		}
	}
	// now something might still be there (just a break in the loop, not adding
	// to res)
	if len(currentArg) > 0 {
		res = append(res, string(currentArg))
	}
	return res, nil
}

// PwdCommand is a command that prints the current working directory.
func PwdCommand(state *ExecutorState, args ...string) error {
	fmt.Fprintln(state.Out, state.WorkingDir)
	return nil
}

// StatsCommand is a command that prints variable / value pairs.
func StatsCommand(state *ExecutorState, args ...string) error {
	m := map[string]interface{}{
		"verbose":      state.Verbose,
		"jpeg-quality": state.JPGQuality,
		"interp":       InterPString(state.InterP),
		"resizer":      state.ResizerName,
		"upscale":      state.Upscale,
		"background":   ColorHex(state.Engine.Background()),
		"seed":         state.Engine.RandomSource().Seed(),
		"layout":       state.Engine.Layout().String(),
	}
	if len(args) == 1 {
		// print specific value
		if val, has := m[args[0]]; has {
			fmt.Fprintf(state.Out, "%s ==> %v\n", args[0], val)
		} else {
			return fmt.Errorf("Unkown variable %s", args[0])
		}
	} else {
		// print all values
		// keep order deterministic
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, variable := range keys {
			val := m[variable]
			fmt.Fprintf(state.Out, "%s ==> %v\n", variable, val)
		}
	}
	return nil
}

// SetVarCommand sets a variable to a new value.
func SetVarCommand(state *ExecutorState, args ...string) error {
	if len(args) != 2 {
		return errors.New("Invalid set syntax: Requires variable and value. For a list of variables use \"stats\"")
	}
	name, valueStr := args[0], args[1]
	switch name {
	case "verbose":
		val, parseErr := strconv.ParseBool(valueStr)
		if parseErr != nil {
			return fmt.Errorf("Invalid value for verbose (must be true or false): %s", parseErr.Error())
		}
		state.Verbose = val
		return nil
	case "jpeg-quality":
		val, parseErr := strconv.Atoi(valueStr)
		if parseErr != nil {
			return fmt.Errorf("Invalid value for jpeg-quality (must be int between 1 and 100): %s", parseErr.Error())
		}
		if val < 1 || val > 100 {
			return fmt.Errorf("Invalid value for jpeg-quality (must be int between 1 and 100): %d", val)
		}
		state.JPGQuality = val
		return nil
	case "interp":
		// accept both the quality number and the name of the function
		if val, parseErr := strconv.Atoi(valueStr); parseErr == nil {
			if val < 0 {
				return fmt.Errorf("Invalid value for interpolation function, must be integer >= 0: %d", val)
			}
			state.InterP = GetInterP(uint(val))
			return nil
		}
		interP, interPErr := InterPFromString(valueStr)
		if interPErr != nil {
			return interPErr
		}
		state.InterP = interP
		return nil
	case "resizer":
		if _, err := GetResizer(valueStr, 0); err != nil {
			return err
		}
		state.ResizerName = strings.ToLower(valueStr)
		return nil
	case "upscale":
		val, parseErr := strconv.ParseBool(valueStr)
		if parseErr != nil {
			return fmt.Errorf("Invalid value for upscale (must be true or false): %s", parseErr.Error())
		}
		state.Upscale = val
		return nil
	case "background":
		c, colorErr := ParseColor(valueStr)
		if colorErr != nil {
			return colorErr
		}
		state.Engine.SetBackground(c)
		fmt.Fprintln(state.Out, "Background changed, regenerate the mosaic to apply it")
		return nil
	case "seed":
		seed, parseErr := strconv.ParseUint(valueStr, 10, 64)
		if parseErr != nil {
			return fmt.Errorf("Invalid value for seed (must be a non-negative integer): %s", parseErr.Error())
		}
		state.Engine.RandomSource().Reseed(seed)
		return nil
	default:
		return fmt.Errorf("Invalid variable \"%s\". For a list use \"stats\"", name)
	}
}

// CdCommand is a command that changes the current directory.
func CdCommand(state *ExecutorState, args ...string) error {
	if len(args) != 1 {
		return ErrCmdSyntaxErr
	}
	path, pathErr := state.GetPath(args[0])
	if pathErr != nil {
		return fmt.Errorf("Changing directory failed: %s", pathErr.Error())
	}
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("Changing directory failed: %s", err.Error())
	}
	if !fi.IsDir() {
		return fmt.Errorf("Changing directory failed: \"%s\" is not a directory", path)
	}
	state.WorkingDir = path
	return nil
}

func printMosaicInfo(state *ExecutorState, m *Mosaic, took time.Duration) {
	if !state.Verbose {
		return
	}
	bounds := m.Bounds()
	fmt.Fprintf(state.Out, "Generated %s mosaic (%dx%d) in %v\n",
		m.Layout().DisplayString(), bounds.Dx(), bounds.Dy(), took)
}

func generateLayoutCommand(layout Layout) CommandFunc {
	return func(state *ExecutorState, args ...string) error {
		if len(args) != 0 {
			return ErrCmdSyntaxErr
		}
		start := time.Now()
		m, err := state.Engine.GenerateLayout(layout)
		if err != nil {
			return err
		}
		printMosaicInfo(state, m, time.Since(start))
		return nil
	}
}

// OriginalCommand generates the original layout.
var OriginalCommand = generateLayoutCommand(LayoutOriginal)

// RandomCommand generates a new random layout.
var RandomCommand = generateLayoutCommand(LayoutRandom)

// LayoutCommand prints the selectable layouts and marks the active one.
// With an argument it generates the named layout.
func LayoutCommand(state *ExecutorState, args ...string) error {
	switch len(args) {
	case 0:
		active := state.Engine.Layout()
		for _, l := range SelectableLayouts() {
			mark := " "
			if l == active {
				mark = "✓"
			}
			fmt.Fprintf(state.Out, "[%s] %s\n", mark, l.DisplayString())
		}
		if active == LayoutCustom {
			fmt.Fprintln(state.Out, "[✓] Custom")
		}
		return nil
	case 1:
		layout, err := ParseLayout(args[0])
		if err != nil {
			return err
		}
		return generateLayoutCommand(layout)(state)
	default:
		return ErrCmdSyntaxErr
	}
}

// PatternCommand prints the variant index of each cell of the current mosaic.
// "pattern set <file>" reads a pattern from a file and generates a mosaic
// with it.
func PatternCommand(state *ExecutorState, args ...string) error {
	switch {
	case len(args) == 0:
		fmt.Fprintln(state.Out, state.Engine.Current().Cells().String())
		return nil
	case len(args) == 2 && args[0] == "set":
		path, pathErr := state.GetPath(args[1])
		if pathErr != nil {
			return pathErr
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		p, parseErr := ParsePattern(string(content))
		if parseErr != nil {
			return parseErr
		}
		start := time.Now()
		m, genErr := state.Engine.Generate(NewFixedStrategy(p))
		if genErr != nil {
			return genErr
		}
		printMosaicInfo(state, m, time.Since(start))
		return nil
	default:
		return ErrCmdSyntaxErr
	}
}

// TileCommand shows information about the tile or replaces it.
// "tile load <file>" reads a new tile, "tile default [size]" uses the built-in
// tile. The active layout is regenerated with the new tile.
func TileCommand(state *ExecutorState, args ...string) error {
	var tile *Tile
	var tileErr error
	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "info"):
		variants := state.Engine.Variants()
		fmt.Fprintf(state.Out, "Tile size: %dx%d\n", variants.TileSize(), variants.TileSize())
		fmt.Fprintf(state.Out, "Average color: %s\n", ComputeAverageColor(variants[0].img).Hex())
		return nil
	case len(args) == 2 && args[0] == "load":
		path, pathErr := state.GetPath(args[1])
		if pathErr != nil {
			return pathErr
		}
		if !TileFormats(filepath.Ext(path)) {
			return fmt.Errorf("Unsupported tile file %s", path)
		}
		tile, tileErr = LoadTile(path)
	case len(args) >= 1 && args[0] == "default":
		size := DefaultTileSize
		if len(args) == 2 {
			var parseErr error
			size, parseErr = strconv.Atoi(args[1])
			if parseErr != nil {
				return parseErr
			}
		}
		tile, tileErr = DefaultTile(size)
	default:
		return ErrCmdSyntaxErr
	}
	if tileErr != nil {
		return tileErr
	}
	start := time.Now()
	m, err := state.Engine.SetTile(tile)
	if err != nil {
		return err
	}
	printMosaicInfo(state, m, time.Since(start))
	return nil
}

// SaveCommand saves the current mosaic, by default to DefaultExportName.
func SaveCommand(state *ExecutorState, args ...string) error {
	file := DefaultExportName
	switch len(args) {
	case 0:
	case 1:
		file = args[0]
	default:
		return ErrCmdSyntaxErr
	}
	path, pathErr := state.GetPath(file)
	if pathErr != nil {
		return pathErr
	}
	if err := SaveImage(path, state.Engine.Current().Image(), state.EncodeOptions()); err != nil {
		return err
	}
	if state.Verbose {
		fmt.Fprintln(state.Out, "Saved mosaic to", path)
	}
	return nil
}

// PreviewCommand saves the current mosaic scaled into a canvas of the given
// dimensions, as it would be shown in a window of that size.
func PreviewCommand(state *ExecutorState, args ...string) error {
	if len(args) != 2 {
		return ErrCmdSyntaxErr
	}
	current := state.Engine.Current().Image()
	width, height, dimErr := ParseCanvas(args[1], current.Bounds())
	if dimErr != nil {
		return dimErr
	}
	path, pathErr := state.GetPath(args[0])
	if pathErr != nil {
		return pathErr
	}
	img, previewErr := Preview(current, width, height, state.Resizer(),
		DisplayBackground, state.Upscale)
	if previewErr != nil {
		return previewErr
	}
	if err := SaveImage(path, img, state.EncodeOptions()); err != nil {
		return err
	}
	if state.Verbose {
		fmt.Fprintln(state.Out, "Saved preview to", path)
	}
	return nil
}

// VariantsCommand saves all eight variants of the tile next to each other.
func VariantsCommand(state *ExecutorState, args ...string) error {
	if len(args) != 1 {
		return ErrCmdSyntaxErr
	}
	path, pathErr := state.GetPath(args[0])
	if pathErr != nil {
		return pathErr
	}
	variants := state.Engine.Variants()
	sheet := variants.Sheet(IntMax(variants.TileSize()/8, 1), state.Engine.Background())
	if err := SaveImage(path, sheet, state.EncodeOptions()); err != nil {
		return err
	}
	if state.Verbose {
		fmt.Fprintln(state.Out, "Saved variants to", path)
	}
	return nil
}

// QuitCommand ends the execution.
func QuitCommand(state *ExecutorState, args ...string) error {
	return ErrQuit
}

// HelpCommand prints the usage of all commands or of a single command.
func HelpCommand(state *ExecutorState, args ...string) error {
	if len(args) == 1 {
		cmd, ok := DefaultCommands[args[0]]
		if !ok {
			return fmt.Errorf("Unknown command \"%s\"", args[0])
		}
		fmt.Fprintln(state.Out, "Usage:", cmd.Usage)
		fmt.Fprintln(state.Out, cmd.Description)
		return nil
	}
	names := make([]string, 0, len(DefaultCommands))
	for name := range DefaultCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(state.Out, "  %-36s %s\n", DefaultCommands[name].Usage,
			firstSentence(DefaultCommands[name].Description))
	}
	fmt.Fprintln(state.Out, "Use \"help <command>\" for details")
	return nil
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}

func init() {
	DefaultCommands = make(map[string]Command, 20)
	DefaultCommands["pwd"] = Command{
		Exec:        PwdCommand,
		Usage:       "pwd",
		Description: "Show current working directory.",
	}
	DefaultCommands["cd"] = Command{
		Exec:        CdCommand,
		Usage:       "cd <dir>",
		Description: "Change working directory to the specified directory.",
	}
	DefaultCommands["stats"] = Command{
		Exec:        StatsCommand,
		Usage:       "stats [var]",
		Description: "Show value of variables that can be changed via set, if var is given only value of that variable.",
	}
	DefaultCommands["set"] = Command{
		Exec:  SetVarCommand,
		Usage: "set <variable> <value>",
		Description: "Set value for a variable. Variables are verbose, jpeg-quality," +
			" interp (0 to 5 or a name like lanczos3), resizer (nfnt or bild)," +
			" upscale, background (#rrggbb or r,g,b) and seed.",
	}
	DefaultCommands["tile"] = Command{
		Exec:  TileCommand,
		Usage: "tile [info] or tile load <file> or tile default [size]",
		Description: "Show the current tile or replace it. The tile must be" +
			" square. \"tile load\" reads png, jpeg, gif, bmp, tiff and webp files," +
			" \"tile default\" draws the built-in tile. The active layout is" +
			" generated again with the new tile.",
	}
	DefaultCommands["original"] = Command{
		Exec:        OriginalCommand,
		Usage:       "original",
		Description: "Generate the mosaic with the original layout.",
	}
	DefaultCommands["random"] = Command{
		Exec:  RandomCommand,
		Usage: "random",
		Description: "Generate the mosaic with a random layout. Each call" +
			" draws a new layout.",
	}
	DefaultCommands["layout"] = Command{
		Exec:  LayoutCommand,
		Usage: "layout [original|random]",
		Description: "Show the layouts and mark the active one. With an" +
			" argument the named layout is generated.",
	}
	DefaultCommands["pattern"] = Command{
		Exec:  PatternCommand,
		Usage: "pattern or pattern set <file>",
		Description: "Print the variant placed in each cell of the current" +
			" mosaic. \"pattern set\" reads 64 numbers between 0 and 7 from a file" +
			" and generates a mosaic with that layout.",
	}
	DefaultCommands["save"] = Command{
		Exec:  SaveCommand,
		Usage: "save [file]",
		Description: "Save the current mosaic. The format is chosen by the file" +
			" extension (png, jpg, gif, bmp, tiff). Default is " + DefaultExportName + ".",
	}
	DefaultCommands["preview"] = Command{
		Exec:  PreviewCommand,
		Usage: "preview <file> <width>x<height>",
		Description: "Save the mosaic as shown in a window of the given size:" +
			" scaled to fit, centered and surrounded by white. One side may be" +
			" left empty (800x) and is then taken from the mosaic.",
	}
	DefaultCommands["variants"] = Command{
		Exec:        VariantsCommand,
		Usage:       "variants <file>",
		Description: "Save the eight variants of the tile next to each other.",
	}
	DefaultCommands["help"] = Command{
		Exec:        HelpCommand,
		Usage:       "help [command]",
		Description: "Show help for all commands or a single command.",
	}
	DefaultCommands["quit"] = Command{
		Exec:        QuitCommand,
		Usage:       "quit",
		Description: "Quit the program.",
	}
	DefaultCommands["exit"] = DefaultCommands["quit"]
}

// ReplHandler implements CommandHandler by reading commands from In
// (usually stdin) and writing output to Out (usually stdout).
type ReplHandler struct {
	Engine *Engine
	Config Config
	In     io.Reader
	Out    io.Writer
}

// NewReplHandler returns a handler reading from stdin.
func NewReplHandler(engine *Engine, cfg Config) ReplHandler {
	return ReplHandler{Engine: engine, Config: cfg, In: os.Stdin, Out: os.Stdout}
}

func (h ReplHandler) Init() *ExecutorState {
	return NewExecutorState(h.Engine, h.Config, h.In, h.Out)
}

func (h ReplHandler) Start(s *ExecutorState) {
	fmt.Fprintln(s.Out, "Welcome to the curved line mosaic generator")
	fmt.Fprintln(s.Out, "Type \"help\" if you don't know what to do")
	fmt.Fprint(s.Out, ">>> ")
}

func (h ReplHandler) Before(s *ExecutorState) {}

func (h ReplHandler) After(s *ExecutorState) {
	fmt.Fprint(s.Out, ">>> ")
}

func (h ReplHandler) OnParseErr(s *ExecutorState, err error) bool {
	fmt.Fprintln(s.Out, "Syntax error", err)
	return true
}

func (h ReplHandler) OnInvalidCmd(s *ExecutorState, cmd string) bool {
	fmt.Fprintf(s.Out, "Invalid command \"%s\"\n", cmd)
	return true
}

func (h ReplHandler) OnSuccess(s *ExecutorState, cmd Command) {}

func (h ReplHandler) OnError(s *ExecutorState, err error, cmd Command) bool {
	if err == ErrCmdSyntaxErr {
		fmt.Fprintln(s.Out, "Invalid syntax for command.")
		fmt.Fprintln(s.Out, "Usage:", cmd.Usage)
	} else {
		fmt.Fprintln(s.Out, "Error while executing command:", UserMessage(err))
	}
	return true
}

func (h ReplHandler) OnScanErr(s *ExecutorState, err error) {
	fmt.Fprintln(s.Out, "Error while reading:", err.Error())
}

// ScriptHandler implements CommandHandler. It writes the output to Out, errors
// to ErrOut and reads from a specified reader. It stops whenever an error is
// enountered, the error is available in Err afterwards.
type ScriptHandler struct {
	Source io.Reader
	Engine *Engine
	Config Config
	Out    io.Writer
	ErrOut io.Writer
	err    *error
}

// NewScriptHandler returns a new script handler that reads input from the given
// source.
func NewScriptHandler(source io.Reader, engine *Engine, cfg Config) ScriptHandler {
	var err error
	return ScriptHandler{
		Source: source,
		Engine: engine,
		Config: cfg,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		err:    &err,
	}
}

// Err returns the error that stopped the script, nil if it ran until the end.
func (h ScriptHandler) Err() error {
	if h.err == nil {
		return nil
	}
	return *h.err
}

func (h ScriptHandler) setErr(err error) {
	if h.err != nil {
		*h.err = err
	}
}

func (h ScriptHandler) Init() *ExecutorState {
	return NewExecutorState(h.Engine, h.Config, h.Source, h.Out)
}

func (h ScriptHandler) Start(s *ExecutorState) {}

func (h ScriptHandler) Before(s *ExecutorState) {}

func (h ScriptHandler) After(s *ExecutorState) {}

func (h ScriptHandler) OnParseErr(s *ExecutorState, err error) bool {
	fmt.Fprintln(h.ErrOut, "Syntax error:", err)
	h.setErr(err)
	return false
}

func (h ScriptHandler) OnInvalidCmd(s *ExecutorState, cmd string) bool {
	fmt.Fprintf(h.ErrOut, "Invalid command \"%s\"\n", cmd)
	h.setErr(fmt.Errorf("invalid command %q", cmd))
	return false
}

func (h ScriptHandler) OnSuccess(s *ExecutorState, cmd Command) {}

func (h ScriptHandler) OnError(s *ExecutorState, err error, cmd Command) bool {
	if err == ErrCmdSyntaxErr {
		fmt.Fprintln(h.ErrOut, "Error: Invalid syntax for command.")
		fmt.Fprintln(h.ErrOut, "Usage:", cmd.Usage)
	} else {
		fmt.Fprintln(h.ErrOut, "Error while executing command:", UserMessage(err))
	}
	h.setErr(err)
	return false
}

func (h ScriptHandler) OnScanErr(s *ExecutorState, err error) {
	fmt.Fprintln(h.ErrOut, "Error while reading:", err.Error())
	h.setErr(err)
}

// ScriptHandlerFromCmds is a function to create a script handler from
// a predefined set of lines, such as the scripts in PredefinedScripts.
// Placeholders in the lines are replaced by args, see Parameterized.
func ScriptHandlerFromCmds(lines []string, engine *Engine, cfg Config, args ...string) ScriptHandler {
	return NewScriptHandler(ParameterizedFromStrings(lines, args...), engine, cfg)
}

// ReaderFromCmdLines returns a reader for a script source that reads the
// content of the combined lines.
func ReaderFromCmdLines(lines []string) io.Reader {
	combined := strings.Join(lines, "\n")
	return strings.NewReader(combined)
}

func paramReplacer(args []string) *strings.Replacer {
	// create replacer that replaces each $i by args[i-1], the highest index
	// first so that $1 does not match the prefix of $10
	replaceArgs := make([]string, 0, 2*len(args))
	for i := len(args) - 1; i >= 0; i-- {
		replaceArgs = append(replaceArgs, fmt.Sprintf("$%d", i+1), args[i])
	}
	return strings.NewReplacer(replaceArgs...)
}

// Parameterized is used to transform parameterized commands into executable
// commands, that means replacing variables $i with the provided argument.
// Example:
// The command "tile load $1" can be called with one argument that will replace
// the placeholder $1.
//
// The current implementation works by reading the whole original reader and
// then transforming the elements, given that scripts are not too long the
// overhead should be manageable.
func Parameterized(r io.Reader, args ...string) (io.Reader, error) {
	replacer := paramReplacer(args)
	lines := make([]string, 0, 20)
	// iterate over each line and perform replacement
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, replacer.Replace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ReaderFromCmdLines(lines), nil
}

// ParameterizedFromStrings runs the commands provided in commands (each entry
// is considered to be a command) and replaces placeholders by args.
// For placeholder details see Parameterized.
func ParameterizedFromStrings(commands []string, args ...string) io.Reader {
	replacer := paramReplacer(args)
	lines := make([]string, 0, len(commands))
	for _, line := range commands {
		lines = append(lines, replacer.Replace(line))
	}
	return ReaderFromCmdLines(lines)
}
