// Copyright 2022 Ian Parberry
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


package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	"github.com/spf13/cobra"
)

func (c *CLI) replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive shell",
		Long:  `Start an interactive shell to generate, inspect and save mosaics. Type "help" in the shell for a list of commands.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := c.newEngine(cmd)
			if err != nil {
				return err
			}
			handler := curvedline.NewReplHandler(engine, cfg)
			handler.In = cmd.InOrStdin()
			handler.Out = cmd.OutOrStdout()
			curvedline.Execute(handler, curvedline.DefaultCommands)
			return nil
		},
	}
}

func predefinedNames() string {
	names := make([]string, 0, len(curvedline.PredefinedScripts))
	for name := range curvedline.PredefinedScripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// scriptHandler returns a handler running the predefined script name or the
// file args[0], with the placeholders replaced by the remaining arguments.
func (c *CLI) scriptHandler(cmd *cobra.Command, predefined string, args []string) (curvedline.ScriptHandler, error) {
	if predefined != "" {
		src, ok := curvedline.PredefinedScripts[predefined]
		if !ok {
			return curvedline.ScriptHandler{}, fmt.Errorf("unknown script %q, available: %s", predefined, predefinedNames())
		}
		cfg, engine, err := c.newEngine(cmd)
		if err != nil {
			return curvedline.ScriptHandler{}, err
		}
		return curvedline.ScriptHandlerFromCmds(strings.Split(src, "\n"), engine, cfg, args...), nil
	}
	if len(args) == 0 {
		return curvedline.ScriptHandler{}, errors.New("no script file given")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return curvedline.ScriptHandler{}, err
	}
	defer f.Close()
	r, err := curvedline.Parameterized(f, args[1:]...)
	if err != nil {
		return curvedline.ScriptHandler{}, err
	}
	cfg, engine, err := c.newEngine(cmd)
	if err != nil {
		return curvedline.ScriptHandler{}, err
	}
	return curvedline.NewScriptHandler(r, engine, cfg), nil
}

func (c *CLI) scriptCommand() *cobra.Command {
	var predefined string

	cmd := &cobra.Command{
		Use:   "script [file] [args...]",
		Short: "Run a script of shell commands",
		Long: `Run the shell commands in file, one per line. $1, $2, ... are replaced by
the arguments following the file. The script stops at the first error.

Instead of a file one of the predefined scripts can be run:

  mosaic script --predefined original tile.png mosaic.png
  mosaic script --predefined random tile.png mosaic.png 42
  mosaic script --predefined compare tile.png ./out 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := c.scriptHandler(cmd, predefined, args)
			if err != nil {
				return err
			}
			handler.Out = cmd.OutOrStdout()
			handler.ErrOut = cmd.ErrOrStderr()
			curvedline.Execute(handler, curvedline.DefaultCommands)
			if err := handler.Err(); err != nil {
				printError("Script failed")
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&predefined, "predefined", "p", "", "run a predefined script: "+predefinedNames())

	return cmd
}
