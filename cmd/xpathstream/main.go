// Copyright 2025 EasyAgent
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command xpathstream evaluates a restricted XPath location path
// against an XML file and prints the matched text content, optionally
// splitting the work across several workers.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jharrow/xpathstream/internal/automaton"
	"github.com/jharrow/xpathstream/internal/config"
	"github.com/jharrow/xpathstream/internal/engine"
	"github.com/jharrow/xpathstream/internal/observability"
)

func main() {
	app := &cli.App{
		Name:  "xpathstream",
		Usage: "evaluate an absolute child-axis XPath against a large XML file in parallel",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config",
				Usage:   "path to the key=value run configuration",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "log encoding: text or json",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	observability.Init(observability.Config{
		Level:  observability.LevelInfo,
		Format: c.String("log-format"),
	})

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	data, err := os.ReadFile(cfg.FileName)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading %s: %v", cfg.FileName, err), 1)
	}

	a, err := automaton.Compile(cfg.XPath)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Println("The basic structure of the automata is (from to end):")
	fmt.Println(a.String())
	fmt.Println(a.ReverseString())
	fmt.Println()

	threads := 1
	if cfg.Parallel {
		threads = cfg.Threads
	}

	report := engine.New(a).Run(context.Background(), data, threads)
	printResult(report)
	fmt.Printf("split=%s parse=%s merge=%s\n",
		report.Timings.Split, report.Timings.Parse, report.Timings.Merge)

	return nil
}

func printResult(r *engine.Report) {
	res := r.Result
	if res.Null {
		fmt.Println("The mapping for this part is null, please check the XPath command.")
		return
	}

	fmt.Printf("The mapping for this part is: %d, %s, %d, %s, %s\n",
		res.FirstEntryState,
		joinInts(res.EntryQueue),
		res.LastExitState,
		joinInts(reversed(res.ExitStack)),
		strings.Join(res.Outputs, " "),
	)
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%d:", v)
	}
	return strings.Join(parts, "")
}

func reversed(vals []int) []int {
	out := make([]int, len(vals))
	for i, v := range vals {
		out[len(vals)-1-i] = v
	}
	return out
}
