// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdUpload
	CmdLogin
	CmdLogout
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	Command Command

	// Query is the ask question, empty for interactive prompt.
	Query string
	// File is the upload path.
	File string
	// Plain disables markdown rendering for ask output.
	Plain bool

	// Raw holds the remaining unparsed arguments.
	Raw []string
}

const usageText = `llm-assistant - terminal client for the LLM Assistant service

Usage:
  llm-assistant                  Start the TUI (default)
  llm-assistant ask [question]   Ask a one-off question answered from your memory
    --plain                      Print the raw answer without markdown rendering
  llm-assistant upload <file>    Ingest a text or PDF file into your memory
  llm-assistant login            Sign in from the terminal
  llm-assistant logout           Drop the stored session
  llm-assistant version          Print version information
  llm-assistant help             Show this help

Configuration lives in ~/.llm-assistant/config.toml. The backend URL can be
overridden with LLM_ASSISTANT_API_URL.
`

// Parse interprets os.Args-style arguments (without the program name).
func Parse(argv []string) Args {
	args := Args{Command: CmdTUI}
	if len(argv) == 0 {
		return args
	}

	rest := argv[1:]
	switch argv[0] {
	case "ask":
		args.Command = CmdAsk
		for _, a := range rest {
			if a == "--plain" {
				args.Plain = true
				continue
			}
			if args.Query == "" {
				args.Query = a
			} else {
				args.Query += " " + a
			}
		}
	case "upload":
		args.Command = CmdUpload
		if len(rest) > 0 {
			args.File = rest[0]
			args.Raw = rest[1:]
		}
	case "login":
		args.Command = CmdLogin
	case "logout":
		args.Command = CmdLogout
	case "version", "--version", "-V":
		args.Command = CmdVersion
	case "help", "--help", "-h":
		args.Command = CmdHelp
	default:
		// Unknown words are treated as an ask question, matching the
		// common "llm-assistant what is x" reflex.
		args.Command = CmdAsk
		args.Query = strings.Join(argv, " ")
	}
	return args
}

// RunVersion prints version information.
func RunVersion() int {
	fmt.Printf("llm-assistant %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	return 0
}

// RunHelp prints usage.
func RunHelp() int {
	fmt.Print(usageText)
	return 0
}

// fail prints an error to stderr and returns a nonzero exit code.
func fail(format string, a ...any) int {
	fmt.Fprintf(os.Stderr, "llm-assistant: "+format+"\n", a...)
	return 1
}
