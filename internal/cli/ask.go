// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-off question command.
//
// Command: ask [question]
//
// Sends a single question to the /ask endpoint, which answers from the
// user's stored memory. With no argument it opens an interactive prompt
// with line editing and history; Ctrl-D exits.
//
// Examples:
//   llm-assistant ask "what is my cat's name?"
//   llm-assistant ask --plain "list my saved notes"
//   llm-assistant ask
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"
)

// RunAsk executes the ask command and returns the process exit code.
func RunAsk(args Args) int {
	sess, err := newSession()
	if err != nil {
		return fail("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	bearer := sess.requireAuth(ctx)
	cancel()
	if bearer == "" {
		return fail("not signed in, run: llm-assistant login")
	}

	if args.Query != "" {
		return askOnce(sess, bearer, args.Query, args.Plain)
	}

	// Interactive mode.
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		q, err := line.Prompt("? ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return 0
		}
		if err != nil {
			return fail("%v", err)
		}
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		line.AppendHistory(q)
		if code := askOnce(sess, bearer, q, args.Plain); code != 0 {
			return code
		}
	}
}

func askOnce(sess *session, bearer, question string, plain bool) int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	out, err := sess.client.Ask(ctx, bearer, question)
	if err != nil {
		return fail("%v", err)
	}

	fmt.Print(renderAnswer(out.Answer, plain))
	if out.Provider != "" {
		fmt.Printf("  [%s/%s]\n", out.Provider, out.Model)
	}
	return 0
}

// renderAnswer formats the reply as markdown unless plain output was asked
// for or rendering fails.
func renderAnswer(answer string, plain bool) string {
	if !plain {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100)); err == nil {
			if rendered, err := r.Render(answer); err == nil {
				return rendered
			}
		}
	}
	if !strings.HasSuffix(answer, "\n") {
		answer += "\n"
	}
	return answer
}
