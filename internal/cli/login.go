// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// login.go - Terminal sign-in and sign-out.
//
// Command: login
//
// Prompts for credentials, signs in, and stores the session so the TUI and
// the ask/upload commands start authenticated.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/Roger-Zhou0/llm-assistant-tui/internal/api"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/auth"
)

// RunLogin executes the login command and returns the process exit code.
func RunLogin() int {
	sess, err := newSession()
	if err != nil {
		return fail("%v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return fail("%v", err)
	}
	email = strings.TrimSpace(email)

	fmt.Print("password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fail("%v", err)
	}

	fmt.Print("captcha token (enter to skip): ")
	captcha, err := reader.ReadString('\n')
	if err != nil {
		return fail("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := sess.client.Login(ctx, api.Credentials{
		Email:        email,
		Password:     string(pwBytes),
		CaptchaToken: strings.TrimSpace(captcha),
	})
	if err != nil {
		return fail("login failed: %v", err)
	}

	sess.manager.Adopt(res)
	if sess.manager.State() != auth.StateAuthenticated {
		return fail("login succeeded but the credential could not be used")
	}
	fmt.Printf("signed in as %s\n", email)
	return 0
}

// RunLogout drops the stored session.
func RunLogout() int {
	sess, err := newSession()
	if err != nil {
		return fail("%v", err)
	}
	sess.store.ClearCredentials()
	fmt.Println("signed out")
	return 0
}
