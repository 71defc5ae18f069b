// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		argv []string
		want Args
	}{
		{nil, Args{Command: CmdTUI}},
		{[]string{"ask", "what", "is", "x"}, Args{Command: CmdAsk, Query: "what is x"}},
		{[]string{"ask", "--plain", "q"}, Args{Command: CmdAsk, Query: "q", Plain: true}},
		{[]string{"ask"}, Args{Command: CmdAsk}},
		{[]string{"upload", "notes.txt"}, Args{Command: CmdUpload, File: "notes.txt", Raw: []string{}}},
		{[]string{"login"}, Args{Command: CmdLogin}},
		{[]string{"logout"}, Args{Command: CmdLogout}},
		{[]string{"version"}, Args{Command: CmdVersion}},
		{[]string{"-V"}, Args{Command: CmdVersion}},
		{[]string{"help"}, Args{Command: CmdHelp}},
		{[]string{"--help"}, Args{Command: CmdHelp}},
	}

	for _, tc := range tests {
		got := Parse(tc.argv)
		if got.Command != tc.want.Command || got.Query != tc.want.Query ||
			got.File != tc.want.File || got.Plain != tc.want.Plain {
			t.Errorf("Parse(%v) = %+v, want %+v", tc.argv, got, tc.want)
		}
	}
}

func TestParseBareQuestion(t *testing.T) {
	got := Parse([]string{"what", "is", "my", "name"})
	if got.Command != CmdAsk || got.Query != "what is my name" {
		t.Errorf("Parse = %+v", got)
	}
}

func TestRenderAnswerPlain(t *testing.T) {
	out := renderAnswer("hello", true)
	if out != "hello\n" {
		t.Errorf("renderAnswer = %q", out)
	}
}
