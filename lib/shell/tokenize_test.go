// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "simple words", input: "echo hello world", want: []string{"echo", "hello", "world"}},
		{name: "collapsed whitespace", input: "  ls   -la  ", want: []string{"ls", "-la"}},
		{name: "empty line", input: "", want: nil},
		{name: "only whitespace", input: "   \t ", want: nil},
		{name: "single quotes", input: "echo 'hello world'", want: []string{"echo", "hello world"}},
		{name: "double quotes", input: `echo "hello world"`, want: []string{"echo", "hello world"}},
		{name: "quotes join adjacent text", input: `echo pre'fix'post`, want: []string{"echo", "prefixpost"}},
		{name: "escaped space", input: `touch my\ file`, want: []string{"touch", "my file"}},
		{name: "escaped quote in double quotes", input: `echo "say \"hi\""`, want: []string{"echo", `say "hi"`}},
		{name: "backslash literal in single quotes", input: `echo 'a\b'`, want: []string{"echo", `a\b`}},
		{name: "empty quoted token", input: `echo ''`, want: []string{"echo", ""}},
		{name: "unterminated single quote", input: "echo 'oops", wantErr: true},
		{name: "unterminated double quote", input: `echo "oops`, wantErr: true},
		{name: "trailing backslash", input: `echo oops\`, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Tokenize(test.input)
			if test.wantErr {
				if err == nil {
					t.Fatalf("Tokenize(%q) succeeded with %q; want error", test.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Tokenize(%q): %v", test.input, err)
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Fatalf("Tokenize(%q) = %q; want %q", test.input, got, test.want)
			}
		})
	}
}
