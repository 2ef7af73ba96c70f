// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"reflect"
	"testing"
)

func TestAliasExpand(t *testing.T) {
	registry := NewAliasRegistry()
	registry.Set("ll", "ls -la")
	registry.Set("greet", `echo "hello there"`)

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "simple expansion", input: []string{"ll"}, want: []string{"ls", "-la"}},
		{name: "arguments appended", input: []string{"ll", "/tmp"}, want: []string{"ls", "-la", "/tmp"}},
		{name: "quoted value stays one token", input: []string{"greet"}, want: []string{"echo", "hello there"}},
		{name: "no alias match", input: []string{"ls", "-la"}, want: []string{"ls", "-la"}},
		{name: "alias only matches first word", input: []string{"echo", "ll"}, want: []string{"echo", "ll"}},
		{name: "empty input", input: nil, want: nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := registry.Expand(test.input)
			if err != nil {
				t.Fatalf("Expand: %v", err)
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Fatalf("Expand(%q) = %q; want %q", test.input, got, test.want)
			}
		})
	}
}

func TestAliasRegistry(t *testing.T) {
	registry := NewAliasRegistry()
	registry.Set("b", "beta")
	registry.Set("a", "alpha")

	if got := registry.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Names = %q; want [a b]", got)
	}

	if value, ok := registry.Get("a"); !ok || value != "alpha" {
		t.Fatalf("Get(a) = %q, %v", value, ok)
	}
	if !registry.Remove("a") {
		t.Fatal("Remove of existing alias should report true")
	}
	if registry.Remove("a") {
		t.Fatal("Remove of missing alias should report false")
	}
}

func TestParseAliasDefinition(t *testing.T) {
	tests := []struct {
		input     string
		wantName  string
		wantValue string
		wantOk    bool
	}{
		{input: "ll=ls -la", wantName: "ll", wantValue: "ls -la", wantOk: true},
		{input: "ll='ls -la'", wantName: "ll", wantValue: "ls -la", wantOk: true},
		{input: `ll="ls -la"`, wantName: "ll", wantValue: "ls -la", wantOk: true},
		{input: "empty=", wantName: "empty", wantValue: "", wantOk: true},
		{input: "justaname", wantOk: false},
		{input: "=value", wantOk: false},
	}

	for _, test := range tests {
		name, value, ok := ParseAliasDefinition(test.input)
		if ok != test.wantOk {
			t.Errorf("ParseAliasDefinition(%q) ok = %v; want %v", test.input, ok, test.wantOk)
			continue
		}
		if ok && (name != test.wantName || value != test.wantValue) {
			t.Errorf("ParseAliasDefinition(%q) = %q, %q; want %q, %q",
				test.input, name, value, test.wantName, test.wantValue)
		}
	}
}
