// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"sort"
	"strings"
)

// AliasRegistry maps alias names to their replacement command lines.
// Expansion replaces the first word only and is not recursive.
type AliasRegistry struct {
	entries map[string]string
}

// NewAliasRegistry creates an empty registry.
func NewAliasRegistry() *AliasRegistry {
	return &AliasRegistry{entries: make(map[string]string)}
}

// Set defines or replaces an alias.
func (r *AliasRegistry) Set(name, value string) {
	r.entries[name] = value
}

// Get looks up an alias.
func (r *AliasRegistry) Get(name string) (string, bool) {
	value, ok := r.entries[name]
	return value, ok
}

// Remove deletes an alias. Reports whether it existed.
func (r *AliasRegistry) Remove(name string) bool {
	if _, ok := r.entries[name]; !ok {
		return false
	}
	delete(r.entries, name)
	return true
}

// Names returns all defined alias names, sorted.
func (r *AliasRegistry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expand substitutes the alias value for the first token when the
// first token names an alias. The replacement value is tokenized with
// the same quoting rules as the command line.
func (r *AliasRegistry) Expand(tokens []string) ([]string, error) {
	if len(tokens) == 0 {
		return tokens, nil
	}
	value, ok := r.entries[tokens[0]]
	if !ok {
		return tokens, nil
	}
	expanded, err := Tokenize(value)
	if err != nil {
		return nil, err
	}
	return append(expanded, tokens[1:]...), nil
}

// ParseAliasDefinition splits a POSIX-style `name=value` argument,
// stripping one level of surrounding quotes from the value. Reports
// false when the argument is not a definition.
func ParseAliasDefinition(argument string) (name, value string, ok bool) {
	equals := strings.IndexByte(argument, '=')
	if equals <= 0 {
		return "", "", false
	}
	name = argument[:equals]
	value = argument[equals+1:]
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			value = value[1 : len(value)-1]
		}
	}
	return name, value, true
}
