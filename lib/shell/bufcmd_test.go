// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"reflect"
	"testing"
)

func TestParseBufferCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    BufferCommand
		wantErr bool
	}{
		{
			name: "single name",
			args: []string{"notes"},
			want: BufferCommand{Names: []string{"notes"}},
		},
		{
			name: "multiple names",
			args: []string{"a", "b", "c"},
			want: BufferCommand{Names: []string{"a", "b", "c"}},
		},
		{
			name: "list option",
			args: []string{"-l", "notes"},
			want: BufferCommand{Names: []string{"notes"}, List: true},
		},
		{
			name: "save option",
			args: []string{"-s", "notes"},
			want: BufferCommand{Names: []string{"notes"}, SaveDirty: true},
		},
		{
			name: "options interleaved with names",
			args: []string{"a", "-l", "b", "-s"},
			want: BufferCommand{Names: []string{"a", "b"}, List: true, SaveDirty: true},
		},
		{name: "no names", args: nil, wantErr: true},
		{name: "options only", args: []string{"-l", "-s"}, wantErr: true},
		{name: "unknown option", args: []string{"-x", "notes"}, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseBufferCommand(test.args)
			if test.wantErr {
				if err == nil {
					t.Fatalf("ParseBufferCommand(%q) succeeded; want error", test.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBufferCommand(%q): %v", test.args, err)
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Fatalf("ParseBufferCommand(%q) = %+v; want %+v", test.args, got, test.want)
			}
		})
	}
}
