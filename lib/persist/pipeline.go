// Copyright 2026 The Iridium Authors
// SPDX-License-Identifier: Apache-2.0

// Package persist implements the crash-safe persistence of the buffer
// store: a layered, invertible transform pipeline (compression,
// optional authenticated encryption) over a fixed-header binary file
// format, committed atomically via write-to-temporary-then-rename.
//
// The pipeline is an ordered list of layers. Encode applies layers in
// registration order, decode in reverse order, so decode(encode(x))
// returns x for every valid configuration. Each layer contributes one
// bit to the flags word recorded in the file header; a reader whose
// pipeline flags differ from the header refuses the file rather than
// guessing.
package persist

import "strings"

// Layer is one invertible transform stage. Implementations must
// guarantee Decode(Encode(x)) == x and identify themselves with a
// unique flag bit.
type Layer interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
	FlagBit() uint32
}

// Pipeline applies its layers in registration order on encode and in
// reverse order on decode. Compression layers are registered before
// encryption: compressing plaintext first maximizes the ratio and
// avoids compressing near-random ciphertext.
type Pipeline struct {
	layers []Layer
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Push appends a layer. Order of registration is the encode order.
func (p *Pipeline) Push(layer Layer) {
	p.layers = append(p.layers, layer)
}

// Flags returns the OR of every layer's flag bit. This word is
// recorded in the file header and must match exactly between the
// writing and reading configuration.
func (p *Pipeline) Flags() uint32 {
	var flags uint32
	for _, layer := range p.layers {
		flags |= layer.FlagBit()
	}
	return flags
}

// Encode runs data through every layer in registration order.
func (p *Pipeline) Encode(data []byte) ([]byte, error) {
	current := data
	for _, layer := range p.layers {
		transformed, err := layer.Encode(current)
		if err != nil {
			return nil, err
		}
		current = transformed
	}
	return current, nil
}

// Decode runs data through every layer in reverse registration order.
func (p *Pipeline) Decode(data []byte) ([]byte, error) {
	current := data
	for i := len(p.layers) - 1; i >= 0; i-- {
		transformed, err := p.layers[i].Decode(current)
		if err != nil {
			return nil, err
		}
		current = transformed
	}
	return current, nil
}

// normalizeName canonicalizes an algorithm name from configuration.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
