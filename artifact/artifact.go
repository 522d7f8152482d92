// Package artifact simulates compression and quantization defects on
// numeric frame buffers.
//
// This file defines the Artifact interface and the Chain that applies
// multiple simulators in sequence.
package artifact

import (
	"fmt"

	"github.com/OpusGang/vs-samples/frame"
)

// Artifact degrades a frame buffer in a controlled, reproducible way.
// Implementations are pure: they never modify the input buffer, and the
// same input always produces the same output.
type Artifact interface {
	// Apply processes a buffer and returns a fresh buffer of the same
	// shape with the degradation applied.
	Apply(buf *frame.Buffer) (*frame.Buffer, error)

	// Name returns the artifact name with its parameters for
	// identification in logs and errors.
	Name() string
}

// Chain applies multiple artifacts in sequence.
type Chain struct {
	artifacts []Artifact
}

// NewChain creates an artifact chain from the given stages, applied in
// argument order.
func NewChain(artifacts ...Artifact) *Chain {
	return &Chain{
		artifacts: append(make([]Artifact, 0, len(artifacts)), artifacts...),
	}
}

// Add appends an artifact to the chain.
func (c *Chain) Add(a Artifact) {
	c.artifacts = append(c.artifacts, a)
}

// Apply processes a buffer through all artifacts in the chain.
func (c *Chain) Apply(buf *frame.Buffer) (*frame.Buffer, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}

	// An empty chain still returns a fresh copy
	if len(c.artifacts) == 0 {
		return buf.Clone(), nil
	}

	current := buf
	for i, a := range c.artifacts {
		result, err := a.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("artifact %d (%s): %w", i, a.Name(), err)
		}
		current = result
	}

	return current, nil
}

// Len returns the number of artifacts in the chain.
func (c *Chain) Len() int {
	return len(c.artifacts)
}

// Artifacts returns the chain's stages in application order. The slice
// is a copy; mutating it does not affect the chain.
func (c *Chain) Artifacts() []Artifact {
	return append([]Artifact(nil), c.artifacts...)
}

// Clear removes all artifacts from the chain.
func (c *Chain) Clear() {
	c.artifacts = c.artifacts[:0]
}
