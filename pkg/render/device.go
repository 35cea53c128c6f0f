package render

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBufferSize is returned when an output buffer does not hold exactly
	// width*height*3 channels.
	ErrBufferSize = errors.New("output buffer size does not match camera resolution")

	// ErrNoDevice is returned by SelectDevice when no candidate qualifies.
	ErrNoDevice = errors.New("no compatible render device")
)

// Device is a render backend. Backends are interchangeable and chosen once
// at configuration time with SelectDevice.
type Device interface {
	// Name identifies the backend in configuration ("cpu").
	Name() string
	// IsCompatible reports whether the backend can run on this machine.
	IsCompatible() bool
	// UploadGeometry replaces the scene. The objects must not be mutated
	// while a render is in progress.
	UploadGeometry(objects []Geometry) error
	// Render writes one frame into out, which must hold
	// width*height*3 channels. It blocks until every pixel is written.
	Render(cam *Camera, maxThreads int, out []int) (RenderStats, error)
}

// SelectDevice returns the first compatible candidate whose name matches.
// The name "auto" (or "") matches any candidate.
func SelectDevice(name string, candidates ...Device) (Device, error) {
	for _, d := range candidates {
		if name != "" && name != "auto" && d.Name() != name {
			continue
		}
		if d.IsCompatible() {
			return d, nil
		}
	}
	return nil, fmt.Errorf("select device %q: %w", name, ErrNoDevice)
}

// Span is a half-open range [Start, End) of flat pixel indices.
type Span struct {
	Start, End int
}

// Len returns the number of pixels in the span.
func (s Span) Len() int { return s.End - s.Start }

// Partition splits n pixels into parts contiguous spans of n/parts pixels.
// The last span also takes the n%parts remainder, so every index in [0, n)
// belongs to exactly one span. parts is clamped to [1, max(n, 1)].
func Partition(n, parts int) []Span {
	parts = max(min(parts, n), 1)
	size := n / parts

	spans := make([]Span, parts)
	for p := range spans {
		spans[p] = Span{Start: p * size, End: (p + 1) * size}
	}
	spans[parts-1].End = n
	return spans
}

// RenderStats describes one completed render.
type RenderStats struct {
	Threads  int
	Pixels   int
	Hits     int
	Tests    int // Ray-triangle tests performed
	Sections []SectionStats
	Setup    time.Duration // Snapshot and ray precomputation
	Duration time.Duration // Whole render, setup included
}

// SectionStats describes the work of one worker.
type SectionStats struct {
	Span
	Hits  int
	Tests int
}
