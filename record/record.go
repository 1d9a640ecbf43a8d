// Package record is a compact binary codec for flat structs whose decoded
// form can alias the encoded buffer.
//
// Layout: varint field count, then every exported field in declaration
// order. Fixed-size primitives are written little-endian. Strings and
// []byte are a varint length followed by the bytes. Slices of primitives
// are a varint count followed by the packed elements; []string repeats the
// string encoding per element.
//
// With Options.UnsafeStrings the decoded strings point into the buffer, and
// []byte fields always do. Such a value is only valid while its buffer is
// alive and unmodified, which is what Open guarantees by returning both
// inside a viewbox.Box.
package record

import (
	"errors"
	"reflect"
	"sync"
)

var (
	ErrNotStruct    = errors.New("expected struct")
	ErrNotStructPtr = errors.New("expected pointer to struct")
	ErrUnsupported  = errors.New("unsupported type")
	ErrTruncated    = errors.New("truncated record")
	ErrFieldCount   = errors.New("field count mismatch")
	ErrTrailing     = errors.New("trailing bytes after record")
)

// Options controls how much of a decoded record aliases its buffer.
type Options struct {
	// UnsafeStrings decodes strings as views into the buffer instead of
	// copies.
	UnsafeStrings bool
	// UnsafePrimitives aliases primitive slices into the buffer when their
	// position in it is suitably aligned, and lets Encode read primitive
	// slices as raw memory.
	UnsafePrimitives bool
	// CheckAlignment makes Encode verify element alignment before taking
	// the raw-memory path.
	CheckAlignment bool
}

// Codec encodes and decodes records. It caches one field plan per struct
// type and is safe for concurrent use.
type Codec struct {
	Opts Options
	mu   sync.RWMutex
	plan map[reflect.Type]*fieldPlan
}

type fieldPlan struct {
	fixedSize int
	varCount  int
	fields    []fieldInfo
}

type fieldInfo struct {
	idx       int
	name      string
	kind      reflect.Kind
	elem      reflect.Kind // slices only
	isVar     bool
	size      int // element size for slices
	alignment int
}

func New(opts Options) *Codec {
	return &Codec{
		Opts: opts,
		plan: make(map[reflect.Type]*fieldPlan),
	}
}

func (c *Codec) getPlan(t reflect.Type) (*fieldPlan, error) {
	c.mu.RLock()
	if plan, ok := c.plan[t]; ok {
		c.mu.RUnlock()
		return plan, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check
	if plan, ok := c.plan[t]; ok {
		return plan, nil
	}

	plan := &fieldPlan{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fi, err := planField(i, sf)
		if err != nil {
			return nil, err
		}
		plan.fields = append(plan.fields, fi)
		if fi.isVar {
			plan.varCount++
		} else {
			plan.fixedSize += fi.size
		}
	}
	c.plan[t] = plan
	return plan, nil
}
