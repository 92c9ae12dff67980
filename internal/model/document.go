package model

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrUnresolvedRef is returned when a $ref pointer does not designate a known schema.
var ErrUnresolvedRef = errors.New("unresolved reference")

type Document struct {
	Version string
	Info    Info
	Paths   []PathItem

	// Schemas holds every schema reachable through a $ref, keyed by the full
	// pointer (e.g., "#/definitions/Pet").
	Schemas map[string]*Schema
}

// Resolve returns the schema designated by a $ref pointer.
func (d *Document) Resolve(ref string) (*Schema, error) {
	if s, ok := d.Schemas[ref]; ok && s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnresolvedRef, ref)
}

// PathItems iterates the declared paths in document order.
func (d *Document) PathItems() iter.Seq2[string, *PathItem] {
	return func(yield func(string, *PathItem) bool) {
		for i := range d.Paths {
			if !yield(d.Paths[i].Path, &d.Paths[i]) {
				return
			}
		}
	}
}

// PathItem returns the path item declared for path.
func (d *Document) PathItem(path string) (*PathItem, bool) {
	for i := range d.Paths {
		if d.Paths[i].Path == path {
			return &d.Paths[i], true
		}
	}
	return nil, false
}

// SchemaName returns the last segment of a $ref pointer.
func SchemaName(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

type Info struct {
	Title       string
	Description string
	Version     string
}

type PathItem struct {
	Path    string
	Get     *Operation
	Put     *Operation
	Post    *Operation
	Delete  *Operation
	Patch   *Operation
	Head    *Operation
	Options *Operation
}

// Operations returns the declared operations in a fixed method order.
func (p *PathItem) Operations() []*Operation {
	var ops []*Operation
	for _, op := range []*Operation{p.Get, p.Put, p.Post, p.Delete, p.Patch, p.Head, p.Options} {
		if op != nil {
			ops = append(ops, op)
		}
	}
	return ops
}
