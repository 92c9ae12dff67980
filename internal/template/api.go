package template

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/kolah/swagcheck/internal/model"
	"github.com/pb33f/libopenapi/orderedmap"
	"golang.org/x/sync/errgroup"
)

// Verb is an HTTP verb recognised by the template.
type Verb string

const (
	VerbGet    Verb = "get"
	VerbPut    Verb = "put"
	VerbPost   Verb = "post"
	VerbDelete Verb = "delete"
)

// Verbs is the recognised verb set in probing order.
var Verbs = []Verb{VerbGet, VerbPut, VerbPost, VerbDelete}

var verbOperations = map[Verb]func(*model.PathItem) *model.Operation{
	VerbGet:    func(p *model.PathItem) *model.Operation { return p.Get },
	VerbPut:    func(p *model.PathItem) *model.Operation { return p.Put },
	VerbPost:   func(p *model.PathItem) *model.Operation { return p.Post },
	VerbDelete: func(p *model.PathItem) *model.Operation { return p.Delete },
}

func (v Verb) Upper() string {
	return strings.ToUpper(string(v))
}

// Document is the resolved API description the template is built from.
type Document interface {
	Resolver
	PathItems() iter.Seq2[string, *model.PathItem]
}

// Endpoint holds the operations templated for one path.
type Endpoint struct {
	path       string
	operations map[Verb]*OperationTemplate
}

func (e *Endpoint) Path() string {
	return e.path
}

func (e *Endpoint) Operation(v Verb) (*OperationTemplate, bool) {
	op, ok := e.operations[v]
	return op, ok
}

// Verbs lists the verbs present on the path in probing order.
func (e *Endpoint) Verbs() []Verb {
	var verbs []Verb
	for _, v := range Verbs {
		if _, ok := e.operations[v]; ok {
			verbs = append(verbs, v)
		}
	}
	return verbs
}

// Operations iterates the endpoint's operations in probing order.
func (e *Endpoint) Operations() iter.Seq[*OperationTemplate] {
	return func(yield func(*OperationTemplate) bool) {
		for _, v := range Verbs {
			if op, ok := e.operations[v]; ok {
				if !yield(op) {
					return
				}
			}
		}
	}
}

func (e *Endpoint) Len() int {
	return len(e.operations)
}

// APITemplate indexes every path of a document to its templated operations.
type APITemplate struct {
	endpoints *orderedmap.Map[string, *Endpoint]
}

type operationJob struct {
	endpoint *Endpoint
	verb     Verb
	op       *model.Operation
}

// New builds the template of every recognised operation in doc. Any fatal
// error aborts construction.
func New(doc Document, opts ...Option) (*APITemplate, error) {
	s := newSettings(opts)
	t := &APITemplate{endpoints: orderedmap.New[string, *Endpoint]()}

	var jobs []operationJob
	for path, item := range doc.PathItems() {
		e := &Endpoint{path: path, operations: make(map[Verb]*OperationTemplate)}
		t.endpoints.Set(path, e)

		for _, v := range Verbs {
			if op := verbOperations[v](item); op != nil {
				jobs = append(jobs, operationJob{endpoint: e, verb: v, op: op})
			}
		}
		for _, op := range []*model.Operation{item.Patch, item.Head, item.Options} {
			if op != nil {
				s.logger.Debug("ignoring unrecognised verb", "path", path, "verb", op.Method)
			}
		}
	}

	results := make([]*OperationTemplate, len(jobs))
	build := func(i int) error {
		j := jobs[i]
		op, err := newOperationTemplate(doc, j.verb, j.endpoint.path, j.op, s)
		if err != nil {
			return fmt.Errorf("templating %s %s: %w", j.verb.Upper(), j.endpoint.path, err)
		}
		results[i] = op
		return nil
	}

	if s.concurrency > 1 {
		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(s.concurrency)
		for i := range jobs {
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				return build(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range jobs {
			if err := build(i); err != nil {
				return nil, err
			}
		}
	}

	for i, j := range jobs {
		j.endpoint.operations[j.verb] = results[i]
	}

	s.logger.Debug("templated API", "paths", t.endpoints.Len(), "operations", len(jobs))
	return t, nil
}

// Endpoints iterates endpoints in document path order.
func (t *APITemplate) Endpoints() iter.Seq2[string, *Endpoint] {
	return func(yield func(string, *Endpoint) bool) {
		for path, e := range t.endpoints.FromOldest() {
			if !yield(path, e) {
				return
			}
		}
	}
}

func (t *APITemplate) Endpoint(path string) (*Endpoint, bool) {
	return t.endpoints.Get(path)
}

func (t *APITemplate) Paths() []string {
	paths := make([]string, 0, t.endpoints.Len())
	for path := range t.endpoints.FromOldest() {
		paths = append(paths, path)
	}
	return paths
}

func (t *APITemplate) Len() int {
	return t.endpoints.Len()
}

// Operations returns a restartable sequence over every operation, in path
// order then verb order.
func (t *APITemplate) Operations() iter.Seq[*OperationTemplate] {
	return func(yield func(*OperationTemplate) bool) {
		for _, e := range t.endpoints.FromOldest() {
			for op := range e.Operations() {
				if !yield(op) {
					return
				}
			}
		}
	}
}

// Skips collects the skips of every operation in sequence order.
func (t *APITemplate) Skips() []Skip {
	var skips []Skip
	for op := range t.Operations() {
		skips = append(skips, op.skips...)
	}
	return skips
}
