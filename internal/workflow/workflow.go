package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrNoRoute is returned when a query does not classify into any supported
// task.
var ErrNoRoute = errors.New("query does not match a supported task")

// Workflow is the classify-then-route entry point: one classifier, four
// terminal handlers behind a plain dispatch table. No state survives a call.
type Workflow struct {
	classifier *Classifier
	routes     map[Label]Handler
}

// New creates a workflow with an empty routing table.
func New(classifier *Classifier) *Workflow {
	return &Workflow{
		classifier: classifier,
		routes:     make(map[Label]Handler),
	}
}

// Register binds a handler to a label. Registering LabelUnknown is a
// programming error and is ignored.
func (w *Workflow) Register(label Label, h Handler) {
	if label == LabelUnknown {
		return
	}
	w.routes[label] = h
}

// Run classifies the request, records the label on it, and dispatches to the
// matching handler. An unroutable label yields ErrNoRoute.
func (w *Workflow) Run(ctx context.Context, req *Request) (any, error) {
	label, err := w.classifier.Classify(ctx, req)
	if err != nil {
		return nil, err
	}
	req.Classification = label

	handler, ok := w.routes[label]
	if !ok {
		return nil, fmt.Errorf("%w: classified as %q", ErrNoRoute, label)
	}

	log.Printf("workflow: routing query to %s", label)
	return handler.Handle(ctx, req)
}
