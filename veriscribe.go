// Package veriscribe provides a high-level façade over the entity store and
// the analysis gateway. Most applications interact with this package by:
//  1. Creating a Veriscribe via New() (optionally overriding the default
//     in-memory store, gateway or logger)
//  2. Submitting assignments and running AI checks through the workflow
//     helpers, or reaching the store and gateway directly via accessors
//
// All defaults are safe for local development and testing; production
// deployments supply a durable store backend and a structured logger.
package veriscribe

import (
	"context"
	"fmt"

	"github.com/veriscribe/veriscribe/config"
	"github.com/veriscribe/veriscribe/core"
	"github.com/veriscribe/veriscribe/entity"
	"github.com/veriscribe/veriscribe/entity/hosted"
	"github.com/veriscribe/veriscribe/gateway"
	"github.com/veriscribe/veriscribe/logging"
)

// Options configures the Veriscribe instance.
type Options struct {
	// Store holds assignments and analyses (defaults to in-memory).
	Store core.EntityStore
	// Gateway talks to the analysis backend (defaults to localhost).
	Gateway *gateway.Client
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Veriscribe is the high-level façade aggregating the store and the gateway.
type Veriscribe struct {
	store   core.EntityStore
	gateway *gateway.Client
	logger  logging.Logger
}

// New creates a new Veriscribe instance with optional overrides. Any unset
// service is initialized with a local default.
func New(optFns ...func(o *Options)) *Veriscribe {
	opts := Options{
		Store:  entity.NewInMemoryStore(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Gateway == nil {
		opts.Gateway = gateway.NewClient("", func(o *gateway.Options) {
			o.Logger = opts.Logger
		})
	}
	return &Veriscribe{
		store:   opts.Store,
		gateway: opts.Gateway,
		logger:  opts.Logger,
	}
}

// WithStore overrides the entity store backend.
func WithStore(s core.EntityStore) func(o *Options) {
	return func(o *Options) { o.Store = s }
}

// WithGateway overrides the analysis gateway client.
func WithGateway(g *gateway.Client) func(o *Options) {
	return func(o *Options) { o.Gateway = g }
}

// WithLogger overrides the logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Store exposes the entity store for direct CRUD access.
func (v *Veriscribe) Store() core.EntityStore { return v.store }

// Gateway exposes the analysis client for direct backend calls.
func (v *Veriscribe) Gateway() *gateway.Client { return v.gateway }

// SubmitAssignment records a new assignment in the uploaded state. The id and
// createdAt fields are assigned by the store.
func (v *Veriscribe) SubmitAssignment(ctx context.Context, a core.Assignment) (core.Assignment, error) {
	a.Status = core.StatusUploaded
	doc, err := v.store.Create(ctx, core.KindAssignment, a.Fields())
	if err != nil {
		return core.Assignment{}, fmt.Errorf("submit assignment: %w", err)
	}
	v.logger.Info("assignment submitted", "id", doc.ID(), "taskType", a.TaskType)
	return core.AssignmentFromDocument(doc), nil
}

// CheckWork runs the AI-likelihood check on the given text, records the
// verdict as an Analysis linked to the assignment, and flips the assignment
// to the analyzed state. The returned Analysis carries the verdict in Extra.
func (v *Veriscribe) CheckWork(ctx context.Context, assignmentID, text string) (core.Analysis, error) {
	if _, err := v.store.FindByID(ctx, core.KindAssignment, assignmentID); err != nil {
		return core.Analysis{}, fmt.Errorf("check work: %w", err)
	}

	verdict, err := v.gateway.CheckAILikelihood(ctx, text)
	if err != nil {
		return core.Analysis{}, fmt.Errorf("check work: %w", err)
	}

	analysis := core.Analysis{
		AssignmentID: assignmentID,
		Extra: map[string]any{
			"aiScore":     verdict.AIScore,
			"humanScore":  verdict.HumanScore,
			"explanation": verdict.Explanation,
			"suggestions": verdict.Suggestions,
		},
	}
	doc, err := v.store.Create(ctx, core.KindAnalysis, analysis.Fields())
	if err != nil {
		return core.Analysis{}, fmt.Errorf("record analysis: %w", err)
	}

	if _, err := v.store.Update(ctx, core.KindAssignment, assignmentID, core.Document{
		"status":  string(core.StatusAnalyzed),
		"aiScore": verdict.AIScore,
	}); err != nil {
		return core.Analysis{}, fmt.Errorf("mark assignment analyzed: %w", err)
	}

	v.logger.Info("work checked", "assignmentId", assignmentID, "aiScore", verdict.AIScore)
	return core.AnalysisFromDocument(doc), nil
}

// AnalysesFor returns the analyses recorded for an assignment, newest first
// where the backend can order them. Backends without the query capability are
// served by a full scan.
func (v *Veriscribe) AnalysesFor(ctx context.Context, assignmentID string) ([]core.Analysis, error) {
	var docs []core.Document
	var err error
	if q, ok := v.store.(core.Queryer); ok {
		docs, err = q.Query(ctx, core.KindAnalysis, core.Query{
			Field: "assignmentId", Equals: assignmentID, OrderBy: core.FieldCreatedAt,
		})
	} else {
		docs, err = v.store.FindAll(ctx, core.KindAnalysis)
		if err == nil {
			kept := docs[:0]
			for _, doc := range docs {
				if doc["assignmentId"] == assignmentID {
					kept = append(kept, doc)
				}
			}
			docs = kept
		}
	}
	if err != nil {
		return nil, fmt.Errorf("analyses for %s: %w", assignmentID, err)
	}

	out := make([]core.Analysis, 0, len(docs))
	for _, doc := range docs {
		out = append(out, core.AnalysisFromDocument(doc))
	}
	return out, nil
}

// StoreFromConfig builds the entity store backend named by cfg.
func StoreFromConfig(cfg config.Config, logger logging.Logger) (core.EntityStore, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return entity.NewInMemoryStore(), nil
	case config.StoreFile:
		return entity.NewFileStore(cfg.DataDir)
	case config.StoreHosted:
		return hosted.NewStore(cfg.EntityAPIURL, func(o *hosted.Options) {
			o.Logger = logger
		}), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
