package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
	"github.com/orbitscope/satassist-go/internal/geospatial"
	"github.com/orbitscope/satassist-go/internal/graph"
	"github.com/orbitscope/satassist-go/internal/metrics"
	"github.com/orbitscope/satassist-go/internal/nlp"
	"github.com/orbitscope/satassist-go/internal/session"
)

const searchLimit = 5

// Resolver runs the full answer pipeline: query understanding, optional
// geospatial handling, knowledge graph search, intent dispatch and session
// bookkeeping.
type Resolver struct {
	processor *nlp.Processor
	geo       *geospatial.Handler
	store     *graph.Store
	sessions  *session.Manager
	logger    *zap.Logger
}

func New(processor *nlp.Processor, geo *geospatial.Handler, store *graph.Store, sessions *session.Manager, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		processor: processor,
		geo:       geo,
		store:     store,
		sessions:  sessions,
		logger:    logger,
	}
}

// Resolve answers one query. Panics anywhere downstream degrade to the
// generic error response instead of propagating.
func (r *Resolver) Resolve(ctx context.Context, query, sessionID string) (response apptype.Response) {
	done := metrics.TimeStage("resolve")
	var success bool
	defer func() { done(success) }()

	if sessionID == "" {
		sessionID = "default"
	}
	r.logger.Info("processing query",
		zap.String("session_id", sessionID), zap.String("query", query))

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("query resolution panicked",
				zap.Any("panic", rec), zap.String("query", query))
			response = errorResponse()
		}
	}()

	analysis := r.processor.Process(ctx, query)

	var geo *apptype.GeospatialPayload
	if analysis.IsGeospatial {
		payload := r.geo.Process(analysis)
		geo = &payload
	}

	// The query was embedded during processing; reuse that vector instead
	// of a second provider round trip.
	results := r.store.SearchByVector(analysis.Embedding, searchLimit)

	response = r.dispatch(analysis, results, geo)
	r.sessions.Record(sessionID, query, response)

	success = true
	return response
}

// SessionContext exposes the bounded history for a session id.
func (r *Resolver) SessionContext(sessionID string) apptype.SessionContext {
	if sessionID == "" {
		sessionID = "default"
	}
	return r.sessions.Get(sessionID)
}

func errorResponse() apptype.Response {
	return apptype.Response{
		Answer:     "I encountered an error processing your query. Please try rephrasing your question or contact support if the issue persists.",
		Confidence: 0.0,
		Sources:    []apptype.SourceRef{},
		Suggestions: []string{
			"Try rephrasing your question",
			"Check spelling and grammar",
			"Contact technical support",
			"Browse FAQ section",
		},
	}
}
