package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/d3vos/scout-go/internal/logging"
)

// Router classifies a question into the route that should answer it.
// Routing never fails: a model error or an unparseable reply degrades to
// RouteWeb, so one flaky call does not take down the whole question.
type Router struct {
	llm LanguageModel
}

// NewRouter constructs a Router on the given model.
func NewRouter(llm LanguageModel) *Router {
	return &Router{llm: llm}
}

// Decide returns the route for the question. transcript is the rendered
// conversation so far ("" for an empty conversation) and lets the router
// resolve follow-up questions that refer to earlier turns.
func (r *Router) Decide(ctx context.Context, question, transcript string) Route {
	prompt := question
	if transcript != "" {
		prompt = "Conversation so far:\n" + transcript + "\nQuestion: " + question
	}

	raw, err := r.llm.Complete(ctx, routerSystemPrompt, prompt)
	if err != nil {
		logging.FromContext(ctx).Warn("router: model call failed, defaulting to web",
			slog.Any("error", err),
		)
		return RouteWeb
	}

	route := parseRoute(raw)
	if !route.Valid() {
		logging.FromContext(ctx).Warn("router: unexpected model output, defaulting to web",
			slog.String("output", truncate(raw, 120)),
		)
		return RouteWeb
	}

	return route
}

// parseRoute extracts a Route from the model's reply. The reply should be a
// single word, but models sometimes add punctuation or casing; be lenient
// about that and strict about everything else.
func parseRoute(raw string) Route {
	word := strings.ToLower(strings.TrimSpace(raw))
	word = strings.Trim(word, ".!\"'`")

	switch Route(word) {
	case RouteDocuments:
		return RouteDocuments
	case RouteWeb:
		return RouteWeb
	case RouteBoth:
		return RouteBoth
	}
	return Route(word)
}

// truncate shortens s for log output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
