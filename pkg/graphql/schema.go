// Package graphql serves a graphql-go schema over HTTP.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/orderdesk/pkg/bind"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/response"
)

// NewSchema creates a read-only schema from a root query.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the standard GraphQL POST body.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Handler executes POSTed queries against schema. Resolver errors come
// back in the GraphQL "errors" array with status 200.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			response.Error(w, http.StatusMethodNotAllowed, "GraphQL queries must be POSTed")
			return
		}

		var req Request
		r.Body = http.MaxBytesReader(w, r.Body, bind.MaxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
			response.Error(w, http.StatusBadRequest, "Body must be JSON with a non-empty query")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})
		if result.HasErrors() {
			logger.WithCtx(r.Context()).Debug("graphql: query returned errors", "errors", len(result.Errors))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}
