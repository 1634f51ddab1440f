package httpapi

import (
	"context"
	"encoding/json"

	gqlin "postgraph/internal/adapter/in/graphql"

	gqlgen "github.com/99designs/gqlgen/graphql"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/samber/lo"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// executableSchema lets gqlgen transports drive the graphql-go schema: gqlgen
// parses and validates operations against the SDL, graphql-go executes them.
type executableSchema struct {
	schema graphql.Schema
	sdl    *ast.Schema
}

var _ gqlgen.ExecutableSchema = (*executableSchema)(nil)

func newExecutableSchema(schema graphql.Schema) *executableSchema {
	return &executableSchema{
		schema: schema,
		sdl:    gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: gqlin.SDL}),
	}
}

func (e *executableSchema) Schema() *ast.Schema { return e.sdl }

func (e *executableSchema) Complexity(context.Context, string, string, int, map[string]any) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) gqlgen.ResponseHandler {
	oc := gqlgen.GetOperationContext(ctx)
	params := graphql.Params{
		Schema:         e.schema,
		RequestString:  oc.RawQuery,
		VariableValues: oc.Variables,
		OperationName:  oc.OperationName,
		Context:        ctx,
	}

	if oc.Operation == nil || oc.Operation.Operation != ast.Subscription {
		return gqlgen.OneShot(toResponse(graphql.Do(params)))
	}

	results := graphql.Subscribe(params)
	return func(ctx context.Context) *gqlgen.Response {
		select {
		case <-ctx.Done():
			go drain(results)
			return nil
		case res, ok := <-results:
			if !ok {
				return nil
			}
			return toResponse(res)
		}
	}
}

// drain unblocks the executor goroutine of a cancelled subscription.
func drain(results chan *graphql.Result) {
	for range results {
	}
}

func toResponse(res *graphql.Result) *gqlgen.Response {
	resp := &gqlgen.Response{Errors: toErrorList(res.Errors)}
	if res.Data == nil {
		return resp
	}
	data, err := json.Marshal(res.Data)
	if err != nil {
		resp.Errors = append(resp.Errors, gqlerror.Errorf("encode result: %v", err))
		return resp
	}
	resp.Data = data
	return resp
}

func toErrorList(errs []gqlerrors.FormattedError) gqlerror.List {
	if len(errs) == 0 {
		return nil
	}
	return lo.Map(errs, func(fe gqlerrors.FormattedError, _ int) *gqlerror.Error {
		e := &gqlerror.Error{Message: fe.Message, Extensions: fe.Extensions}
		for _, l := range fe.Locations {
			e.Locations = append(e.Locations, gqlerror.Location{Line: l.Line, Column: l.Column})
		}
		for _, p := range fe.Path {
			switch p := p.(type) {
			case string:
				e.Path = append(e.Path, ast.PathName(p))
			case int:
				e.Path = append(e.Path, ast.PathIndex(p))
			}
		}
		return e
	})
}
