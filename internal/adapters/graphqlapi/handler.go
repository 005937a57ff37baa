package graphqlapi

import (
	"context"
	"encoding/json"
	"net/http"

	"feedline/internal/adapters/httpapi/middleware"
	"feedline/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

type ctxKey struct{}

type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

func withUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func requireUser(ctx context.Context) (string, error) {
	id, _ := ctx.Value(ctxKey{}).(string)
	if id == "" {
		return "", apperr.InvalidToken("Not authenticated.", nil)
	}
	return id, nil
}

// Handler runs GraphQL requests from POST bodies or GET query parameters.
// It expects middleware.OptionalAuth to have run first.
func Handler(schema graphql.Schema, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req request
		if c.Request.Method == http.MethodGet {
			req.Query = c.Query("query")
			req.OperationName = c.Query("operationName")
			if v := c.Query("variables"); v != "" {
				if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
					middleware.RespondError(c, logger, apperr.Validation("Invalid variables.", nil))
					return
				}
			}
		} else if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondError(c, logger, apperr.Validation("Invalid GraphQL request.", nil))
			return
		}
		if req.Query == "" {
			middleware.RespondError(c, logger, apperr.Validation("Missing query.", nil))
			return
		}

		ctx := c.Request.Context()
		if userID, ok := middleware.UserID(c); ok {
			ctx = withUser(ctx, userID)
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        ctx,
		})
		c.JSON(http.StatusOK, result)
	}
}
