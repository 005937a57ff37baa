// Package graphqlapi exposes the auth and feed use cases over GraphQL.
package graphqlapi

import (
	"context"
	"errors"

	"feedline/internal/apperr"
	postPort "feedline/internal/ports/post"
	userPort "feedline/internal/ports/user"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

type AuthUseCase interface {
	RegisterUser(ctx context.Context, email, name, password string) (*userPort.UserDTO, error)
	LoginUser(ctx context.Context, email, password string) (*userPort.LoginResponse, error)
}

type FeedUseCase interface {
	ListPosts(ctx context.Context, page, pageSize int) (*postPort.PostPageDTO, error)
	GetPost(ctx context.Context, postID string) (*postPort.PostDTO, error)
}

type resolver struct {
	auth   AuthUseCase
	feed   FeedUseCase
	logger *zap.Logger
}

var creatorType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Creator",
	Fields: graphql.Fields{
		"_id":  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name": &graphql.Field{Type: graphql.String},
	},
})

var postType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Post",
	Fields: graphql.Fields{
		"_id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"content":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"imageUrl":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"creator":   &graphql.Field{Type: creatorType},
		"createdAt": &graphql.Field{Type: graphql.DateTime},
		"updatedAt": &graphql.Field{Type: graphql.DateTime},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"_id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"status": &graphql.Field{Type: graphql.String},
		"posts":  &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.ID))},
	},
})

var authDataType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthData",
	Fields: graphql.Fields{
		"token":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"userId":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"expiresAt": &graphql.Field{Type: graphql.Int},
	},
})

var postDataType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PostData",
	Fields: graphql.Fields{
		"posts": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType)))},
		"totalPosts": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				page, _ := p.Source.(*postPort.PostPageDTO)
				if page == nil {
					return 0, nil
				}
				return int(page.TotalItems), nil
			},
		},
	},
})

var userInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UserInputData",
	Fields: graphql.InputObjectConfigFieldMap{
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

// NewSchema builds the schema:
//
//	mutation { createUser(userInput: {email, name, password}) { _id email } }
//	query    { login(email, password) { token userId } }
//	query    { posts(page) { posts { _id title } totalPosts } }
//	query    { post(id) { _id title } }
func NewSchema(auth AuthUseCase, feed FeedUseCase, logger *zap.Logger) (graphql.Schema, error) {
	r := &resolver{auth: auth, feed: feed, logger: logger}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authDataType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.login,
			},
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(postDataType),
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
				},
				Resolve: r.posts,
			},
			"post": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.post,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootMutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"userInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInputType)},
				},
				Resolve: r.createUser,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func (r *resolver) createUser(p graphql.ResolveParams) (interface{}, error) {
	in, _ := p.Args["userInput"].(map[string]interface{})
	email, _ := in["email"].(string)
	name, _ := in["name"].(string)
	password, _ := in["password"].(string)

	u, err := r.auth.RegisterUser(p.Context, email, name, password)
	if err != nil {
		return nil, r.fail("createUser", err)
	}
	return u, nil
}

func (r *resolver) login(p graphql.ResolveParams) (interface{}, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	res, err := r.auth.LoginUser(p.Context, email, password)
	if err != nil {
		return nil, r.fail("login", err)
	}
	return res, nil
}

func (r *resolver) posts(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireUser(p.Context); err != nil {
		return nil, r.fail("posts", err)
	}
	page, _ := p.Args["page"].(int)

	res, err := r.feed.ListPosts(p.Context, page, 0)
	if err != nil {
		return nil, r.fail("posts", err)
	}
	return res, nil
}

func (r *resolver) post(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireUser(p.Context); err != nil {
		return nil, r.fail("post", err)
	}
	id, _ := p.Args["id"].(string)

	res, err := r.feed.GetPost(p.Context, id)
	if err != nil {
		return nil, r.fail("post", err)
	}
	return res, nil
}

// fail logs err and returns the client-safe version. graphql-go copies
// Extensions() of the returned error into the response.
func (r *resolver) fail(field string, err error) error {
	status := apperr.StatusOf(err)
	message, data := apperr.Public(err)
	if status >= 500 {
		r.logger.Error("❌ GraphQL resolver failed", zap.String("field", field), zap.Int("status", status), zap.Error(err))
	} else {
		r.logger.Info("GraphQL request rejected", zap.String("field", field), zap.Int("status", status), zap.Error(err))
	}

	kind := apperr.KindTransient
	var e *apperr.Error
	if errors.As(err, &e) {
		kind = e.Kind
	}
	return &apperr.Error{Kind: kind, Status: status, Message: message, Data: data}
}
