package graphql

import (
	_ "embed"
	"fmt"

	"github.com/graphql-go/graphql"
)

// SDL is the schema in SDL form, kept for clients and tooling.
//
//go:embed schema.graphqls
var SDL string

const (
	directionAsc  = "asc"
	directionDesc = "desc"
)

// NewSchema builds the executable schema on top of r.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	field := func(fn graphql.FieldResolveFn, ics ...Interceptor) graphql.FieldResolveFn {
		return Chain(fn, append([]Interceptor{presentErrors}, ics...)...)
	}

	orderDirection := graphql.NewEnum(graphql.EnumConfig{
		Name: "OrderDirection",
		Values: graphql.EnumValueConfigMap{
			directionAsc:  &graphql.EnumValueConfig{Value: directionAsc},
			directionDesc: &graphql.EnumValueConfig{Value: directionDesc},
		},
	})

	postOrderField := graphql.NewEnum(graphql.EnumConfig{
		Name: "PostOrderField",
		Values: graphql.EnumValueConfigMap{
			"id":        &graphql.EnumValueConfig{Value: "id"},
			"createdAt": &graphql.EnumValueConfig{Value: "createdAt"},
			"updatedAt": &graphql.EnumValueConfig{Value: "updatedAt"},
			"published": &graphql.EnumValueConfig{Value: "published"},
			"title":     &graphql.EnumValueConfig{Value: "title"},
			"content":   &graphql.EnumValueConfig{Value: "content"},
		},
	})

	postOrder := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PostOrder",
		Fields: graphql.InputObjectConfigFieldMap{
			"field":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(postOrderField)},
			"direction": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(orderDirection)},
		},
	})

	createPostInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreatePostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"content": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"firstname": &graphql.Field{Type: graphql.String},
			"lastname":  &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"content":   &graphql.Field{Type: graphql.String},
			"published": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"authorId":  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"author":    &graphql.Field{Type: userType, Resolve: field(r.postAuthor)},
		},
	})

	likeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Like",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"userId":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"postId":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"user":      &graphql.Field{Type: userType, Resolve: field(r.likeUser)},
		},
	})

	likeCountType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LikeCount",
		Fields: graphql.Fields{
			"likeCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	pageInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"hasNextPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"hasPreviousPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"startCursor":     &graphql.Field{Type: graphql.String},
			"endCursor":       &graphql.Field{Type: graphql.String},
		},
	})

	postConnection := connectionType("Post", postType, pageInfoType)
	likeConnection := connectionType("Like", likeType, pageInfoType)

	pageArgs := func(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
		args := graphql.FieldConfigArgument{
			"after":  &graphql.ArgumentConfig{Type: graphql.String},
			"before": &graphql.ArgumentConfig{Type: graphql.String},
			"first":  &graphql.ArgumentConfig{Type: graphql.Int},
			"last":   &graphql.ArgumentConfig{Type: graphql.Int},
		}
		for k, v := range extra {
			args[k] = v
		}
		return args
	}
	postIDArg := graphql.FieldConfigArgument{
		"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"post": &graphql.Field{
				Type:    graphql.NewNonNull(postType),
				Args:    postIDArg,
				Resolve: field(r.post),
			},
			"publishedPosts": &graphql.Field{
				Type: graphql.NewNonNull(postConnection),
				Args: pageArgs(graphql.FieldConfigArgument{
					"query":   &graphql.ArgumentConfig{Type: graphql.String},
					"orderBy": &graphql.ArgumentConfig{Type: postOrder},
				}),
				Resolve: field(r.publishedPosts),
			},
			"userPosts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType))),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: field(r.userPosts),
			},
			"getPostLikes": &graphql.Field{
				Type:    graphql.NewNonNull(likeConnection),
				Args:    pageArgs(postIDArg),
				Resolve: field(r.postLikes),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createPost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createPostInput)},
				},
				Resolve: field(r.createPost, requireUser),
			},
			"likePost": &graphql.Field{
				Type:    graphql.NewNonNull(likeCountType),
				Args:    postIDArg,
				Resolve: field(r.likePost, requireUser),
			},
			"unLikePost": &graphql.Field{
				Type:    graphql.NewNonNull(likeCountType),
				Args:    postIDArg,
				Resolve: field(r.unlikePost, requireUser),
			},
		},
	})

	subscription := graphql.NewObject(graphql.ObjectConfig{
		Name: "Subscription",
		Fields: graphql.Fields{
			"postCreated": &graphql.Field{
				Type:      graphql.NewNonNull(postType),
				Subscribe: field(r.subscribePostCreated),
				Resolve:   sourceNode,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:        query,
		Mutation:     mutation,
		Subscription: subscription,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("build graphql schema: %w", err)
	}
	return schema, nil
}

func connectionType(name string, node *graphql.Object, pageInfo *graphql.Object) *graphql.Object {
	edge := graphql.NewObject(graphql.ObjectConfig{
		Name: name + "Edge",
		Fields: graphql.Fields{
			"cursor": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"node":   &graphql.Field{Type: graphql.NewNonNull(node)},
		},
	})
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name + "Connection",
		Fields: graphql.Fields{
			"edges":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(edge)))},
			"totalCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"pageInfo":   &graphql.Field{Type: graphql.NewNonNull(pageInfo)},
		},
	})
}
