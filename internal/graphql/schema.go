// Package graphql exposes the directory services as a GraphQL schema.
package graphql

import (
	_ "embed"
	"fmt"

	gographql "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"

	"employee-directory/internal/service"
)

//go:embed schema.graphql
var schemaSDL string

const maxQueryDepth = 10

// Options configures the resolvers.
type Options struct {
	// ProtectEmployees requires a valid bearer token on every employee operation.
	ProtectEmployees bool
	Logger           *logrus.Logger
}

// NewSchema parses the schema and binds it to resolvers backed by the services.
func NewSchema(users service.UserService, employees service.EmployeeService, opts Options) (*gographql.Schema, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	root := &Resolver{
		users:            users,
		employees:        employees,
		protectEmployees: opts.ProtectEmployees,
		logger:           opts.Logger,
	}
	schema, err := gographql.ParseSchema(schemaSDL, root, gographql.MaxDepth(maxQueryDepth))
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}
	return schema, nil
}
