package graphql

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"employee-directory/internal/auth"
	"employee-directory/internal/domain"
	"employee-directory/internal/service"
)

var errInternal = &domain.Error{Kind: "INTERNAL", Message: "internal server error"}

// Resolver is the root of the query and mutation types.
type Resolver struct {
	users            service.UserService
	employees        service.EmployeeService
	protectEmployees bool
	logger           *logrus.Logger
}

type loginArgs struct {
	Email    string
	Password string
}

func (r *Resolver) Login(ctx context.Context, args loginArgs) (*userResolver, error) {
	session, err := r.users.Login(ctx, args.Email, args.Password)
	if err != nil {
		r.logger.WithError(err).Debug("login rejected")
		return nil, r.fail(ctx, "login", err)
	}
	r.logger.WithField("user_id", session.User.ID).Info("login succeeded")
	token := session.Token
	return &userResolver{user: session.User, token: &token}, nil
}

type signupArgs struct {
	Username string
	Email    string
	Password string
}

func (r *Resolver) Signup(ctx context.Context, args signupArgs) (*userResolver, error) {
	user, err := r.users.Signup(ctx, args.Username, args.Email, args.Password)
	if err != nil {
		return nil, r.fail(ctx, "signup", err)
	}
	r.logger.WithField("user_id", user.ID).Info("user signed up")
	return &userResolver{user: user}, nil
}

func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	claims, err := r.users.Authenticate(ctx, auth.AuthorizationFrom(ctx))
	if err != nil {
		return nil, r.fail(ctx, "me", err)
	}
	user, err := r.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, r.fail(ctx, "me", err)
	}
	return &userResolver{user: user}, nil
}

// guard runs the token gate when employee operations are protected.
func (r *Resolver) guard(ctx context.Context) error {
	if !r.protectEmployees {
		return nil
	}
	if _, err := r.users.Authenticate(ctx, auth.AuthorizationFrom(ctx)); err != nil {
		return err
	}
	return nil
}

// fail logs operator-facing failures and strips internal causes from the client error.
func (r *Resolver) fail(ctx context.Context, op string, err error) error {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		r.logger.WithContext(ctx).WithError(err).WithField("op", op).Error("resolver failed")
		return errInternal
	}
	switch derr.Kind {
	case domain.KindStore, domain.KindConfig:
		r.logger.WithContext(ctx).WithError(err).WithField("op", op).Error("resolver failed")
		return &domain.Error{Kind: derr.Kind, Message: derr.Public()}
	}
	if derr.Err != nil {
		return &domain.Error{Kind: derr.Kind, Message: derr.Message}
	}
	return derr
}

type userResolver struct {
	user  *domain.User
	token *string
}

func (u *userResolver) ID() string       { return u.user.ID }
func (u *userResolver) Username() string { return u.user.Username }
func (u *userResolver) Email() string    { return u.user.Email }
func (u *userResolver) Token() *string   { return u.token }
