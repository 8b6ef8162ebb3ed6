package services

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"
)

// DirectoryUser is the shape the user-directory service returns.
type DirectoryUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type userByEmailResponse struct {
	User DirectoryUser `json:"userByEmail"`
}

// UserDirectory resolves share invitations against the external GraphQL
// user service. It is optional; when unconfigured the server falls back
// to its local users table.
type UserDirectory struct {
	client  *graphql.Client
	baseURL string
}

// NewUserDirectory creates a new user directory client
func NewUserDirectory(baseURL string) *UserDirectory {
	return &UserDirectory{
		client:  graphql.NewClient(baseURL),
		baseURL: baseURL,
	}
}

// GetUserByEmail resolves an email address to a directory user.
func (s *UserDirectory) GetUserByEmail(ctx context.Context, email string) (*DirectoryUser, error) {
	req := graphql.NewRequest(`
        query GetUserByEmail($email: String!) {
            userByEmail(email: $email) {
                userId
                username
                email
            }
        }
    `)
	req.Var("email", email)

	var response userByEmailResponse
	if err := s.client.Run(ctx, req, &response); err != nil {
		return nil, fmt.Errorf("failed to query user directory: %w", err)
	}

	if response.User.UserID == "" {
		return nil, fmt.Errorf("no directory user with email %s", email)
	}

	return &response.User, nil
}
