package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jaekwang-park/agenda-api/internal/model"
	"github.com/jaekwang-park/agenda-api/internal/service"
)

func TestUserService_ResolveUserID(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		repoErr error
		wantID  string
		wantErr string
	}{
		{name: "existing or new user", subject: "sub-1", wantID: "user-1"},
		{name: "empty subject", subject: "", wantErr: "invalid input"},
		{name: "repo error", subject: "sub-1", repoErr: errors.New("db down"), wantErr: "failed to resolve user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{
				getOrCreateFn: func(ctx context.Context, subject string) (model.User, error) {
					if tt.repoErr != nil {
						return model.User{}, tt.repoErr
					}
					return model.User{ID: "user-1", Subject: subject}, nil
				},
			}
			got, err := service.NewUserService(repo).ResolveUserID(context.Background(), tt.subject)

			if tt.wantErr != "" {
				if err == nil || !containsStr(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantID {
				t.Errorf("expected %s, got %s", tt.wantID, got)
			}
		})
	}
}
