package user

import "context"

// Usecase defines the interface for user and exercise log operations.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error)
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
	AddExercise(ctx context.Context, in AddExerciseRequest) (*AddExerciseResponse, error)
	GetExerciseLog(ctx context.Context, in GetExerciseLogRequest) (*GetExerciseLogResponse, error)
}
