package user

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Username string `validate:"required"`
}

// CreateUserResponse represents the response payload after creating a user.
type CreateUserResponse struct {
	ID       string
	Username string
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// AddExerciseRequest represents the request payload for logging an exercise.
// Duration and Date arrive in their raw string form.
type AddExerciseRequest struct {
	UserID      string `validate:"required"`
	Description string `validate:"required"`
	Duration    string `validate:"required"`
	Date        string
}

// AddExerciseResponse describes the new exercise merged with its owner's identity.
type AddExerciseResponse struct {
	ID          string
	Username    string
	Description string
	Duration    int
	Date        string
}

// GetExerciseLogRequest represents the request payload for an exercise log.
// Empty From, To and Limit mean no bound.
type GetExerciseLogRequest struct {
	UserID string `validate:"required"`
	From   string
	To     string
	Limit  string
}

// GetExerciseLogResponse represents the filtered exercise log of a user.
type GetExerciseLogResponse struct {
	ID       string
	Username string
	Count    int
	Log      []Exercise
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID        string
	Username  string
	Exercises []Exercise
}

// Exercise represents an exercise DTO with its date already formatted.
type Exercise struct {
	Description string
	Duration    int
	Date        string
}
