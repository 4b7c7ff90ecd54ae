package user

// User represents a tracked individual and the exercises logged against them.
type User struct {
	ID        string     // ID is the store-assigned opaque identifier
	Username  string     // Username is not required to be unique
	Exercises []Exercise // Exercises in insertion order
}

// Exercise is a single logged activity. It belongs to exactly one User.
type Exercise struct {
	Description string
	Duration    int // minutes
	Date        Date
}

