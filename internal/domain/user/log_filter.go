package user

// LogFilter narrows a user's exercise log. Nil bounds are open.
type LogFilter struct {
	From  *Date // inclusive lower bound
	To    *Date // inclusive upper bound
	Limit *int  // maximum number of entries kept after date filtering
}

// Log returns the user's exercises that pass f, in insertion order.
// The date bounds are applied first and the limit last.
func (u *User) Log(f LogFilter) []Exercise {
	log := make([]Exercise, 0, len(u.Exercises))
	for _, e := range u.Exercises {
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && e.Date.After(*f.To) {
			continue
		}
		log = append(log, e)
	}

	if f.Limit != nil && *f.Limit >= 0 && *f.Limit < len(log) {
		log = log[:*f.Limit]
	}

	return log
}
