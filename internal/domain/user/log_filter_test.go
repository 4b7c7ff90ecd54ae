package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleUser() *User {
	return &User{ID: "u1", Username: "bob", Exercises: []Exercise{
		{Description: "run", Duration: 30, Date: NewDate(2024, time.January, 1)},
		{Description: "swim", Duration: 45, Date: NewDate(2024, time.January, 15)},
		{Description: "bike", Duration: 60, Date: NewDate(2024, time.February, 1)},
	}}
}

func datePtr(d Date) *Date { return &d }

func intPtr(i int) *int { return &i }

func TestUser_Log(t *testing.T) {
	tests := []struct {
		name   string
		filter LogFilter
		want   []string
	}{
		{
			name: "no filter keeps insertion order",
			want: []string{"run", "swim", "bike"},
		},
		{
			name: "from and to",
			filter: LogFilter{
				From: datePtr(NewDate(2024, time.January, 10)),
				To:   datePtr(NewDate(2024, time.January, 31)),
			},
			want: []string{"swim"},
		},
		{
			name:   "bounds are inclusive",
			filter: LogFilter{From: datePtr(NewDate(2024, time.January, 15)), To: datePtr(NewDate(2024, time.February, 1))},
			want:   []string{"swim", "bike"},
		},
		{
			name:   "limit keeps first entries",
			filter: LogFilter{Limit: intPtr(1)},
			want:   []string{"run"},
		},
		{
			name:   "limit applies after date filter",
			filter: LogFilter{From: datePtr(NewDate(2024, time.January, 2)), Limit: intPtr(1)},
			want:   []string{"swim"},
		},
		{
			name:   "zero limit",
			filter: LogFilter{Limit: intPtr(0)},
			want:   []string{},
		},
		{
			name:   "limit larger than log",
			filter: LogFilter{Limit: intPtr(10)},
			want:   []string{"run", "swim", "bike"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleUser().Log(tt.filter)

			descriptions := make([]string, 0, len(got))
			for _, e := range got {
				descriptions = append(descriptions, e.Description)
			}
			assert.Equal(t, tt.want, descriptions)
		})
	}
}

func TestUser_Log_DoesNotMutate(t *testing.T) {
	u := sampleUser()
	_ = u.Log(LogFilter{Limit: intPtr(1)})

	assert.Len(t, u.Exercises, 3)
}
