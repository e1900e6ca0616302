package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranscriptRejectsBadGrades(t *testing.T) {
	_, err := NewTranscript("s1", []SubjectGrade{{Subject: "Math", Grade: 101}})
	assert.Error(t, err)

	_, err = NewTranscript("s1", []SubjectGrade{{Subject: "Math", Grade: 50}, {Subject: "math", Grade: 60}})
	assert.Error(t, err)

	_, err = NewTranscript("s1", nil)
	assert.Error(t, err)
}

func TestTranscriptAverage(t *testing.T) {
	tr, err := NewTranscript("s1", []SubjectGrade{
		{Subject: "Math", Grade: 80},
		{Subject: "Physics", Grade: 60},
		{Subject: "English", Grade: 70},
	})
	require.NoError(t, err)

	avg, ok := tr.Average(nil)
	require.True(t, ok)
	assert.InDelta(t, 70.0, avg, 0.001)

	avg, ok = tr.Average([]string{"math", "PHYSICS"})
	require.True(t, ok)
	assert.InDelta(t, 70.0, avg, 0.001)

	_, ok = tr.Average([]string{"Chemistry"})
	assert.False(t, ok)
}

func TestTranscriptQualify(t *testing.T) {
	tr := &Transcript{Grades: []SubjectGrade{{Subject: "Math", Grade: 90}, {Subject: "Art", Grade: 40}}}

	tests := []struct {
		name      string
		req       Requirements
		qualified bool
		missing   []string
	}{
		{"overall average passes", Requirements{MinimumGrade: 65}, true, nil},
		{"overall average fails", Requirements{MinimumGrade: 70}, false, nil},
		{"required subject passes", Requirements{Subjects: []string{"Math"}, MinimumGrade: 85}, true, nil},
		{"missing subject", Requirements{Subjects: []string{"Math", "Biology"}, MinimumGrade: 10}, false, []string{"Biology"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tr.Qualify(&Course{Requirements: tt.req})
			assert.Equal(t, tt.qualified, q.Qualified)
			assert.Equal(t, tt.missing, q.MissingSubjects)
		})
	}
}
