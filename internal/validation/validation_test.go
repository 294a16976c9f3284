package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPost(t *testing.T) {
	tt := []struct {
		name string
		text string

		errs Errors
	}{
		{
			name: "valid",
			text: "Hello world",
			errs: Errors{},
		},
		{
			name: "min length",
			text: "hi",
			errs: Errors{},
		},
		{
			name: "max length",
			text: strings.Repeat("a", 300),
			errs: Errors{},
		},
		{
			name: "empty",
			text: "",
			errs: Errors{"text": "Text field is required"},
		},
		{
			name: "whitespace only",
			text: "   ",
			errs: Errors{"text": "Text field is required"},
		},
		{
			name: "too short",
			text: "a",
			errs: Errors{"text": "Post must be between 2 and 300 characters"},
		},
		{
			name: "too long",
			text: strings.Repeat("a", 301),
			errs: Errors{"text": "Post must be between 2 and 300 characters"},
		},
		{
			name: "length counts runes",
			text: strings.Repeat("й", 300),
			errs: Errors{},
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			errs := Post(tc.text)

			assert.Equal(t, tc.errs, errs)
			assert.Equal(t, len(tc.errs) == 0, errs.Valid())
		})
	}
}

func TestComment(t *testing.T) {
	assert.Equal(t, Errors{}, Comment("nice post"))
	assert.Equal(t, Errors{"text": "Comment must be between 2 and 300 characters"}, Comment("a"))
	assert.Equal(t, Errors{"text": "Comment must be between 2 and 300 characters"}, Comment(strings.Repeat("a", 301)))
	assert.Equal(t, Errors{"text": "Text comment field is required"}, Comment(""))
}

func TestProfile(t *testing.T) {
	assert.Equal(t, Errors{}, Profile("johndoe"))
	assert.Equal(t, Errors{"handle": "Handle must be between 2 and 40 characters"}, Profile("j"))
	assert.Equal(t, Errors{"handle": "Handle must be between 2 and 40 characters"}, Profile(strings.Repeat("j", 41)))
	assert.Equal(t, Errors{"handle": "Handle field is required"}, Profile(""))
}
