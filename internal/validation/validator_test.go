package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "mesto/internal/errors"
)

func TestLinkPattern(t *testing.T) {
	valid := []string{
		"http://x.com/c.png",
		"https://www.example.org/images/cat.jpg",
		"https://pictures.s3.amazonaws.com/a%20b.png?v2",
		"http://example.com#",
	}
	invalid := []string{
		"",
		"x.com/c.png",
		"ftp://x.com/c.png",
		"http://localhost",
		"javascript:alert(1)",
		"https://exa mple.com/a.png",
	}

	for _, s := range valid {
		assert.True(t, LinkPattern.MatchString(s), s)
	}
	for _, s := range invalid {
		assert.False(t, LinkPattern.MatchString(s), s)
	}
}

type sample struct {
	ID    string `param:"id" validate:"required,objectid"`
	Link  string `json:"link" validate:"required,link"`
	Title string `json:"title" validate:"required,min=2,max=30"`
}

func TestValidate(t *testing.T) {
	v := New()

	err := v.Validate(&sample{ID: "5f8d0d55b54764421b7156c1", Link: "http://x.com/c.png", Title: "Cat"})
	assert.NoError(t, err)

	err = v.Validate(&sample{ID: "123", Link: "not a link", Title: "C"})
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	_, body := apperrors.MapErrorToHTTP(err)
	assert.Contains(t, body.Message, "id must be a 24-character hexadecimal identifier")
	assert.Contains(t, body.Message, "link must be a valid http(s) link")
	assert.Contains(t, body.Message, "title must be at least 2 characters in length")
}

func TestValidateRequired(t *testing.T) {
	err := New().Validate(&sample{})
	_, body := apperrors.MapErrorToHTTP(err)
	assert.Contains(t, body.Message, "link is a required field")
	assert.Contains(t, body.Message, "id is a required field")
}
