// Package forms validates user input for posts and comments. Validators
// return a field->message map instead of failing with errors; an empty map
// means the input is acceptable.
package forms

import (
	"fmt"
	"image"
	"io"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const minPostLen = 10

type Errors map[string]string

func (e Errors) Ok() bool { return len(e) == 0 }

// PostForm carries the cleaned input of the new/edit post form.
type PostForm struct {
	Text    string
	GroupID *int64
}

// GroupSelected reports whether the form points at the given group, for
// marking the selected option when re-rendering.
func (f PostForm) GroupSelected(id int64) bool {
	return f.GroupID != nil && *f.GroupID == id
}

func ValidatePost(text string) (PostForm, Errors) {
	errs := Errors{}
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minPostLen {
		errs["text"] = fmt.Sprintf("Post is too short, need at least %d characters", minPostLen)
	}
	return PostForm{Text: text}, errs
}

func ValidateComment(text string) (string, Errors) {
	errs := Errors{}
	text = strings.TrimSpace(text)
	if text == "" {
		errs["text"] = "Comment text is required"
	}
	return text, errs
}

// ValidateImage checks that the upload decodes as a known image format and
// returns the format name ("png", "jpeg", "gif") for the stored filename.
func ValidateImage(r io.Reader) (string, error) {
	_, format, err := image.DecodeConfig(r)
	if err != nil {
		return "", fmt.Errorf("not a valid image: %w", err)
	}
	return format, nil
}
