package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Joke is a single random joke record.
type Joke struct {
	Categories []string `json:"categories,omitempty"`
	CreatedAt  string   `json:"created_at"`
	IconURL    string   `json:"icon_url"`
	ID         string   `json:"id"`
	UpdatedAt  string   `json:"updated_at"`
	URL        string   `json:"url"`
	Value      string   `json:"value"`
}

// Comment is a single user comment.
type Comment struct {
	PostID int    `json:"postId"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// missingFieldError reports a required JSON key absent from a payload.
type missingFieldError struct {
	Type  string
	Field string
}

func (e *missingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Type, e.Field)
}

// UnmarshalJSON decodes a joke, rejecting payloads that omit a required key.
// Categories is the only optional key. Unknown keys are ignored.
func (j *Joke) UnmarshalJSON(data []byte) error {
	var wire struct {
		Categories []string `json:"categories"`
		CreatedAt  *string  `json:"created_at"`
		IconURL    *string  `json:"icon_url"`
		ID         *string  `json:"id"`
		UpdatedAt  *string  `json:"updated_at"`
		URL        *string  `json:"url"`
		Value      *string  `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	required := []struct {
		name string
		ptr  *string
	}{
		{"created_at", wire.CreatedAt},
		{"icon_url", wire.IconURL},
		{"id", wire.ID},
		{"updated_at", wire.UpdatedAt},
		{"url", wire.URL},
		{"value", wire.Value},
	}
	for _, f := range required {
		if f.ptr == nil {
			return &missingFieldError{Type: "joke", Field: f.name}
		}
	}
	*j = Joke{
		Categories: wire.Categories,
		CreatedAt:  *wire.CreatedAt,
		IconURL:    *wire.IconURL,
		ID:         *wire.ID,
		UpdatedAt:  *wire.UpdatedAt,
		URL:        *wire.URL,
		Value:      *wire.Value,
	}
	return nil
}

// UnmarshalJSON decodes a comment, rejecting payloads that omit any key.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var wire struct {
		PostID *int    `json:"postId"`
		ID     *int    `json:"id"`
		Name   *string `json:"name"`
		Email  *string `json:"email"`
		Body   *string `json:"body"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.PostID == nil:
		return &missingFieldError{Type: "comment", Field: "postId"}
	case wire.ID == nil:
		return &missingFieldError{Type: "comment", Field: "id"}
	case wire.Name == nil:
		return &missingFieldError{Type: "comment", Field: "name"}
	case wire.Email == nil:
		return &missingFieldError{Type: "comment", Field: "email"}
	case wire.Body == nil:
		return &missingFieldError{Type: "comment", Field: "body"}
	}
	*c = Comment{
		PostID: *wire.PostID,
		ID:     *wire.ID,
		Name:   *wire.Name,
		Email:  *wire.Email,
		Body:   *wire.Body,
	}
	return nil
}

// ErrNullPayload is returned when a body decodes to JSON null.
var ErrNullPayload = errors.New("payload is null")

// DecodeJoke parses a joke body.
func DecodeJoke(data []byte) (Joke, error) {
	var j *Joke
	if err := json.Unmarshal(data, &j); err != nil {
		return Joke{}, err
	}
	if j == nil {
		return Joke{}, ErrNullPayload
	}
	return *j, nil
}

// DecodeComments parses a comment list body. An empty list is valid.
func DecodeComments(data []byte) ([]Comment, error) {
	var list []Comment
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrNullPayload
	}
	return list, nil
}
