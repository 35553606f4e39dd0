// Package model defines the data structures shared by every layer: the
// snippet document, the request shapes that create and patch it, the fixed
// category set and the user account.
package model

import (
	"net/url"
	"strings"
	"time"
)

// DefaultUserName is stored when a snippet is posted without a display name.
const DefaultUserName = "Anonymous"

// avatarURLTemplate is the DiceBear endpoint used to derive an avatar from a name.
const avatarURLTemplate = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// Snippet represents a saved code snippet.
//
// The `json:"..."` tags define the wire format. Field names are camelCase
// because the web client reads them directly.
//
// NULLABLE FIELDS:
// UserID and UserAvatar are pointers so they serialise as JSON null when absent,
// instead of an empty string. An anonymous post has no poster identity at all.
type Snippet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Category    Category  `json:"category"`
	Tags        []string  `json:"tags"`
	UseCase     string    `json:"useCase"`
	UserID      *string   `json:"userId"`
	UserName    string    `json:"userName"`
	UserAvatar  *string   `json:"userAvatar"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SnippetInput is the body of a create request.
// Identity fields are supplied by the caller and are not verified.
type SnippetInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Category    Category `json:"category"`
	Tags        []string `json:"tags"`
	UseCase     string   `json:"useCase"`
	UserID      string   `json:"userId"`
	UserName    string   `json:"userName"`
}

// SnippetPatch is the body of an update request.
//
// Every field is a pointer: nil means "not present in the request".
// How a present field is applied depends on the field, see
// service.SnippetService.Update.
type SnippetPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Code        *string   `json:"code"`
	Category    *Category `json:"category"`
	Tags        *[]string `json:"tags"`
	UseCase     *string   `json:"useCase"`
}

// NormalizeTags trims every tag and drops the empty ones.
// It never returns nil, so an empty tag list serialises as [] rather than null.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// AvatarURL derives the avatar for a display name.
// It returns nil when no name was supplied.
func AvatarURL(userName string) *string {
	if userName == "" {
		return nil
	}
	u := avatarURLTemplate + url.QueryEscape(userName)
	return &u
}
