package project

import "github.com/google/uuid"

type Project struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Title          string
	Description    string
	RequiredSkills []string
}

// Summary is the slice of a project the matching core feeds into pair
// analysis: title, description, and optional tags.
type Summary struct {
	Title       string
	Description string
	Tags        []string
}
