package profile

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Profile is a candidate as the matching core sees it. Profiles are owned
// and mutated by the platform's profile service; this package only reads them.
type Profile struct {
	ID         uuid.UUID
	Username   string
	FullName   string
	Skills     []string
	Interests  []string
	Bio        string
	Experience string
	College    string

	// RawProjects holds the self-reported project history exactly as stored
	// (a JSON-encoded text column). Use ProjectHistory to read it.
	RawProjects string
}

// HistoryProject is one entry of a candidate's self-reported project history.
type HistoryProject struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type versionedHistory struct {
	Version  int              `json:"version"`
	Projects []HistoryProject `json:"projects"`
}

// ProjectHistory parses RawProjects. Two encodings exist in the wild: a bare
// JSON array (legacy) and a versioned envelope {"version":1,"projects":[...]}.
// Anything unparseable degrades to an empty history.
func (p Profile) ProjectHistory() []HistoryProject {
	raw := strings.TrimSpace(p.RawProjects)
	if raw == "" {
		return nil
	}

	var env versionedHistory
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Version >= 1 {
		return env.Projects
	}

	var legacy []HistoryProject
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		return nil
	}
	return legacy
}

// DisplayName prefers the full name and falls back to the username.
func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	return strings.TrimSpace(p.Username)
}
