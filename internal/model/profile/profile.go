package profile

// Profile carries the onboarding answers used to personalize coaching.
type Profile struct {
	Nickname           string   `json:"nickname"`
	Age                int      `json:"age"`
	Gender             string   `json:"gender"`
	MarriageYears      int      `json:"marriageYears"`
	HasChildren        bool     `json:"hasChildren"`
	RelationshipStatus string   `json:"relationshipStatus"`
	Issues             []string `json:"issues"`
	Goals              []string `json:"goals"`
}
