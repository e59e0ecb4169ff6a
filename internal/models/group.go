package models

// SplitGroup is a named group of users who split expenses together.
type SplitGroup struct {
	// SplitGroupID is globally unique and monotonically assigned.
	SplitGroupID int64 `json:"splitGroupId"`

	// Name is the display name of the group (e.g. "Roommates").
	Name string `json:"name"`

	// Members is the list of member user IDs.
	Members []int64 `json:"members"`

	// CreatedAt is the Unix millisecond timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix millisecond timestamp of the last update.
	UpdatedAt int64 `json:"updatedAt"`
}

// HasMember reports whether userID is in the group's member list.
func (g *SplitGroup) HasMember(userID int64) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// SplitGroupView is a group with member IDs resolved to display names.
type SplitGroupView struct {
	SplitGroupID int64    `json:"splitGroupId"`
	Name         string   `json:"name"`
	Members      []Member `json:"members"`
	CreatedAt    int64    `json:"createdAt"`
	UpdatedAt    int64    `json:"updatedAt"`
}
