package model

// Dataset is the subset of a catalog package the request engine needs.
// Maintainer holds the raw maintainer field, a comma separated list of user ids or emails.
type Dataset struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Title         string `json:"title"`
	OwnerOrg      string `json:"owner_org"`
	CreatorUserID string `json:"creator_user_id"`
	Maintainer    string `json:"maintainer"`
}

// Member is a user's membership in an organization.
type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity string `json:"capacity"`
}

// Organization is a catalog organization with its members.
type Organization struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Title string   `json:"title"`
	Users []Member `json:"users"`
}

// MemberIDsWithCapacity returns the ids of members holding the given capacity.
func (o *Organization) MemberIDsWithCapacity(capacity string) []string {
	ids := make([]string, 0)
	for _, u := range o.Users {
		if u.Capacity == capacity {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

// Identity is a user record from the identity directory.
type Identity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Sysadmin bool   `json:"sysadmin"`
}

// DisplayName prefers the full name and falls back to the user name.
func (i *Identity) DisplayName() string {
	if i.Fullname != "" {
		return i.Fullname
	}
	return i.Name
}
