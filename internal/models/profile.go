package models

// ProfileField names a user-editable profile column.
type ProfileField string

const (
	ProfilePortfolio      ProfileField = "portfolio"
	ProfileTimezone       ProfileField = "timezone"
	ProfileStorefrontLink ProfileField = "storefront_link"
	ProfileDescription    ProfileField = "description"
)

// ProfileFields lists every editable field in display order.
var ProfileFields = []ProfileField{ProfilePortfolio, ProfileTimezone, ProfileStorefrontLink, ProfileDescription}

func (f ProfileField) Valid() bool {
	for _, v := range ProfileFields {
		if v == f {
			return true
		}
	}
	return false
}

type Profile struct {
	MemberID       int64  `json:"member_id"`
	Portfolio      string `json:"portfolio"`
	Timezone       string `json:"timezone"`
	StorefrontLink string `json:"storefront_link"`
	Description    string `json:"description"`
}

// Get returns the value of one field.
func (p *Profile) Get(f ProfileField) string {
	switch f {
	case ProfilePortfolio:
		return p.Portfolio
	case ProfileTimezone:
		return p.Timezone
	case ProfileStorefrontLink:
		return p.StorefrontLink
	case ProfileDescription:
		return p.Description
	}
	return ""
}

// Set assigns one field; unknown fields are ignored.
func (p *Profile) Set(f ProfileField, v string) {
	switch f {
	case ProfilePortfolio:
		p.Portfolio = v
	case ProfileTimezone:
		p.Timezone = v
	case ProfileStorefrontLink:
		p.StorefrontLink = v
	case ProfileDescription:
		p.Description = v
	}
}
