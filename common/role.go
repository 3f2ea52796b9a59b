package common

import (
	"database/sql/driver"
	"fmt"
	"strings"

	json "github.com/json-iterator/go"
)

// Role is an authorization role. The wire form (JWT claim, stored column) uses
// the tags in roleTags.
type Role int

const (
	RoleUser Role = iota + 1
	RoleAdmin
)

var roleTags = map[Role]string{
	RoleUser:  "ROLE_USER",
	RoleAdmin: "ROLE_ADMIN",
}

func (r Role) String() string {
	if tag, ok := roleTags[r]; ok {
		return tag
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole maps a tag such as "ROLE_ADMIN" (or the bare "ADMIN") to a Role.
func ParseRole(tag string) (Role, error) {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if !strings.HasPrefix(tag, "ROLE_") {
		tag = "ROLE_" + tag
	}
	for role, t := range roleTags {
		if t == tag {
			return role, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, tag)
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	parsed, err := ParseRole(tag)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Roles is stored as a comma-joined list of tags, the same shape the JWT
// roles claim uses.
type Roles []Role

func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

func (rs Roles) Tags() []string {
	tags := make([]string, len(rs))
	for i, r := range rs {
		tags[i] = r.String()
	}
	return tags
}

func (rs Roles) Join() string {
	return strings.Join(rs.Tags(), ",")
}

// ParseRoles splits a comma-joined claim. Empty input yields no roles.
func ParseRoles(joined string) (Roles, error) {
	if strings.TrimSpace(joined) == "" {
		return Roles{}, nil
	}
	parts := strings.Split(joined, ",")
	roles := make(Roles, 0, len(parts))
	for _, p := range parts {
		role, err := ParseRole(p)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (rs Roles) Value() (driver.Value, error) {
	return rs.Join(), nil
}

func (rs *Roles) Scan(src any) error {
	var joined string
	switch v := src.(type) {
	case string:
		joined = v
	case []byte:
		joined = string(v)
	case nil:
		*rs = Roles{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Roles", src)
	}
	parsed, err := ParseRoles(joined)
	if err != nil {
		return err
	}
	*rs = parsed
	return nil
}
