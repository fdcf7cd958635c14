package perception

import (
	"fmt"
	"strings"
)

// Role is a lane assignment.
type Role string

const (
	RoleTop     Role = "top"
	RoleJungle  Role = "jungle"
	RoleMid     Role = "mid"
	RoleBot     Role = "bot"
	RoleSupport Role = "support"
)

// RoleInfo pairs a role with its display label.
type RoleInfo struct {
	ID    Role   `json:"id"`
	Label string `json:"label"`
}

var roles = []RoleInfo{
	{RoleTop, "Top Lane"},
	{RoleJungle, "Jungle"},
	{RoleMid, "Mid Lane"},
	{RoleBot, "Bot (ADC)"},
	{RoleSupport, "Support"},
}

// Roles lists every role in lane order.
func Roles() []RoleInfo {
	out := make([]RoleInfo, len(roles))
	copy(out, roles)
	return out
}

// ParseRole accepts a role id or label, case-insensitively.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, r := range roles {
		if strings.EqualFold(s, string(r.ID)) || strings.EqualFold(s, r.Label) {
			return r.ID, nil
		}
	}
	return "", fmt.Errorf("unknown role %q (want one of top, jungle, mid, bot, support)", s)
}

// Label returns the display label, or the raw id for unknown roles.
func (r Role) Label() string {
	for _, info := range roles {
		if info.ID == r {
			return info.Label
		}
	}
	return string(r)
}

// Matchup is one analysis request: the player's champion, the lane
// opponent and the role.
type Matchup struct {
	Champion string `json:"champion"`
	Opponent string `json:"opponent"`
	Role     Role   `json:"role"`
}

// Validate trims the names and normalizes the role in place.
func (m *Matchup) Validate() error {
	m.Champion = strings.TrimSpace(m.Champion)
	m.Opponent = strings.TrimSpace(m.Opponent)
	if m.Champion == "" {
		return fmt.Errorf("champion is required")
	}
	if m.Opponent == "" {
		return fmt.Errorf("opponent is required")
	}
	role, err := ParseRole(string(m.Role))
	if err != nil {
		return err
	}
	m.Role = role
	return nil
}

func (m Matchup) String() string {
	return fmt.Sprintf("%s vs %s (%s)", m.Champion, m.Opponent, m.Role)
}
