package model

// Match is one fixture and its two sides.
type Match struct {
	ID           int64
	Name         string
	HomeTeamID   int64
	HomeTeamName string
	AwayTeamID   int64
	AwayTeamName string
}

// Involves reports whether teamID plays in the match.
func (m Match) Involves(teamID int64) bool {
	return teamID == m.HomeTeamID || teamID == m.AwayTeamID
}

// Sides resolves the display names of teamID's side and of its opponent.
// ok is false when teamID is neither side.
func (m Match) Sides(teamID int64) (own, opponent string, ok bool) {
	switch teamID {
	case m.HomeTeamID:
		return m.HomeTeamName, m.AwayTeamName, true
	case m.AwayTeamID:
		return m.AwayTeamName, m.HomeTeamName, true
	default:
		return "", "", false
	}
}
