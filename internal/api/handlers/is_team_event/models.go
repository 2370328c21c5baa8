package is_team_event

// IsTeamEventResponse HTTP ответ
type IsTeamEventResponse struct {
	IsTeamEvent bool `json:"isTeamEvent"`
}
