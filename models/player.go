package models

// TeamUnsold is the sentinel team value for players nobody bought.
// Unsold players always carry a sold amount of 0.
const TeamUnsold = "Unsold"

type PlayerRole string

const (
	RoleBatter       PlayerRole = "Batter"
	RoleBowler       PlayerRole = "Bowler"
	RoleAllrounder   PlayerRole = "Allrounder"
	RoleWicketkeeper PlayerRole = "Wicketkeeper"
)

func (r PlayerRole) Valid() bool {
	switch r {
	case RoleBatter, RoleBowler, RoleAllrounder, RoleWicketkeeper:
		return true
	}
	return false
}

type Nationality string

const (
	NationalityIndian  Nationality = "Indian"
	NationalityForeign Nationality = "Foreign"
)

func (n Nationality) Valid() bool {
	return n == NationalityIndian || n == NationalityForeign
}

const (
	RatingMin = 0
	RatingMax = 100
)

type Player struct {
	ID          int         `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	SoldAmount  int         `json:"sold_amount" db:"sold_amount"` // lakhs
	Rating      int         `json:"rating" db:"rating"`
	TeamBought  string      `json:"team_bought" db:"team_bought"`
	Role        PlayerRole  `json:"role" db:"role"`
	Nationality Nationality `json:"nationality" db:"nationality"`
}

// Sold reports whether the player is assigned to a team.
func (p Player) Sold() bool {
	return p.TeamBought != TeamUnsold
}
