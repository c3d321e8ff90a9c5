package discord

type Member struct {
	ID    string
	Roles []string
}

type Role struct {
	ID   string
	Name string
}
