package twitter

type User struct {
	Name     string
	Handle   string
	PhotoURL string
}

type Tweet struct {
	ID     string
	Author string
	Text   string
}
