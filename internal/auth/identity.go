package auth

// Identity is a validated user identity. It is produced once per request by
// the resolver and passed by value; nothing downstream mutates it.
type Identity struct {
	ID   string
	Name string
}
