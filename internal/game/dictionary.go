package game

// Dictionary decides word validity. The real word list lives outside the
// core; this is the seam it plugs into.
type Dictionary interface {
	IsValidWord(word string) bool
}

// AllowAll accepts every word. It is the default until a word list is wired in.
type AllowAll struct{}

// IsValidWord always returns true.
func (AllowAll) IsValidWord(string) bool { return true }
