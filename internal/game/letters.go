package game

import "math/rand"

// Letter is a single tile face, "A".."Z" or Blank.
type Letter string

// Blank is the wildcard tile. It scores zero.
const Blank Letter = "_"

type letterInfo struct {
	count int
	value int
}

// letterTable is the standard English distribution: 100 tiles total,
// including two blanks.
var letterTable = map[Letter]letterInfo{
	"E": {12, 1}, "A": {9, 1}, "I": {9, 1}, "O": {8, 1},
	"N": {6, 1}, "R": {6, 1}, "T": {6, 1},
	"L": {4, 1}, "S": {4, 1}, "U": {4, 1},
	"D": {4, 2}, "G": {3, 2},
	"B": {2, 3}, "C": {2, 3}, "M": {2, 3}, "P": {2, 3},
	"F": {2, 4}, "H": {2, 4}, "V": {2, 4}, "W": {2, 4}, "Y": {2, 4},
	"K": {1, 5},
	"J": {1, 8}, "X": {1, 8},
	"Q": {1, 10}, "Z": {1, 10},
	Blank: {2, 0},
}

// PouchSize is the total number of tiles in a fresh pouch.
const PouchSize = 100

// HandSize is the number of tiles a hand is topped up to.
const HandSize = 7

// LetterValue returns the point value of a tile.
func LetterValue(l Letter) int {
	return letterTable[l].value
}

// NewPouch builds the full 100-tile multiset in table order.
// Callers shuffle before drawing.
func NewPouch() []Letter {
	pouch := make([]Letter, 0, PouchSize)
	for letter, info := range letterTable {
		for i := 0; i < info.count; i++ {
			pouch = append(pouch, letter)
		}
	}
	return pouch
}

// shuffle permutes the pouch in place with an unbiased Fisher-Yates pass.
func shuffle(rng *rand.Rand, pouch []Letter) {
	for i := len(pouch) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		pouch[i], pouch[j] = pouch[j], pouch[i]
	}
}

// drawTo tops hand up to HandSize from the front of the pouch. The draw is
// clamped to what remains, so a nearly empty pouch yields a short hand
// rather than an error. Returns the new hand and the remaining pouch.
func drawTo(hand []Letter, pouch []Letter) ([]Letter, []Letter) {
	n := HandSize - len(hand)
	if n <= 0 {
		return hand, pouch
	}
	if n > len(pouch) {
		n = len(pouch)
	}
	hand = append(hand, pouch[:n]...)
	return hand, pouch[n:]
}
