package game

// BoardSize is the side length of the square board.
const BoardSize = 15

// Bonus marks a premium square.
type Bonus string

const (
	BonusNone         Bonus = ""
	BonusDoubleLetter Bonus = "DL"
	BonusTripleLetter Bonus = "TL"
	BonusDoubleWord   Bonus = "DW"
	BonusTripleWord   Bonus = "TW"
)

// Cell is one board square: a bonus (fixed) and an optional placed letter.
type Cell struct {
	Letter Letter `json:"letter,omitempty"`
	Bonus  Bonus  `json:"bonus,omitempty"`
}

// Board is the 15x15 grid, row-major.
type Board [][]Cell

type coord struct{ row, col int }

// Classic premium-square layout. The grid is symmetric under reflection;
// the lists spell it out in full to keep lookups trivial.
var bonusLayout = map[Bonus][]coord{
	BonusTripleWord: {
		{0, 0}, {0, 7}, {0, 14}, {7, 0}, {7, 14}, {14, 0}, {14, 7}, {14, 14},
	},
	BonusDoubleWord: {
		{1, 1}, {2, 2}, {3, 3}, {4, 4}, {7, 7}, {10, 10}, {11, 11}, {12, 12}, {13, 13},
		{1, 13}, {2, 12}, {3, 11}, {4, 10}, {10, 4}, {11, 3}, {12, 2}, {13, 1},
	},
	BonusTripleLetter: {
		{1, 5}, {1, 9}, {5, 1}, {5, 5}, {5, 9}, {5, 13},
		{9, 1}, {9, 5}, {9, 9}, {9, 13}, {13, 5}, {13, 9},
	},
	BonusDoubleLetter: {
		{0, 3}, {0, 11}, {2, 6}, {2, 8}, {3, 0}, {3, 7}, {3, 14},
		{6, 2}, {6, 6}, {6, 8}, {6, 12}, {7, 3}, {7, 11},
		{8, 2}, {8, 6}, {8, 8}, {8, 12}, {11, 0}, {11, 7}, {11, 14},
		{12, 6}, {12, 8}, {14, 3}, {14, 11},
	},
}

// NewBoard builds an empty board with the premium squares laid out.
func NewBoard() Board {
	b := make(Board, BoardSize)
	for r := range b {
		b[r] = make([]Cell, BoardSize)
	}
	for bonus, coords := range bonusLayout {
		for _, c := range coords {
			b[c.row][c.col].Bonus = bonus
		}
	}
	return b
}

// InBounds reports whether the coordinate is on the board.
func (b Board) InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// Occupied reports whether a letter is already placed at the coordinate.
func (b Board) Occupied(row, col int) bool {
	return b[row][col].Letter != ""
}

func (b Board) clone() Board {
	out := make(Board, len(b))
	for r := range b {
		out[r] = make([]Cell, len(b[r]))
		copy(out[r], b[r])
	}
	return out
}
