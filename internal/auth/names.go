package auth

import (
	"fmt"
	"math/rand"
)

var nameAdjectives = []string{
	"happy", "clever", "bright", "swift", "brave", "calm", "eager",
	"fancy", "gentle", "jolly", "kind", "lively", "merry", "nice",
	"proud", "quick", "witty", "zany", "cool", "smart",
}

var nameColors = []string{
	"red", "blue", "green", "yellow", "purple", "orange", "pink",
	"cyan", "magenta", "lime", "indigo", "violet", "coral", "crimson",
	"navy", "teal", "gold", "silver", "bronze", "azure",
}

// randomName returns a human-readable adjective-color display name.
func randomName() string {
	adjective := nameAdjectives[rand.Intn(len(nameAdjectives))]
	color := nameColors[rand.Intn(len(nameColors))]
	return fmt.Sprintf("%s-%s", adjective, color)
}
