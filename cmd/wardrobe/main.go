// wardrobe - mod manager CLI for League cosmetic mods.
package main

import (
	"os"

	"github.com/wardrobe-mods/wardrobe/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
