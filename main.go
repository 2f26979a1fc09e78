package main

import "github.com/MeKo-Tech/texturefield/internal/cmd"

func main() {
	cmd.Execute()
}
