package main

import "github.com/zfogg/moodjournal/internal/cmd"

func main() {
	cmd.Execute()
}
