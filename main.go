package main

import "github.com/timvw/tmux-window-name/cmd"

func main() {
	cmd.Execute()
}
