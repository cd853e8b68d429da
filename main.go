package main

import "github.com/huddlebot/huddlebot/cmd"

func main() {
	cmd.Execute()
}
