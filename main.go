package main

import "github.com/KaramelBytes/zipeda/cmd"

func main() {
	cmd.Execute()
}
