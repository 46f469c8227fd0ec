package main

import "github.com/avoronov/devlink/cmd/server"

func main() {
	server.NewServer().Run()
}
