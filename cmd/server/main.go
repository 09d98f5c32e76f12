package main

import "timetrack/internal/app/server"

func main() {
	server.Run()
}
