package main

import (
	"BotAdmin/server"
)

func main() {
	s := server.NewServer()
	defer s.Close()
	s.Start(s.Config.Server.Addr)
}
