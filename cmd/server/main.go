package main

import "payguard/internal/app/server"

func main() {
	server.Run()
}
