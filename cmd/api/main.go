package main

import "affiliate-backend/internal/server"

func main() {
	server.ApiInit()
}
