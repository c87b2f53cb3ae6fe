package main

import "talentlink_backend/internal/app"

func main() {
	app.Run()
}
