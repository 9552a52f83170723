package main

import (
	"exusiai.dev/shiftboard/cmd/app"
)

func main() {
	app.Run()
}
