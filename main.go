package main

import (
	"os"

	"github.com/benevole/benevole/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
