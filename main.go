package main

import (
	"log"

	"LinkedinLeads/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
