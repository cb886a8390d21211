// Package main is the nik command, which solves inverse kinematics for JSON chain files and reports
// Jacobians and manipulability.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
