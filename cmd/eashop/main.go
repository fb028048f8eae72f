package main

import "github.com/matthieukhl/eashop/internal/cmd"

func main() {
	cmd.Execute()
}
