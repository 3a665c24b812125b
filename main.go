package main

import "github.com/LegacyCodeHQ/visualdep/cmd"

func main() {
	cmd.Execute()
}
