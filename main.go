package main

import (
	_ "time/tzdata"

	"github.com/Alijeyrad/vitum_backend/cmd"
)

func main() {
	cmd.Execute()
}
