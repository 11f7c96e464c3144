package main

import (
	"os"

	"github.com/quizm/users-service/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
