// verdict - Rule Result Renderer
//
// verdict turns the JSON results of running detection rules and queries
// against email messages into readable terminal, Markdown or JSON output.
package main

import (
	"os"

	"github.com/ccollicutt/verdict/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
