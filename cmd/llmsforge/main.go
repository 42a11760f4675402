package main

import (
	cmd "github.com/llmsforge/ingest/internal/cli"
)

func main() {
	cmd.Execute()
}
