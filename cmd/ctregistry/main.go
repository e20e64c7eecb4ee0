// Command ctregistry lists, validates and dry-run fills the content types
// described by a contentTypes.yml document.
package main

import "github.com/mesh-intelligence/ctregistry/internal/cli"

func main() {
	cli.Execute()
}
