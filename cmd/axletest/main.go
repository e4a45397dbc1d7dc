// Command axletest is both ends of the protocol in one binary: linked
// against a set of registered tests (see package registry), it acts as the
// driver when invoked normally and as a runner when re-exec'd with a
// hidden flag. This mirrors the teacher's single AxleTest.exe, whose
// client_main/server_main were chosen by which named pipe handle the
// process inherited rather than by a CLI flag — cobra's hidden-flag
// dispatch is the idiomatic Go substitute for that inherited-handle switch.
package main

import (
	"fmt"
	"os"

	"github.com/axletest/axletest/cmd/axletest/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
