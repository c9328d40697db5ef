// Command restaurantops runs the per-restaurant point-of-sale analytics
// pipeline, either for a single (restaurant, date) pair or as a batch
// across restaurants and a date range, grounded in admin-cli's
// cmd/admin-cli/main.go: a cobra root command, structured CLIError exit
// codes, a single os.Exit at the boundary.
package main

import (
	"fmt"
	"os"

	"restaurantops/cmd/restaurantops/commands"
)

func main() {
	root := commands.RootCommand()
	if err := root.Execute(); err != nil {
		if cliErr, ok := err.(*commands.CLIError); ok {
			fmt.Fprintln(os.Stderr, cliErr.Error())
			os.Exit(cliErr.ExitCode)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
