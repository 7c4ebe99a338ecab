// Command reports loads CSSE COVID-19 daily report files into a SQL table and
// correlates numeric columns of the cleaned data.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"dailyreports/internal/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(cli.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCodeForError(err))
	}
}
