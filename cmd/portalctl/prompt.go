package main

import (
	"context"
	"fmt"
	"strings"
)

func (a *app) Success(msg string) {
	fmt.Fprintln(a.out, msg)
}

func (a *app) Error(msg string) {
	fmt.Fprintln(a.out, "error: "+msg)
}

// Confirm asks on the terminal; anything but y or yes declines.
func (a *app) Confirm(ctx context.Context, prompt string) bool {
	if a.assumeYes {
		return true
	}
	if ctx.Err() != nil {
		return false
	}
	fmt.Fprintf(a.out, "%s [y/N] ", prompt)
	answer, err := a.readLine()
	if err != nil {
		fmt.Fprintln(a.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
