package shellexpand_test

import (
	"errors"
	"fmt"

	shellexpand "github.com/isseis/go-shellexpand"
)

func ExampleExpandVariablesSimple() {
	vars := map[string]string{
		"NAME": "world",
	}
	lookup := func(name string) (string, bool) {
		value, ok := vars[name]
		return value, ok
	}

	fmt.Println(shellexpand.ExpandVariablesSimple("hello, $NAME!", lookup))
	fmt.Println(shellexpand.ExpandVariablesSimple("hello, ${UNKNOWN}!", lookup))
	fmt.Println(shellexpand.ExpandVariablesSimple("literal $$NAME", lookup))
	// Output:
	// hello, world!
	// hello, ${UNKNOWN}!
	// literal $NAME
}

func ExampleExpandVariables() {
	errBackend := errors.New("backend unavailable")
	lookup := func(name string) (string, bool, error) {
		if name == "BROKEN" {
			return "", false, errBackend
		}
		return "", false, nil
	}

	_, err := shellexpand.ExpandVariables("prefix/$BROKEN/suffix", lookup)

	var lookupErr *shellexpand.LookupError
	if errors.As(err, &lookupErr) {
		fmt.Println(lookupErr.Name)
		fmt.Println(errors.Is(err, errBackend))
	}
	// Output:
	// BROKEN
	// true
}

func ExampleExpandTilde() {
	home := func() (string, bool) { return "/home/alice", true }

	fmt.Println(shellexpand.ExpandTilde("~/notes.txt", home))
	fmt.Println(shellexpand.ExpandTilde("~bob/notes.txt", home))
	// Output:
	// /home/alice/notes.txt
	// ~bob/notes.txt
}

func ExampleExpandFullSimple() {
	home := func() (string, bool) { return "/home/alice", true }
	lookup := func(name string) (string, bool) {
		switch name {
		case "PROJECT":
			return "demo", true
		case "TILDE":
			return "~", true
		}
		return "", false
	}

	// A literal leading tilde expands, even across a substitution.
	fmt.Println(shellexpand.ExpandFullSimple("~/src/$PROJECT", home, lookup))

	// A tilde produced by a substitution does not.
	fmt.Println(shellexpand.ExpandFullSimple("$TILDE/src", home, lookup))
	// Output:
	// /home/alice/src/demo
	// ~/src
}
