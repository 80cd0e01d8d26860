package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	flag "github.com/spf13/pflag"
)

type command struct {
	usage string
	run   func(fs *flag.FlagSet, args []string) error
	flags func(fs *flag.FlagSet)
}

var commands = map[string]command{
	"render":   {usage: "[flags] JOB", flags: renderFlags, run: runRender},
	"estimate": {usage: "[flags] FILE", flags: estimateFlags, run: runEstimate},
	"send":     {usage: "[flags] FILE", flags: sendFlags, run: runSend},
	"serve":    {usage: "[flags]", flags: serveFlags, run: runServe},
}

func usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(os.Stderr, "Usage: dotplot COMMAND [flags] [args]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s %s\n", name, commands[name].usage)
	}
}

func main() {
	log.SetFlags(log.Lshortfile)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	name := os.Args[1]
	cmd, ok := commands[name]
	if !ok {
		usage()
		os.Exit(2)
	}

	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dotplot %s %s\n", name, cmd.usage)
		fs.PrintDefaults()
	}
	cmd.flags(fs)
	fs.Parse(os.Args[2:])

	err := cmd.run(fs, fs.Args())
	if err != nil {
		log.Fatalf("ERROR: %s: %+v", name, err)
	}
}
