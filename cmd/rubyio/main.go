///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

// rubyio is a small command line front end to the rubyio library, mostly
// useful for poking at a file tree the way a Ruby one-liner would.
//
//	rubyio [--config FILE] [--disposition NAME] COMMAND [ARGS]
//
// Commands:
//
//	glob PATTERN        list paths matching a Ruby glob
//	stat PATH           print metadata for PATH
//	ls DIR              list the entries of DIR
//	lines FILE          print each record of FILE with its number
//	gsub FILE RE TMPL   rewrite every match of RE in FILE
//	cmp A B             exit 0 when A and B have the same contents
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/pflag"
	"gitlab.com/elixxir/rubyio"
	"gitlab.com/elixxir/rubyio/fileutils"
)

// exitError carries a process exit status without an error message.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func (e exitError) ExitCode() int { return int(e) }

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type command struct {
	name    string
	usage   string
	minArgs int
	run     func(s *rubyio.Session, flags *pflag.FlagSet, args []string, out io.Writer) error
	flags   func(flags *pflag.FlagSet)
}

var commands = []command{
	{name: "glob", usage: "glob PATTERN", minArgs: 1, run: runGlob,
		flags: func(f *pflag.FlagSet) {
			f.String("root", ".", "directory relative patterns are resolved in")
		}},
	{name: "stat", usage: "stat PATH", minArgs: 1, run: runStat,
		flags: func(f *pflag.FlagSet) {
			f.BoolP("lstat", "l", false, "do not follow a final symbolic link")
		}},
	{name: "ls", usage: "ls DIR", minArgs: 1, run: runLs,
		flags: func(f *pflag.FlagSet) {
			f.BoolP("all", "a", false, "include . and ..")
		}},
	{name: "lines", usage: "lines FILE", minArgs: 1, run: runLines,
		flags: func(f *pflag.FlagSet) {
			f.String("sep", "", "record separator (default from config)")
			f.Int("limit", 0, "stop after this many records")
		}},
	{name: "gsub", usage: "gsub FILE PATTERN TEMPLATE", minArgs: 3, run: runGsub,
		flags: func(f *pflag.FlagSet) {
			f.String("options", "", "pattern option letters (imsxqlu)")
			f.BoolP("in-place", "i", false, "write the result back to FILE")
		}},
	{name: "cmp", usage: "cmp A B", minArgs: 2, run: runCmp},
}

func run(args []string, stdout, stderr io.Writer) error {
	var configPath, disposition string
	var verbose bool

	global := pflag.NewFlagSet("rubyio", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	global.StringVar(&configPath, "config", "", "YAML configuration file (default $"+rubyio.ConfigEnvVar+")")
	global.StringVar(&disposition, "disposition", "", "failure handling: warn, ignore, throw or fatal")
	global.BoolVarP(&verbose, "verbose", "v", false, "log at INFO and above")
	global.Usage = func() { usage(global, stderr) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if disposition != "" {
		if cfg.Disposition, err = rubyio.ParseDisposition(disposition); err != nil {
			return err
		}
	}
	cfg.LogOutput = stderr
	if verbose {
		cfg.LogThreshold = "info"
	}
	jww.SetStdoutOutput(stderr)

	session, err := rubyio.NewSession(cfg)
	if err != nil {
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(global, stderr)
		return exitError(2)
	}
	for _, c := range commands {
		if c.name != rest[0] {
			continue
		}
		flags := pflag.NewFlagSet(c.name, pflag.ContinueOnError)
		flags.SetOutput(stderr)
		if c.flags != nil {
			c.flags(flags)
		}
		if err = flags.Parse(rest[1:]); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				return nil
			}
			return err
		}
		if flags.NArg() < c.minArgs {
			return errors.Errorf("usage: rubyio %s", c.usage)
		}
		return c.run(session, flags, flags.Args(), stdout)
	}
	return errors.Errorf("unknown command %q", rest[0])
}

func loadConfig(path string) (rubyio.Config, error) {
	if path == "" {
		return rubyio.LoadConfigFromEnv()
	}
	return rubyio.LoadConfig(path)
}

func usage(global *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage: rubyio [flags] COMMAND [ARGS]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n", c.usage)
	}
	fmt.Fprintf(w, "\nFlags:\n%s", global.FlagUsages())
}

func runGlob(s *rubyio.Session, flags *pflag.FlagSet, args []string, out io.Writer) error {
	root, _ := flags.GetString("root")
	for _, pattern := range args {
		matches, err := s.Glob(pattern, root)
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Fprintln(out, m)
		}
	}
	return nil
}

func runStat(s *rubyio.Session, flags *pflag.FlagSet, args []string, out io.Writer) error {
	lstat, _ := flags.GetBool("lstat")
	for _, path := range args {
		stat := s.Stat
		if lstat {
			stat = s.Lstat
		}
		q, err := stat(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s mode=%o size=%d uid=%d gid=%d nlink=%d "+
			"ino=%d mtime=%s\n", path, q.Ftype(), q.Perm(), q.Size(), q.Uid(),
			q.Gid(), q.Nlink(), q.Ino(), q.Mtime().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runLs(s *rubyio.Session, flags *pflag.FlagSet, args []string, out io.Writer) error {
	all, _ := flags.GetBool("all")
	list := s.Children
	if all {
		list = s.Entries
	}
	names, err := list(args[0])
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

func runLines(s *rubyio.Session, flags *pflag.FlagSet, args []string, out io.Writer) error {
	sep, _ := flags.GetString("sep")
	limit, _ := flags.GetInt("limit")

	h, err := s.Open(args[0], "r", 0)
	if err != nil {
		return err
	}
	defer h.Close()

	if sep == "" {
		sep = s.LineSeparator()
	}
	return h.EachLine(sep, limit, func(line string) {
		fmt.Fprintf(out, "%6d  %s\n", h.Lineno, line)
	})
}

func runGsub(s *rubyio.Session, flags *pflag.FlagSet, args []string, out io.Writer) error {
	options, _ := flags.GetString("options")
	inPlace, _ := flags.GetBool("in-place")

	f, err := s.OpenPatternFile(args[0])
	if err != nil {
		return err
	}
	m, err := f.Pattern(args[1], options)
	if err != nil {
		return err
	}
	if _, err = m.ReplaceAll(args[2]); err != nil {
		return err
	}

	if inPlace {
		return f.Close()
	}
	_, err = io.WriteString(out, f.Contents())
	return err
}

func runCmp(s *rubyio.Session, _ *pflag.FlagSet, args []string, out io.Writer) error {
	same, err := fileutils.New(s, fileutils.Options{}).CompareFile(args[0], args[1])
	if err != nil {
		return err
	}
	if !same {
		fmt.Fprintf(out, "%s %s differ\n", args[0], args[1])
		return exitError(1)
	}
	return nil
}
