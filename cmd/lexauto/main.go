package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"lexauto/internal/dfa"
	"lexauto/internal/match"
	"lexauto/internal/nfa"
	"lexauto/internal/rules"
)

func main() {
	rulesPath := flag.String("rules", "", "rule file (required)")
	ruleName := flag.String("rule", "", "rule to dump or run (default: first rule)")
	dump := flag.String("dump", "", "dump format: table, dot, json or nfa")
	runInput := flag.String("run", "", "run the rule's DFA over this input")
	scanInput := flag.String("scan", "", "tokenize this input with all rules")
	outFile := flag.String("o", "-", "output file")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(*logLevel)}))
	slog.SetDefault(logger)

	if *rulesPath == "" {
		fmt.Fprintln(os.Stderr, "usage: lexauto -rules <file> [-rule name] [-dump table|dot|json|nfa] [-run text] [-scan text] [-o file]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *dump == "" && *runInput == "" && *scanInput == "" {
		*dump = "table"
	}

	var w io.Writer = os.Stdout
	if *outFile != "-" {
		f, err := os.Create(*outFile)
		if err != nil {
			logger.Error("cannot create output", "path", *outFile, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := run(w, logger, *rulesPath, *ruleName, *dump, *runInput, *scanInput); err != nil {
		logger.Error("lexauto failed", "err", err)
		os.Exit(1)
	}
}

func run(w io.Writer, logger *slog.Logger, path, name, dump, runInput, scanInput string) error {
	file, err := rules.Load(path)
	if err != nil {
		return err
	}
	set, err := rules.Compile(file, logger)
	if err != nil {
		return err
	}

	rule := set.Rules[0]
	if name != "" {
		var ok bool
		if rule, ok = set.Rule(name); !ok {
			return fmt.Errorf("no rule named %q", name)
		}
	}

	switch dump {
	case "":
	case "table":
		fmt.Fprintf(w, "rule: %s\n", rule.Name)
		if err := dfa.WriteTable(w, rule.DFA); err != nil {
			return err
		}
	case "dot":
		if err := dfa.WriteDOT(w, rule.DFA); err != nil {
			return err
		}
	case "nfa":
		if err := nfa.WriteDOT(w, rule.Session, rule.Fragment); err != nil {
			return err
		}
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rule.DFA); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown dump format %q", dump)
	}

	if runInput != "" {
		res, err := match.Run(rule.DFA, runInput)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s consumed=%d longest=%d complete=%v\n",
			rule.Name, res.Outcome, res.Consumed, res.Longest, res.Complete)
	}

	if scanInput != "" {
		toks, err := set.Scanner().Scan(scanInput)
		for _, t := range toks {
			fmt.Fprintln(w, t)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
