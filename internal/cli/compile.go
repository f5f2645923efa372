package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chazu/swarf/pkg/compile"
	"github.com/chazu/swarf/pkg/post"
	"github.com/chazu/swarf/pkg/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "compile <input>",
		Short: "Compile a swarf program to G-code",
		Args:  cobra.ExactArgs(1),
		Run:   runCompile,
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringP("post", "p", "generic", "Controller dialect: generic, mach3, linuxcnc or haas")
	cmd.Flags().Float64("max-rpm", 0, "Machine spindle limit (0: use the program header)")
	cmd.Flags().Bool("no-history", false, "Do not record the run in the database")

	RootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) {
	input := args[0]
	output, _ := cmd.Flags().GetString("output")
	postName, _ := cmd.Flags().GetString("post")
	maxRPM, _ := cmd.Flags().GetFloat64("max-rpm")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	kind, err := post.ParseKind(postName)
	if err != nil {
		exitErr("post", err)
	}
	res, err := compileFile(cmd.Context(), input, kind, maxRPM, !noHistory)
	if err != nil {
		exitErr("compile", err)
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "%s: %v\n", input, e)
	}
	if !res.OK() {
		os.Exit(1)
	}

	if output == "" {
		fmt.Print(res.Output())
		return
	}
	if err := os.WriteFile(output, []byte(res.Output()), 0o644); err != nil {
		exitErr("write output", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d lines for %s to %s\n", len(res.Lines), res.Post.Name(), output)
}

// compileFile compiles one input file. The store, when configured, is
// open only for the duration of the call and records the run whether or
// not the compile succeeded.
func compileFile(ctx context.Context, input string, kind post.Kind, maxRPM float64, record bool) (*compile.Result, error) {
	src, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	tools, err := loadTools()
	if err != nil {
		return nil, fmt.Errorf("load tools: %w", err)
	}

	s, err := openExplicitStore()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if s != nil {
		defer s.Close()
	}
	book, err := loadBook(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}

	c := compile.New(compile.Options{Post: kind, Book: book, Tools: tools, MaxRPM: maxRPM})
	res, err := c.Compile(string(src))
	if err != nil {
		return nil, err
	}

	if s != nil && record {
		_, err := s.RecordRun(ctx, store.Run{
			Input:    filepath.Base(input),
			Post:     kind.String(),
			Lines:    len(res.Lines),
			Warnings: len(res.Warnings),
			Errors:   len(res.Errors),
		})
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("record run: %v", err))
		}
	}
	return res, nil
}
