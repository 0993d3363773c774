package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kittclouds/parsekit/internal/store"
	"github.com/kittclouds/parsekit/pkg/lexicon"
	"github.com/kittclouds/parsekit/pkg/match"
	"github.com/kittclouds/parsekit/pkg/parser"
	"github.com/kittclouds/parsekit/pkg/phrase"
	"github.com/kittclouds/parsekit/pkg/tagger"
	"github.com/kittclouds/parsekit/pkg/template"
	"github.com/kittclouds/parsekit/pkg/vector"
)

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Tag and parse text into a bracketed tree",
	Example: `  parsekit parse "The dog ran."
  parsekit parse --pretty "I saw the man with the telescope."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var tokensCmd = &cobra.Command{
	Use:     "tokens [word/TAG ...]",
	Short:   "Parse pre-tagged tokens",
	Example: `  parsekit tokens The/DT dog/NN ran/VBD ./.`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runTokens,
}

var matchCmd = &cobra.Command{
	Use:   "match [text]",
	Short: "Match parsed text against template libraries and print the production",
	Long: `Parses the text, keeps the templates whose required literal words occur in it,
matches each one concurrently and prints the production of the best-scoring match.`,
	Example: `  parsekit match --templates rewrite.yaml "The dog ran."`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runMatch,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [text]",
	Short: "List templates whose wording is closest to the text",
	Long: `Ranks templates by the similarity of their pattern words to the text. With --db the
stored templates are ranked inside SQLite; otherwise the library files are indexed in
an HNSW graph (persisted at templates.index when set).`,
	Example: `  parsekit suggest --templates rewrite.yaml "hello big world"
  parsekit suggest --db templates.db -n 5 "the dog ran"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func newParser() *parser.Parser {
	return parser.New(
		parser.WithLogger(logger.Named("parser")),
		parser.WithIterationBudget(cfg.Parser.IterationBudget),
		parser.WithMaxRounds(cfg.Parser.MaxRounds),
	)
}

func newMatcher(p *parser.Parser) *match.Matcher {
	opts := []match.Option{
		match.WithLogger(logger.Named("match")),
		match.WithTagger(p),
		match.WithStepBudget(cfg.Matcher.StepBudget),
		match.WithWorkers(cfg.Matcher.Workers),
	}
	if cfg.Matcher.Spelling {
		opts = append(opts, match.WithComparer(lexicon.NewSpellingComparer()))
	}
	if cfg.Matcher.Reparse {
		opts = append(opts, match.WithAssembler(p))
	}
	return match.New(opts...)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printTree(cmd *cobra.Command, root *phrase.Phrase) {
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		fmt.Fprint(cmd.OutOrStdout(), root.Pretty())
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), root.String())
}

func runParse(cmd *cobra.Command, args []string) error {
	root, err := newParser().ParseText(strings.Join(args, " "))
	if err != nil {
		return err
	}
	printTree(cmd, root)
	return nil
}

func runTokens(cmd *cobra.Command, args []string) error {
	tokens, err := parseTokens(args)
	if err != nil {
		return err
	}
	root, err := newParser().Parse(tokens)
	if err != nil {
		return err
	}
	printTree(cmd, root)
	return nil
}

// parseTokens reads word/TAG pairs. The last slash separates, so "1/2/CD" is "1/2".
func parseTokens(args []string) ([]phrase.Token, error) {
	tokens := make([]phrase.Token, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, "/")
		if i <= 0 || i == len(arg)-1 {
			return nil, fmt.Errorf("token %q: expected word/TAG", arg)
		}
		tokens = append(tokens, phrase.Token{Word: arg[:i], Tag: phrase.Tag(arg[i+1:])})
	}
	return tokens, nil
}

// loadDefinitions gathers definitions from the --templates files (or the
// configured paths) and, when --db is set, from the store.
func loadDefinitions(cmd *cobra.Command) ([]template.Definition, error) {
	paths, _ := cmd.Flags().GetStringSlice("templates")
	if len(paths) == 0 {
		paths = cfg.Templates.Paths
	}

	var defs []template.Definition
	for _, path := range paths {
		fsys, p, err := openFS(path)
		if err != nil {
			return nil, err
		}
		lib, err := template.LoadLibrary(fsys, p)
		if err != nil {
			return nil, err
		}
		defs = append(defs, lib.Templates...)
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		s, err := store.NewSQLiteStoreWithDSN(dbPath)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		lib, err := store.ExportLibrary(s)
		if err != nil {
			return nil, err
		}
		defs = append(defs, lib.Templates...)
	}

	if len(defs) == 0 {
		return nil, errors.New("no templates: pass --templates, --db or set templates.paths")
	}
	return defs, nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	defs, err := loadDefinitions(cmd)
	if err != nil {
		return err
	}
	sources, err := template.NewCompiler().CompileAll(defs)
	if err != nil {
		return err
	}

	p := newParser()
	root, err := p.ParseText(strings.Join(args, " "))
	if err != nil {
		return err
	}

	candidates := sources
	if cfg.Templates.Prefilter {
		candidates = template.NewIndex(sources).CandidatesFor(root)
		logger.Debug("prefiltered templates",
			zap.Int("sources", len(sources)),
			zap.Int("candidates", len(candidates)))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "input: %s\n", root)

	res, ok, err := newMatcher(p).MatchAndProduce(commandContext(cmd), root, candidates)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "no match")
		return nil
	}
	fmt.Fprintf(out, "matched: %s (score %g)\n", res.Source.ID, res.Source.Score)
	fmt.Fprintf(out, "output: %s\n", res.Phrase)
	fmt.Fprintf(out, "text: %s\n", res.Phrase.Text())
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	words := tagger.Words(strings.Join(args, " "))
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		return suggestFromStore(cmd, dbPath, words, limit)
	}

	defs, err := loadDefinitions(cmd)
	if err != nil {
		return err
	}
	sources, err := template.NewCompiler().CompileAll(defs)
	if err != nil {
		return err
	}

	idx, err := openIndex()
	if err != nil {
		return err
	}
	for _, src := range sources {
		if err := idx.AddSource(src); err != nil && !errors.Is(err, vector.ErrDuplicateID) {
			return err
		}
	}
	if cfg.Templates.Index != "" {
		if err := idx.Save(); err != nil {
			return err
		}
	}

	ids, err := idx.Search(words, limit)
	if err != nil {
		return err
	}

	byID := make(map[string]template.Definition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	out := cmd.OutOrStdout()
	for i, id := range ids {
		d := byID[id]
		fmt.Fprintf(out, "%d. %s: %s => %s\n", i+1, id, d.Pattern, d.Template)
	}
	return nil
}

// suggestFromStore ranks the stored templates by their sqlite-vec embeddings.
func suggestFromStore(cmd *cobra.Command, dbPath string, words []string, limit int) error {
	s, err := store.NewSQLiteStoreWithDSN(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	similar, err := s.Similar(words, limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, t := range similar {
		fmt.Fprintf(out, "%d. %s: %s => %s\n", i+1, t.ID, t.Pattern, t.Template)
	}
	return nil
}

// openIndex opens the persisted similarity index, or an in-memory one when
// templates.index is unset.
func openIndex() (*vector.Store, error) {
	if cfg.Templates.Index == "" {
		return vector.NewStore(nil, "", cfg.Templates.Dimension)
	}
	fsys, p, err := openFS(cfg.Templates.Index)
	if err != nil {
		return nil, err
	}
	return vector.NewStore(fsys, p, cfg.Templates.Dimension)
}
