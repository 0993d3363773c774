package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kittclouds/parsekit/internal/store"
	"github.com/kittclouds/parsekit/pkg/template"
)

// templatesCmd manages the SQLite template store
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage the template store",
}

var templatesImportCmd = &cobra.Command{
	Use:   "import [file ...]",
	Short: "Validate YAML libraries and store their templates",
	Long: `Every template is compiled before anything is written, so a library with a
syntax error or an unbound reference is rejected as a whole. Re-importing an id
stores a new version.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTemplatesImport,
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesList,
}

var templatesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the stored templates to a YAML library",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesExport,
}

func openStore(cmd *cobra.Command) (*store.SQLiteStore, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.Templates.DB
	}
	return store.NewSQLiteStoreWithDSN(dbPath)
}

func runTemplatesImport(cmd *cobra.Command, args []string) error {
	var libs []*template.Library
	compiler := template.NewCompiler()
	for _, path := range args {
		fsys, p, err := openFS(path)
		if err != nil {
			return err
		}
		lib, err := template.LoadLibrary(fsys, p)
		if err != nil {
			return err
		}
		if _, err := compiler.CompileAll(lib.Templates); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		libs = append(libs, lib)
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	total := 0
	for _, lib := range libs {
		n, err := store.ImportLibrary(s, lib)
		total += n
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d templates\n", total)
	return nil
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	all, err := s.All()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVERSION\tSCORE\tPATTERN\tTEMPLATE")
	for _, t := range all {
		fmt.Fprintf(w, "%s\t%d\t%g\t%s\t%s\n", t.ID, t.Version, t.Score, t.Pattern, t.Template)
	}
	return w.Flush()
}

func runTemplatesExport(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	lib, err := store.ExportLibrary(s)
	if err != nil {
		return err
	}
	fsys, p, err := openFS(args[0])
	if err != nil {
		return err
	}
	if err := lib.Save(fsys, p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d templates to %s\n", len(lib.Templates), args[0])
	return nil
}
