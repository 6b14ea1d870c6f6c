package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"codetutor/internal/app"
	"codetutor/internal/config"
	"codetutor/internal/tutor"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a TutorApp. The caller must defer
// app.Close().
func newApp(cmd *cobra.Command) (*app.TutorApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewTutorApp(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readPassphrase prompts on stderr and reads a passphrase without echo.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pass), nil
}

func parseSlideIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid slide index %q", arg)
	}
	return index, nil
}

var rootCmd = &cobra.Command{
	Use:   "codetutor",
	Short: "Slide-based code tutorial authoring",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Generate a new owner ID
		ownerID := uuid.New().String()

		cfg := config.NewConfig(ownerID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Owner ID: %s\n", ownerID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Owner ID:  %s\n", cfg.OwnerID)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Store:     %s\n", cfg.Store.Type)
		return nil
	},
}

// new command
var newCmd = &cobra.Command{
	Use:   "new TITLE",
	Short: "Create a starter project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.CreateProject(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		fmt.Printf("Created project %s\n", id)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		summaries, err := a.ListProjects(cmd.Context())
		if err != nil {
			return err
		}

		if len(summaries) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		for _, s := range summaries {
			fmt.Printf("%s  %-30s  %d slide(s)  %s\n", s.ID, s.Title, s.Slides, s.Owner)
		}
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a project's slides and files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.LoadProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%d slides)\n", p.Title(), p.SlideCount())
		for i, slide := range p.Slides() {
			fmt.Printf("\nSlide %d:\n", i)
			for _, f := range slide.FileSystem().FileList() {
				marker := " "
				if f.Opened() {
					marker = "*"
				}
				fmt.Printf("  %s %s (%d bytes, %d links)\n",
					marker, f.Path(), len(f.Document()), len(f.CodeLinks()))
			}
		}
		return nil
	},
}

// delete command
var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a stored project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteProject(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Deleted project %s\n", args[0])
		return nil
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import ID SLIDE OWNER/REPO[/SUBDIR]",
	Short: "Import a repository into a slide",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		slideIndex, err := parseSlideIndex(args[1])
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ImportRepository(cmd.Context(), args[0], slideIndex, args[2]); err != nil {
			return fmt.Errorf("importing repository: %w", err)
		}

		fmt.Printf("Imported %s into slide %d\n", args[2], slideIndex)
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export ID FILE",
	Short: "Export a project as an encrypted bundle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("creating bundle file: %w", err)
		}
		defer f.Close()

		if err := a.ExportProject(cmd.Context(), args[0], f, passphrase); err != nil {
			return fmt.Errorf("exporting project: %w", err)
		}

		fmt.Printf("Exported project %s to %s\n", args[0], args[1])
		return nil
	},
}

// import-bundle command
var importBundleCmd = &cobra.Command{
	Use:   "import-bundle FILE",
	Short: "Import an encrypted bundle as a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening bundle file: %w", err)
		}
		defer f.Close()

		id, err := a.ImportBundle(cmd.Context(), f, passphrase)
		if err != nil {
			return fmt.Errorf("importing bundle: %w", err)
		}

		fmt.Printf("Imported project %s\n", id)
		return nil
	},
}

// tree command
var treeCmd = &cobra.Command{
	Use:   "tree ID SLIDE",
	Short: "Print a slide's runtime file tree as JSON",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slideIndex, err := parseSlideIndex(args[1])
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tree, err := a.RuntimeTree(cmd.Context(), args[0], slideIndex)
		if err != nil {
			return err
		}

		return printTree(tree)
	},
}

func printTree(tree map[string]*tutor.RuntimeEntry) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(tree)
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importBundleCmd)
	rootCmd.AddCommand(treeCmd)
}
