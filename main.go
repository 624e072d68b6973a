package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Output
	outputFile      string
	copyToClipboard bool
	printToStdout   bool
	pdfOutputFile   string

	// Report shape
	topN int

	// Filtering
	noIgnore bool

	// Token counting
	withTokens     bool
	tokenizerType  string
	tokenizerModel string
	tokenizerFile  string

	// Interactive mode
	interactiveMode bool
)

// version is set via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "linecount [PATH]",
	Short: "Generate a line count report for a codebase.",
	Long: `linecount walks a directory tree, counts the lines in every source file
that survives the skip rules, and writes a Markdown report with summary
statistics, the largest and smallest files, and a complete inventory.

PATH may also be a Git repository URL (ending in .git or starting with
git@); the repository is cloned to a temporary directory and scanned.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

// run is the command body. Fatal conditions are returned as errors rather
// than exiting in place so deferred cleanup (the Git clone temp dir, the
// tokenizer) always runs.
func run(cmd *cobra.Command, args []string) error {
	rules := loadSkipRules()

	// Determine the scan root: interactive pick, positional arg, or cwd.
	input := "."
	if len(args) > 0 {
		input = args[0]
	}
	if interactiveMode {
		picked, err := runInteractivePicker(rules)
		if err != nil {
			return fmt.Errorf("interactive mode: %w", err)
		}
		if picked == "" {
			// User aborted the picker.
			return nil
		}
		input = picked
	}

	scanRoot := input
	generatedAt := ""
	if isGitURL(input) {
		tempDir, err := cloneGitRepo(input)
		if err != nil {
			return err
		}
		defer func() {
			_ = os.RemoveAll(tempDir)
		}()
		scanRoot = tempDir
		generatedAt = input
	}

	absRoot, err := filepath.Abs(scanRoot)
	if err != nil {
		return fmt.Errorf("resolving path %s: %w", scanRoot, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("'%s' is not a valid directory", absRoot)
	}

	fmt.Printf("Analyzing files in: %s...\n", absRoot)
	result, err := Scan(absRoot, rules, ScanOptions{NoIgnore: noIgnore})
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		fmt.Println("No files found matching the criteria. Report not generated.")
		return nil
	}

	if withTokens {
		tokenizer, err := getTokenizer()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing tokenizer: %v\n", err)
			fmt.Fprintln(os.Stderr, "Token counting disabled due to error.")
			withTokens = false
		} else {
			defer tokenizer.Close()
			countRecordTokens(absRoot, result.Records, tokenizer)
		}
	}

	report := BuildReport(result, rules, ReportOptions{
		TopN:        topN,
		WithTokens:  withTokens,
		GeneratedAt: generatedAt,
	})

	switch {
	case copyToClipboard:
		if err := clipboard.WriteAll(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to clipboard: %v\n", err)
			fmt.Println("\n--- Report (clipboard failed) ---")
			fmt.Println(report)
		} else {
			fmt.Println("Report copied to clipboard.")
		}
	case printToStdout:
		fmt.Println(report)
	default:
		outputPath, err := filepath.Abs(outputFile)
		if err != nil {
			return fmt.Errorf("resolving output path %s: %w", outputFile, err)
		}
		if err := os.WriteFile(outputPath, []byte(report), 0644); err != nil {
			return fmt.Errorf("writing to %s: %w", outputPath, err)
		}
		fmt.Printf("Report generated successfully: %s\n", outputPath)
	}

	if pdfOutputFile != "" {
		if err := writePDF(report, pdfOutputFile); err != nil {
			return err
		}
		fmt.Printf("PDF saved to %s\n", pdfOutputFile)
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	// Output
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "LINE_COUNT.md", "Output file name")
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the report to the clipboard instead of writing a file")
	rootCmd.Flags().BoolVarP(&printToStdout, "print", "p", false, "Print the report to stdout instead of writing a file")
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Additionally save the report as a PDF")

	// Report shape
	rootCmd.Flags().IntVarP(&topN, "top-n", "n", 10, "Number of files in the Largest Files table")
	viper.BindPFlag("top_n", rootCmd.Flags().Lookup("top-n"))

	// Filtering
	rootCmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "Don't respect the root .gitignore file")
	viper.BindPFlag("no_ignore", rootCmd.Flags().Lookup("no-ignore"))

	// Token counting
	rootCmd.Flags().BoolVar(&withTokens, "tokens", false, "Count tokens per file and add a Tokens column")
	rootCmd.Flags().StringVar(&tokenizerType, "tokenizer", "tiktoken", "Tokenizer to use: tiktoken or huggingface")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().StringVar(&tokenizerModel, "model", "", "Model name for the tokenizer (e.g. gpt-4o, gpt2)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().StringVar(&tokenizerFile, "tokenizer-file", "", "Path to a local tokenizer file")

	// Interactive mode
	rootCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Pick the directory to analyze with a fuzzy finder")

	viper.SetDefault("output", "LINE_COUNT.md")
	viper.SetDefault("top_n", 10)
	viper.SetDefault("no_ignore", false)
}

// initConfig reads the optional config file. Environment variables are
// deliberately not consulted.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(filepath.Join(home, ".config", "linecount"))
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}

	// Config values fill in for flags the user did not set explicitly.
	if !rootCmd.Flags().Changed("output") {
		outputFile = viper.GetString("output")
	}
	if !rootCmd.Flags().Changed("top-n") {
		topN = viper.GetInt("top_n")
	}
	if !rootCmd.Flags().Changed("no-ignore") {
		noIgnore = viper.GetBool("no_ignore")
	}
}

// loadSkipRules assembles the active rule set: built-in defaults, a
// categories.yml override when present, and a skip_dirs list from the config
// file when set.
func loadSkipRules() *SkipRules {
	dirs := defaultSkipDirs
	if viper.IsSet("skip_dirs") {
		dirs = viper.GetStringSlice("skip_dirs")
	}

	categories := defaultCategories
	if loaded, err := loadCategoriesFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		fmt.Fprintln(os.Stderr, "Proceeding with the default exclusion categories.")
	} else if loaded != nil {
		categories = loaded
	}

	return NewSkipRules(dirs, categories)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
