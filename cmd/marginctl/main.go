package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Certus/internal/allowables"
	"Certus/internal/analysis"
	"Certus/internal/chapters"
	"Certus/internal/extract"
	"Certus/internal/mapping"
)

var rootCmd = &cobra.Command{
	Use:   "marginctl",
	Short: "Offline margin analysis for extracted structural loads",
	Long: `marginctl runs the certification margin pipeline without the web
service: it reads a pre-extracted solver dataset and a component mapping,
computes reserve factors against the allowable registry and writes the
result set (optionally organized into report chapters) to a file.`,
}

var (
	datasetPath  string
	mappingPath  string
	registryPath string
	workbookDir  string
	outPath      string
	method       string
	loadCases    []int
	withChapters bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run margin analysis on an extracted dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := allowables.LoadFileOrDefault(registryPath)
		if err != nil {
			return err
		}

		var src extract.Source
		if datasetPath == "" {
			fmt.Fprintln(os.Stderr, "no dataset given, using built-in demo dataset")
			src = extract.DemoDataset()
		} else {
			d, err := extract.LoadDataset(datasetPath)
			if err != nil {
				return err
			}
			src = d
		}

		service := &analysis.Service{
			Registry:    registry,
			Mapping:     mapping.LoadOrDemo(mappingPath),
			WorkbookDir: workbookDir,
		}
		run, err := service.Analyze(context.Background(), src, method, loadCases)
		if err != nil {
			return err
		}

		var payload any = run
		if withChapters {
			payload = map[string]any{
				"run_id":   run.ID,
				"method":   run.Method,
				"chapters": chapters.Organize(run.Results),
			}
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		if outPath == "" {
			fmt.Println(string(data))
			return nil
		}
		return os.WriteFile(outPath, data, 0o644)
	},
}

var mappingCmd = &cobra.Command{
	Use:   "mapping <deck.dat>",
	Short: "Extract a component mapping from a Nastran .dat deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := mapping.ParseDat(args[0])
		if err != nil {
			return err
		}
		if len(m) == 0 {
			return fmt.Errorf("no mesh collectors found in %s", args[0])
		}
		fmt.Fprintf(os.Stderr, "parsed %d components\n", len(m))
		if outPath == "" {
			data, err := json.MarshalIndent(m, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		return m.Save(outPath)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the marginctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("marginctl 1.0.0")
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&datasetPath, "dataset", "", "extracted solver dataset (JSON)")
	analyzeCmd.Flags().StringVar(&mappingPath, "mapping", "", "component mapping file (JSON)")
	analyzeCmd.Flags().StringVar(&registryPath, "registry", "", "allowable registry file (JSON)")
	analyzeCmd.Flags().StringVar(&workbookDir, "workbook-dir", "inputs/excel", "base directory for registry workbook paths")
	analyzeCmd.Flags().StringVarP(&outPath, "out", "o", "", "write output to file instead of stdout")
	analyzeCmd.Flags().StringVar(&method, "method", "native", "calculation method: native or excel")
	analyzeCmd.Flags().IntSliceVar(&loadCases, "load-cases", nil, "load case ids to analyze")
	analyzeCmd.Flags().BoolVar(&withChapters, "chapters", false, "organize results into report chapters")

	mappingCmd.Flags().StringVarP(&outPath, "out", "o", "", "write mapping to file instead of stdout")

	rootCmd.AddCommand(analyzeCmd, mappingCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
