package ctl

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/truthlens/truthlens/internal/llm"
	"github.com/truthlens/truthlens/internal/server/services"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents",
}

var documentImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a text file as a document",
	Long: `Import a text file as a document for the given user. Sentences are
reconciled immediately, so the document is ready for analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user-id")
		title, _ := cmd.Flags().GetString("title")

		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		sentences := e.sentences()
		documents := services.NewDocumentService(e.db, e.rm, sentences, e.logger)

		doc, err := documents.Create(cmd.Context(), userID, title, string(content))
		if err != nil {
			return err
		}

		list, err := sentences.SyncDocument(cmd.Context(), doc.ID)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "imported document %d (%q), %d sentences\n", doc.ID, doc.Title, len(list))
		return nil
	},
}

var documentAnalyzeCmd = &cobra.Command{
	Use:   "analyze <document-id>",
	Short: "Run fact-check analysis on a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid document id: %s", args[0])
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		client, err := llm.NewClient(llm.Config{
			Provider: e.cfg.AnalysisProvider,
			Model:    e.cfg.AnalysisModel,
			APIKey:   e.cfg.AnalysisAPIKey,
			BaseURL:  e.cfg.AnalysisBaseURL,
			Timeout:  e.cfg.AnalysisTimeout,
		})
		if err != nil {
			return err
		}

		sentences := e.sentences()
		analysis := services.NewAnalysisService(e.db, e.rm, sentences, client, nil, nil, e.logger)

		list, err := analysis.Analyze(cmd.Context(), id)
		if err != nil {
			return err
		}

		for _, s := range list {
			marker := " "
			if s.Flagged {
				marker = "!"
			}
			fmt.Fprintf(os.Stdout, "%s [%3d%%] %s\n", marker, s.Confidence, s.Content)
		}
		return nil
	},
}

func init() {
	documentImportCmd.Flags().Int64("user-id", 0, "owner user id (required)")
	documentImportCmd.Flags().String("title", "", "document title (defaults to the file name)")
	_ = documentImportCmd.MarkFlagRequired("user-id")

	documentCmd.AddCommand(documentImportCmd)
	documentCmd.AddCommand(documentAnalyzeCmd)
}
